// Package imaging provides the Image object consumed and produced by the
// detector model: a real intensity grid with physical sample spacing,
// convertible to a PSF view and persistable as grayscale PNG.
package imaging

import (
	"errors"
	"image"
	"math"
	"sort"

	"github.com/bob-anderson-ok/fourieroptics/fttools"
	"github.com/bob-anderson-ok/fourieroptics/psf"
)

// ErrNoFiniteValues is returned when a render finds nothing displayable.
var ErrNoFiniteValues = errors.New("image has no finite values")

// Image is a sampled intensity image. Sample spacing is in microns.
type Image struct {
	Data          [][]float64
	SampleSpacing float64
}

// New wraps an intensity grid as an Image, validating shape.
func New(data [][]float64, sampleSpacing float64) (*Image, error) {
	if _, _, err := fttools.RectSize(data); err != nil {
		return nil, err
	}
	return &Image{Data: data, SampleSpacing: sampleSpacing}, nil
}

// AsPSF returns a PSF view of the image at the same sample spacing.
func (im *Image) AsPSF() (*psf.PSF, error) {
	return psf.New(im.Data, im.SampleSpacing)
}

// Save writes the image as a grayscale PNG quantized to the given bit depth.
func (im *Image) Save(path string, bitDepth int) error {
	return psf.WriteGrayPNG(path, im.Data, bitDepth)
}

// Render converts the image to an 8-bit grayscale image.Image for display,
// stretching the given percentile range (e.g. 0.5, 99.5) to full scale.
// Non-finite samples render black.
func (im *Image) Render(pLow, pHigh float64) (image.Image, error) {
	h, w, err := fttools.RectSize(im.Data)
	if err != nil {
		return nil, err
	}
	if !(0 <= pLow && pLow < pHigh && pHigh <= 100) {
		return nil, errors.New("percentiles must satisfy 0 <= pLow < pHigh <= 100")
	}

	vals := make([]float64, 0, h*w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := im.Data[y][x]
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				vals = append(vals, v)
			}
		}
	}
	if len(vals) == 0 {
		return nil, ErrNoFiniteValues
	}
	sort.Float64s(vals)

	lo := percentile(vals, pLow)
	hi := percentile(vals, pHigh)
	if hi == lo {
		hi = lo + 1 // constant image; avoid divide-by-zero
	}

	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := y * img.Stride
		for x := 0; x < w; x++ {
			v := im.Data[y][x]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				img.Pix[row+x] = 0
				continue
			}
			t := (v - lo) / (hi - lo)
			if t < 0 {
				t = 0
			} else if t > 1 {
				t = 1
			}
			img.Pix[row+x] = uint8(math.Round(t * 255.0))
		}
	}
	return img, nil
}

func percentile(sorted []float64, p float64) float64 {
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	pos := (p / 100.0) * float64(len(sorted)-1)
	i := int(math.Floor(pos))
	f := pos - float64(i)
	if i >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[i]*(1-f) + sorted[i+1]*f
}
