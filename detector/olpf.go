package detector

import (
	"math"

	"github.com/bob-anderson-ok/fourieroptics/conf"
	"github.com/bob-anderson-ok/fourieroptics/psf"
)

// OLPF is an optical low-pass filter: a birefringent element that splits
// each ray into four, blurring the image to suppress aliasing. In image
// space it is a four-point impulse pattern offset by half the blur width.
type OLPF struct {
	*psf.PSF
	WidthX float64 // blur width in x, microns
	WidthY float64 // blur width in y, microns

	cfg *conf.Config
}

// NewOLPF builds an OLPF with the given blur widths in microns, sampled on a
// samples x samples grid at sampleSpacing microns. A widthY of 0 copies
// widthX. A nil cfg uses the defaults.
func NewOLPF(widthX, widthY, sampleSpacing float64, samples int, cfg *conf.Config) (*OLPF, error) {
	if widthY == 0 {
		widthY = widthX
	}
	if cfg == nil {
		cfg = conf.New()
	}

	shiftX := int(math.Floor(widthX / 2 / sampleSpacing))
	shiftY := int(math.Floor(widthY / 2 / sampleSpacing))
	center := samples / 2

	data := make([][]float64, samples)
	for i := range data {
		data[i] = make([]float64, samples)
	}
	data[center-shiftX][center-shiftY] = 1
	data[center-shiftX][center+shiftY] = 1
	data[center+shiftX][center-shiftY] = 1
	data[center+shiftX][center+shiftY] = 1

	p, err := psf.New(data, sampleSpacing)
	if err != nil {
		return nil, err
	}
	return &OLPF{PSF: p, WidthX: widthX, WidthY: widthY, cfg: cfg}, nil
}

// AnalyticFT evaluates the exact Fourier transform of the four-point
// impulse pattern, a product of cosines, directly at the query frequencies
// (cy/mm). No numerical FFT is involved. The result is indexed [i][j] for
// (unitX[i], unitY[j]) and cast to the configured precision.
func (o *OLPF) AnalyticFT(unitX, unitY []float64) [][]float64 {
	out := make([][]float64, len(unitX))
	for i, fx := range unitX {
		out[i] = make([]float64, len(unitY))
		cx := math.Cos(2 * fx * o.WidthX / 1e3)
		for j, fy := range unitY {
			out[i][j] = cx * math.Cos(2*fy*o.WidthY/1e3)
		}
	}
	return o.cfg.CastMatrix(out)
}

// PixelAperture is the image-plane view of a single square detector pixel:
// a uniform block of the given size in microns.
type PixelAperture struct {
	*psf.PSF
	Size float64 // full width of the pixel, microns

	cfg *conf.Config
}

// NewPixelAperture builds a square pixel aperture of the given size in
// microns on a samples x samples grid at sampleSpacing microns. A nil cfg
// uses the defaults.
func NewPixelAperture(size, sampleSpacing float64, samples int, cfg *conf.Config) (*PixelAperture, error) {
	if cfg == nil {
		cfg = conf.New()
	}

	center := samples / 2
	steps := int(math.Floor(size / 2 / sampleSpacing))

	data := make([][]float64, samples)
	for i := range data {
		data[i] = make([]float64, samples)
	}
	for i := center - steps; i < center+steps; i++ {
		for j := center - steps; j < center+steps; j++ {
			data[i][j] = 1
		}
	}

	p, err := psf.New(data, sampleSpacing)
	if err != nil {
		return nil, err
	}
	return &PixelAperture{PSF: p, Size: size, cfg: cfg}, nil
}

// AnalyticFT evaluates the exact Fourier transform of the square aperture, a
// product of normalized sinc functions, at the query frequencies (cy/mm).
// The result is cast to the configured precision.
func (pa *PixelAperture) AnalyticFT(unitX, unitY []float64) [][]float64 {
	out := make([][]float64, len(unitX))
	for i, fx := range unitX {
		out[i] = make([]float64, len(unitY))
		sx := sinc(fx * pa.Size / 1e3)
		for j, fy := range unitY {
			out[i][j] = sx * sinc(fy*pa.Size/1e3)
		}
	}
	return pa.cfg.CastMatrix(out)
}

// PixelMTF returns the analytic sampling MTF of a square pixel of the given
// pitch in microns: |sinc| over normalized frequency 0..2, with the
// frequency axis scaled to cy/mm. The first zero falls at 1/(pitch/1000).
func PixelMTF(pixelPitch float64, numSamples int) (freqs, vals []float64) {
	pitchUnit := pixelPitch / 1000
	freqs = make([]float64, numSamples)
	vals = make([]float64, numSamples)
	for i := range freqs {
		nu := 2 * float64(i) / float64(numSamples-1)
		freqs[i] = nu / pitchUnit
		vals[i] = math.Abs(sinc(nu))
	}
	return freqs, vals
}

// sinc is the normalized sinc function sin(pi x)/(pi x), 1 at x = 0.
func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}
