// Package detector simulates how a finite-pixel sensor samples a continuous
// point-spread function or image: box-average rebinning of oversampled data
// into detector pixels, with an append-only history of captures.
package detector

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"

	"github.com/bob-anderson-ok/fourieroptics/imaging"
	"github.com/bob-anderson-ok/fourieroptics/psf"
)

// ErrInvalidWhich is returned when a capture selector string is neither
// "first", "last", nor an integer index.
var ErrInvalidWhich = errors.New(`invalid "which": want "first", "last", or an integer`)

// ErrCaptureRange is returned when a selector indexes outside the capture
// history, including any selection from an empty history.
var ErrCaptureRange = errors.New("capture index out of range")

// ErrPixelTooLarge is returned when a detector pixel spans the entire field,
// leaving no complete pixel to emit.
var ErrPixelTooLarge = errors.New("detector pixel larger than sampled field")

// Capture is an entry in the detector history; both PSFs and Images qualify.
type Capture interface {
	Save(path string, bitDepth int) error
}

// Which selects a capture from the detector history.
type Which struct {
	kind  whichKind
	index int
}

type whichKind int8

const (
	whichFirst whichKind = iota
	whichLast
	whichIndex
)

// First selects the oldest capture.
func First() Which { return Which{kind: whichFirst} }

// Last selects the most recent capture.
func Last() Which { return Which{kind: whichLast} }

// Index selects the capture at position n in acquisition order.
func Index(n int) Which { return Which{kind: whichIndex, index: n} }

// ParseWhich converts a selector string into a Which. "first" and "last"
// match case-insensitively; anything else must parse as an integer.
func ParseWhich(s string) (Which, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "first":
		return First(), nil
	case "last":
		return Last(), nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return Which{}, fmt.Errorf("%w: got %q", ErrInvalidWhich, s)
	}
	return Index(n), nil
}

// Detector models a sensor with square pixels of the given size in microns.
// Resolution and bit depth describe the sensor but do not enter the
// rebinning math; bit depth is applied when captures are saved.
type Detector struct {
	PixelSize  float64 // microns
	Resolution [2]int
	BitDepth   int

	captures []Capture
}

// New returns a detector with the given pixel pitch (microns), resolution,
// and ADC bit depth.
func New(pixelSize float64, resolution [2]int, bitDepth int) *Detector {
	return &Detector{
		PixelSize:  pixelSize,
		Resolution: resolution,
		BitDepth:   bitDepth,
	}
}

// Captures returns the capture history in acquisition order. The slice is a
// copy; the history itself is append-only.
func (d *Detector) Captures() []Capture {
	return append([]Capture(nil), d.captures...)
}

// SamplePSF simulates photographing an oversampled PSF: the field is trimmed
// so complete detector pixels tile it exactly, then each pixel's intensity
// is the mean of the samples it covers. The result has the detector's pixel
// size as its sample spacing and is appended to the capture history.
//
// Detector pixels are assumed at least as large as the PSF samples; a pixel
// no larger than a sample passes the data through one sample per pixel.
func (d *Detector) SamplePSF(p *psf.PSF) (*psf.PSF, error) {
	spp := int(math.Ceil(d.PixelSize / p.SampleSpacing))
	if spp < 1 {
		spp = 1
	}

	blocksX := p.SamplesX / spp
	blocksY := p.SamplesY / spp
	if blocksX == 0 || blocksY == 0 {
		return nil, fmt.Errorf("%w: %d samples per pixel over %dx%d samples",
			ErrPixelTooLarge, spp, p.SamplesX, p.SamplesY)
	}

	// Trim the leftover samples so whole pixels tile the field. An odd
	// residual trims one extra sample from the leading edge (ceil/floor
	// split) so the centers stay as aligned as possible; an even residual
	// splits evenly. The same rule applies on both axes.
	residX := p.SamplesX - blocksX*spp
	residY := p.SamplesY - blocksY*spp
	startX := (residX + 1) / 2
	startY := (residY + 1) / 2

	out := make([][]float64, blocksX)
	norm := float64(spp * spp)
	for bx := 0; bx < blocksX; bx++ {
		out[bx] = make([]float64, blocksY)
		x0 := startX + bx*spp
		for by := 0; by < blocksY; by++ {
			y0 := startY + by*spp
			sum := 0.0
			for x := x0; x < x0+spp; x++ {
				for y := y0; y < y0+spp; y++ {
					sum += p.Data[x][y]
				}
			}
			out[bx][by] = sum / norm
		}
	}

	sampled, err := psf.New(out, d.PixelSize)
	if err != nil {
		return nil, err
	}
	d.captures = append(d.captures, sampled)
	return sampled, nil
}

// SampleImage samples an image through the detector. The intermediate PSF
// and the resulting image both join the capture history.
func (d *Detector) SampleImage(im *imaging.Image) (*imaging.Image, error) {
	p, err := im.AsPSF()
	if err != nil {
		return nil, err
	}
	sampled, err := d.SamplePSF(p)
	if err != nil {
		return nil, err
	}
	out, err := imaging.New(sampled.Data, sampled.SampleSpacing)
	if err != nil {
		return nil, err
	}
	d.captures = append(d.captures, out)
	return out, nil
}

// SaveImage writes the selected capture to path, quantized to the
// detector's bit depth.
func (d *Detector) SaveImage(path string, which Which) error {
	c, err := d.capture(which)
	if err != nil {
		return err
	}
	return c.Save(path, d.BitDepth)
}

// RenderImage converts the selected capture to a displayable 8-bit
// grayscale image using a robust percentile stretch.
func (d *Detector) RenderImage(which Which) (image.Image, error) {
	c, err := d.capture(which)
	if err != nil {
		return nil, err
	}
	var im *imaging.Image
	switch v := c.(type) {
	case *imaging.Image:
		im = v
	case *psf.PSF:
		im, err = imaging.New(v.Data, v.SampleSpacing)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("capture type %T cannot be rendered", c)
	}
	return im.Render(0.5, 99.5)
}

func (d *Detector) capture(which Which) (Capture, error) {
	n := len(d.captures)
	if n == 0 {
		return nil, fmt.Errorf("%w: history is empty", ErrCaptureRange)
	}
	switch which.kind {
	case whichFirst:
		return d.captures[0], nil
	case whichLast:
		return d.captures[n-1], nil
	default:
		if which.index < 0 || which.index >= n {
			return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrCaptureRange, which.index, n)
		}
		return d.captures[which.index], nil
	}
}
