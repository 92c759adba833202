// Package psf implements the point-spread-function engine: construction of
// an image-plane intensity distribution from a pupil by Fourier transform,
// spline resampling onto arbitrary grids, and PNG export of the sampled
// intensity.
//
// Units: sample spacing in microns per sample. The row index of Data is the
// x axis throughout.
package psf

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"math/cmplx"
	"os"

	"github.com/bob-anderson-ok/fourieroptics/fttools"
	"github.com/bob-anderson-ok/fourieroptics/interpolate"
	"github.com/bob-anderson-ok/fourieroptics/pupil"
)

// ErrEmptyQuery is returned when Resample is given an empty query axis.
var ErrEmptyQuery = errors.New("empty resample query axis")

// PSF is a sampled point-spread function: a real intensity grid plus its
// physical sample spacing. The zero-centered spatial axes are fixed at
// construction.
//
// Data must not be mutated after the first interpolated query; the spline
// interpolant is built once and never invalidated.
type PSF struct {
	Data          [][]float64
	SampleSpacing float64 // microns per sample
	SamplesX      int
	SamplesY      int
	CenterX       int
	CenterY       int
	UnitX         []float64 // microns
	UnitY         []float64 // microns

	interp *interpolate.BiCubic
}

// New wraps an intensity grid as a PSF. The grid may be non-square (the
// detector model emits non-square fields after trimming).
func New(data [][]float64, sampleSpacing float64) (*PSF, error) {
	nx, ny, err := fttools.RectSize(data)
	if err != nil {
		return nil, err
	}
	p := &PSF{
		Data:          data,
		SampleSpacing: sampleSpacing,
		SamplesX:      nx,
		SamplesY:      ny,
		CenterX:       nx / 2,
		CenterY:       ny / 2,
	}
	p.UnitX = spatialAxis(nx, sampleSpacing)
	p.UnitY = spatialAxis(ny, sampleSpacing)
	return p, nil
}

func spatialAxis(n int, spacing float64) []float64 {
	axis := make([]float64, n)
	center := n / 2
	for i := range axis {
		axis[i] = float64(i-center) * spacing
	}
	return axis
}

// FromPupil computes the PSF of an optical system from its pupil function.
// The pupil is zero-padded by the multiplicative padding factor, forward
// transformed, and squared to intensity; the peak is normalized to 1.0.
//
// The image-plane sample spacing follows from the geometric scaling of the
// transform: wavelength [um] * efl [mm] / (pupil spacing [mm] * padded
// sample count), giving microns per sample.
func FromPupil(p *pupil.Pupil, efl float64, padding int) (*PSF, error) {
	if padding < 1 {
		padding = 1
	}
	n := p.Samples
	padN := n * padding

	grid := fttools.MakeComplex2D(padN, padN)
	offset := padN/2 - n/2
	for i := 0; i < n; i++ {
		copy(grid[i+offset][offset:offset+n], p.Data[i])
	}

	// Move the pupil center to (0,0) so the transform sees a properly
	// registered aperture, transform, and re-center the result.
	grid = fttools.IFFTShift2D(grid)
	fttools.FFT2(grid)
	grid = fttools.FFTShift2D(grid)

	data := make([][]float64, padN)
	peak := 0.0
	for i := range grid {
		data[i] = make([]float64, padN)
		for j, v := range grid[i] {
			mag := cmplx.Abs(v)
			data[i][j] = mag * mag
			if data[i][j] > peak {
				peak = data[i][j]
			}
		}
	}
	if peak > 0 {
		for i := range data {
			for j := range data[i] {
				data[i][j] /= peak
			}
		}
	}

	spacing := p.Wavelength * efl / (p.SampleSpacing * float64(padN))
	return New(data, spacing)
}

// interpolant lazily builds the bicubic interpolant over (UnitX, UnitY,
// Data). Built once on first use and kept for the life of the instance.
func (p *PSF) interpolant() (*interpolate.BiCubic, error) {
	if p.interp == nil {
		bi, err := interpolate.NewBiCubic(p.UnitX, p.UnitY, p.Data)
		if err != nil {
			return nil, err
		}
		p.interp = bi
	}
	return p.interp, nil
}

// At returns the interpolated intensity at the physical point (x, y) microns.
func (p *PSF) At(x, y float64) (float64, error) {
	bi, err := p.interpolant()
	if err != nil {
		return 0, err
	}
	return bi.Eval(x, y), nil
}

// Resample evaluates the PSF on new spatial axes (microns) via the cached
// bicubic interpolant, returning a new PSF. The sample spacing of the result
// is inferred from the query axes.
func (p *PSF) Resample(queryX, queryY []float64) (*PSF, error) {
	if len(queryX) == 0 || len(queryY) == 0 {
		return nil, ErrEmptyQuery
	}
	bi, err := p.interpolant()
	if err != nil {
		return nil, err
	}
	data := bi.EvalGrid(queryX, queryY)

	spacing := p.SampleSpacing
	if len(queryX) > 1 {
		spacing = (queryX[len(queryX)-1] - queryX[0]) / float64(len(queryX)-1)
	}
	return New(data, spacing)
}

// Save writes the PSF intensity to a PNG at the given path. Bit depths of 8
// or less quantize into an 8-bit grayscale container; deeper captures use a
// 16-bit container with values scaled to 2^bitDepth - 1.
func (p *PSF) Save(path string, bitDepth int) error {
	return WriteGrayPNG(path, p.Data, bitDepth)
}

// WriteGrayPNG encodes a matrix of intensities in [0, 1] as a grayscale PNG.
// Non-finite values write as black.
func WriteGrayPNG(path string, m [][]float64, bitDepth int) (err error) {
	h, w, err := fttools.RectSize(m)
	if err != nil {
		return err
	}
	if bitDepth < 1 || bitDepth > 16 {
		return fmt.Errorf("bit depth %d outside [1, 16]", bitDepth)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	scale := float64(uint(1)<<uint(bitDepth) - 1)

	if bitDepth <= 8 {
		img := image.NewGray(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			row := y * img.Stride
			for x := 0; x < w; x++ {
				img.Pix[row+x] = uint8(quantize(m[y][x], scale))
			}
		}
		return png.Encode(f, img)
	}

	img := image.NewGray16(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := y * img.Stride
		for x := 0; x < w; x++ {
			v := quantize(m[y][x], scale)
			// Gray16 pixels are big-endian: high byte then low byte.
			i := row + 2*x
			img.Pix[i] = uint8(v >> 8)
			img.Pix[i+1] = uint8(v)
		}
	}
	return png.Encode(f, img)
}

func quantize(v, scale float64) uint16 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	u := math.Round(v * scale)
	if u < 0 {
		u = 0
	} else if u > scale {
		u = scale
	}
	return uint16(u)
}
