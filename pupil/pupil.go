// Package pupil models the complex transmittance of an optical system's
// pupil plane, the input to the PSF and MTF engines.
//
// Units: sample spacing in mm per sample, wavelength in microns.
package pupil

import (
	"errors"
	"math"

	"github.com/bob-anderson-ok/fourieroptics/fttools"
)

// ErrNotSquare is returned when pupil data is not a square matrix.
var ErrNotSquare = errors.New("pupil data must be square")

// Pupil is a sampled complex aperture/wavefront description.
type Pupil struct {
	Data          [][]complex128 // transmittance, row index is x
	SampleSpacing float64        // mm per sample
	Samples       int
	Wavelength    float64 // microns
}

// New wraps raw complex transmittance data as a Pupil, validating shape.
func New(data [][]complex128, sampleSpacing, wavelength float64) (*Pupil, error) {
	n := len(data)
	if n == 0 {
		return nil, ErrNotSquare
	}
	for _, row := range data {
		if len(row) != n {
			return nil, ErrNotSquare
		}
	}
	return &Pupil{
		Data:          data,
		SampleSpacing: sampleSpacing,
		Samples:       n,
		Wavelength:    wavelength,
	}, nil
}

// NewCircle builds a uniform (unaberrated) circular pupil: transmittance 1
// inside a circle of diameter epd mm, 0 outside, sampled on a grid of the
// given full width in mm. gridWidth must exceed epd or the aperture is
// clipped by the grid.
func NewCircle(samples int, epd, gridWidth, wavelength float64) *Pupil {
	spacing := gridWidth / float64(samples)
	center := samples / 2
	radius := epd / 2

	data := fttools.MakeComplex2D(samples, samples)
	for i := 0; i < samples; i++ {
		x := float64(i-center) * spacing
		for j := 0; j < samples; j++ {
			y := float64(j-center) * spacing
			if math.Hypot(x, y) <= radius {
				data[i][j] = 1
			}
		}
	}

	return &Pupil{
		Data:          data,
		SampleSpacing: spacing,
		Samples:       samples,
		Wavelength:    wavelength,
	}
}

// Unit returns the pupil-plane spatial axis in mm, centered on floor(n/2).
func (p *Pupil) Unit() []float64 {
	axis := make([]float64, p.Samples)
	center := p.Samples / 2
	for i := range axis {
		axis[i] = float64(i-center) * p.SampleSpacing
	}
	return axis
}
