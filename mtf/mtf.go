// Package mtf implements the modulation-transfer-function engine: derivation
// of the transfer function from a PSF by Fourier transform, tangential and
// sagittal slices, interpolated queries at arbitrary frequency points, and
// the closed-form diffraction-limited reference curve.
//
// Frequency axes are in cycles per mm.
package mtf

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/bob-anderson-ok/fourieroptics/coordinates"
	"github.com/bob-anderson-ok/fourieroptics/fttools"
	"github.com/bob-anderson-ok/fourieroptics/interpolate"
	"github.com/bob-anderson-ok/fourieroptics/psf"
	"github.com/bob-anderson-ok/fourieroptics/pupil"
)

// ErrDimensionMismatch is returned when paired query slices have different
// lengths. Queries never silently truncate to the shorter slice.
var ErrDimensionMismatch = errors.New("query slices have different lengths")

// ErrNotSquare is returned when an MTF is derived from a non-square PSF.
var ErrNotSquare = errors.New("mtf requires a square psf")

// MTF is a sampled modulation transfer function: unitless magnitudes on a
// square grid, normalized so the DC (center) sample is exactly 1.0.
//
// Data must not be mutated after the first interpolated query; the spline
// interpolant is built once and never invalidated.
type MTF struct {
	Data    [][]float64
	Unit    []float64 // cycles per mm
	Samples int
	Center  int

	interp *interpolate.BiCubic
}

// New wraps a magnitude grid and its frequency axis as an MTF.
func New(data [][]float64, unit []float64) (*MTF, error) {
	n, w, err := fttools.RectSize(data)
	if err != nil {
		return nil, err
	}
	if n != w || n != len(unit) {
		return nil, ErrNotSquare
	}
	return &MTF{
		Data:    data,
		Unit:    unit,
		Samples: n,
		Center:  n / 2,
	}, nil
}

// FromPSF derives the MTF of a sampled PSF: the centered 2D FFT magnitude of
// the intensity data, normalized by the DC term. The frequency axis comes
// from the PSF's sample spacing (microns, converted to cy/mm).
func FromPSF(p *psf.PSF) (*MTF, error) {
	if p.SamplesX != p.SamplesY {
		return nil, ErrNotSquare
	}
	n := p.SamplesX

	grid := fttools.MakeComplex2D(n, n)
	for i := range p.Data {
		for j, v := range p.Data[i] {
			grid[i][j] = complex(v, 0)
		}
	}
	fttools.FFT2(grid)
	grid = fttools.FFTShift2D(grid)

	center := n / 2
	dc := cmplx.Abs(grid[center][center])
	data := make([][]float64, n)
	for i := range grid {
		data[i] = make([]float64, n)
		for j, v := range grid[i] {
			data[i][j] = cmplx.Abs(v) / dc
		}
	}

	unit := fttools.ForwardFTUnit(p.SampleSpacing/1000, n)
	return New(data, unit)
}

// FromPupil composes psf.FromPupil and FromPSF.
func FromPupil(pup *pupil.Pupil, efl float64, padding int) (*MTF, error) {
	p, err := psf.FromPupil(pup, efl, padding)
	if err != nil {
		return nil, err
	}
	return FromPSF(p)
}

// Tan returns the tangential (x-axis) slice of the MTF: the positive-
// frequency half of the axis and the corresponding magnitudes. The returned
// slices are copies.
func (m *MTF) Tan() (unit, data []float64) {
	unit = append([]float64(nil), m.Unit[m.Center:]...)
	data = append([]float64(nil), m.Data[m.Center][m.Center:]...)
	return unit, data
}

// Sag returns the sagittal (y-axis) slice of the MTF. The returned slices
// are copies.
func (m *MTF) Sag() (unit, data []float64) {
	unit = append([]float64(nil), m.Unit[m.Center:]...)
	data = make([]float64, m.Samples-m.Center)
	for i := range data {
		data[i] = m.Data[m.Center+i][m.Center]
	}
	return unit, data
}

// interpolant lazily builds the bicubic interpolant over (Unit, Unit, Data).
func (m *MTF) interpolant() (*interpolate.BiCubic, error) {
	if m.interp == nil {
		bi, err := interpolate.NewBiCubic(m.Unit, m.Unit, m.Data)
		if err != nil {
			return nil, err
		}
		m.interp = bi
	}
	return m.interp, nil
}

// ExactPolar evaluates the MTF at (frequency, azimuth) pairs, azimuths in
// radians. A nil azimuths slice means azimuth 0 for every frequency;
// otherwise the slices must have equal lengths.
func (m *MTF) ExactPolar(freqs, azimuths []float64) ([]float64, error) {
	if azimuths == nil {
		azimuths = make([]float64, len(freqs))
	}
	if len(freqs) != len(azimuths) {
		return nil, ErrDimensionMismatch
	}
	bi, err := m.interpolant()
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(freqs))
	for i := range freqs {
		x, y := coordinates.PolarToCart(freqs[i], azimuths[i])
		out[i] = bi.Eval(x, y)
	}
	return out, nil
}

// ExactPolarAt is the scalar form of ExactPolar.
func (m *MTF) ExactPolarAt(freq, azimuth float64) (float64, error) {
	bi, err := m.interpolant()
	if err != nil {
		return 0, err
	}
	x, y := coordinates.PolarToCart(freq, azimuth)
	return bi.Eval(x, y), nil
}

// ExactXY evaluates the MTF at cartesian frequency pairs, cy/mm. A nil ys
// slice means y = 0 for every x; otherwise the slices must have equal
// lengths.
func (m *MTF) ExactXY(xs, ys []float64) ([]float64, error) {
	if ys == nil {
		ys = make([]float64, len(xs))
	}
	if len(xs) != len(ys) {
		return nil, ErrDimensionMismatch
	}
	bi, err := m.interpolant()
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(xs))
	for i := range xs {
		out[i] = bi.Eval(xs[i], ys[i])
	}
	return out, nil
}

// ExactXYAt is the scalar form of ExactXY.
func (m *MTF) ExactXYAt(x, y float64) (float64, error) {
	bi, err := m.interpolant()
	if err != nil {
		return 0, err
	}
	return bi.Eval(x, y), nil
}

// DiffractionLimitedMTF returns the closed-form MTF of an unaberrated
// circular pupil at the given f-number and wavelength (microns), sampled at
// numPts frequencies from DC to the incoherent cutoff 1/(wavelength/1000 *
// fno) cy/mm. At the cutoff the value is exactly 0.
func DiffractionLimitedMTF(fno, wavelength float64, numPts int) (freqs, vals []float64) {
	extinction := 1 / (wavelength / 1000 * fno)
	freqs = make([]float64, numPts)
	vals = make([]float64, numPts)
	for i := range freqs {
		nu := float64(i) / float64(numPts-1)
		freqs[i] = nu * extinction
		vals[i] = (2 / math.Pi) * (math.Acos(nu) - nu*math.Sqrt(1-nu*nu))
	}
	return freqs, vals
}
