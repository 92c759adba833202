// Package fttools provides the Fourier-transform plumbing shared by the PSF
// and MTF engines: the centered frequency axis for an FFT-based transform,
// 2D FFTs built from gonum's 1D complex FFT, and the fftshift family.
package fttools

import (
	"errors"

	"gonum.org/v1/gonum/dsp/fourier"
)

// ErrRaggedMatrix is returned when a matrix has rows of unequal length.
var ErrRaggedMatrix = errors.New("ragged matrix")

// ErrEmptyMatrix is returned when a matrix has no rows or no columns.
var ErrEmptyMatrix = errors.New("empty matrix")

// ForwardFTUnit returns the frequency axis, in cycles per unit length, for a
// centered FFT of n samples taken at the given real-space spacing. Index
// floor(n/2) maps to zero frequency; the axis spans [-1/(2*spacing),
// +1/(2*spacing)) for even n and is symmetric for odd n. This matches the
// conventional fftshift(fftfreq(n, spacing)) grid for both parities.
func ForwardFTUnit(spacing float64, n int) []float64 {
	axis := make([]float64, n)
	center := n / 2
	df := 1.0 / (spacing * float64(n))
	for i := range axis {
		axis[i] = float64(i-center) * df
	}
	return axis
}

// FFT2 computes the forward 2D FFT of a square complex matrix in place,
// rows first and then columns. Gonum's transforms are unnormalized.
func FFT2(a [][]complex128) {
	fft2(a, true)
}

// IFFT2 computes the inverse 2D FFT of a square complex matrix in place,
// including the 1/(h*w) normalization gonum leaves to the caller.
func IFFT2(a [][]complex128) {
	fft2(a, false)
	h := len(a)
	if h == 0 {
		return
	}
	w := len(a[0])
	scale := complex(1.0/float64(h*w), 0)
	for y := range a {
		for x := range a[y] {
			a[y][x] *= scale
		}
	}
}

func fft2(a [][]complex128, forward bool) {
	h := len(a)
	if h == 0 {
		return
	}
	w := len(a[0])

	rowFFT := fourier.NewCmplxFFT(w)
	colFFT := fourier.NewCmplxFFT(h)

	tmp := make([]complex128, w)
	for y := 0; y < h; y++ {
		copy(tmp, a[y])
		if forward {
			rowFFT.Coefficients(tmp, tmp)
		} else {
			rowFFT.Sequence(tmp, tmp)
		}
		copy(a[y], tmp)
	}

	col := make([]complex128, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = a[y][x]
		}
		if forward {
			colFFT.Coefficients(col, col)
		} else {
			colFFT.Sequence(col, col)
		}
		for y := 0; y < h; y++ {
			a[y][x] = col[y]
		}
	}
}

// FFTShift2D moves the DC term of an FFT result to index floor(n/2) along
// each axis, the center convention used throughout this module.
func FFTShift2D(a [][]complex128) [][]complex128 {
	h := len(a)
	w := len(a[0])
	return rollComplex(a, h/2, w/2)
}

// IFFTShift2D moves the center of a centered matrix back to (0,0). It is the
// inverse of FFTShift2D for both even and odd sizes.
func IFFTShift2D(a [][]complex128) [][]complex128 {
	h := len(a)
	w := len(a[0])
	return rollComplex(a, (h+1)/2, (w+1)/2)
}

// FFTShiftReal is FFTShift2D for real matrices.
func FFTShiftReal(a [][]float64) [][]float64 {
	h := len(a)
	w := len(a[0])
	return rollReal(a, h/2, w/2)
}

// IFFTShiftReal is IFFTShift2D for real matrices.
func IFFTShiftReal(a [][]float64) [][]float64 {
	h := len(a)
	w := len(a[0])
	return rollReal(a, (h+1)/2, (w+1)/2)
}

func rollComplex(a [][]complex128, shY, shX int) [][]complex128 {
	h := len(a)
	w := len(a[0])
	out := make([][]complex128, h)
	for y := range out {
		out[y] = make([]complex128, w)
	}
	for y := 0; y < h; y++ {
		yy := (y + shY) % h
		for x := 0; x < w; x++ {
			xx := (x + shX) % w
			out[yy][xx] = a[y][x]
		}
	}
	return out
}

func rollReal(a [][]float64, shY, shX int) [][]float64 {
	h := len(a)
	w := len(a[0])
	out := make([][]float64, h)
	for y := range out {
		out[y] = make([]float64, w)
	}
	for y := 0; y < h; y++ {
		yy := (y + shY) % h
		for x := 0; x < w; x++ {
			xx := (x + shX) % w
			out[yy][xx] = a[y][x]
		}
	}
	return out
}

// MakeComplex2D allocates an h x w complex matrix of zeros.
func MakeComplex2D(h, w int) [][]complex128 {
	m := make([][]complex128, h)
	for i := range m {
		m[i] = make([]complex128, w)
	}
	return m
}

// RectSize returns the dimensions of a real matrix, rejecting ragged input.
func RectSize(m [][]float64) (h, w int, err error) {
	h = len(m)
	if h == 0 {
		return 0, 0, ErrEmptyMatrix
	}
	w = len(m[0])
	if w == 0 {
		return 0, 0, ErrEmptyMatrix
	}
	for i := 1; i < h; i++ {
		if len(m[i]) != w {
			return 0, 0, ErrRaggedMatrix
		}
	}
	return h, w, nil
}
