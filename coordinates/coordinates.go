// Package coordinates provides polar/cartesian conversions and grid
// resampling used to translate (frequency, azimuth) queries into (x, y)
// lookups on sampled optical functions.
package coordinates

import (
	"errors"
	"math"

	"github.com/bob-anderson-ok/fourieroptics/interpolate"
)

// ErrLengthMismatch is returned by the slice conversion forms when the two
// coordinate slices have different lengths.
var ErrLengthMismatch = errors.New("coordinate slices have different lengths")

// CartToPolar returns the (rho, phi) coordinates of the point (x, y).
// phi is in radians, in (-pi, pi].
func CartToPolar(x, y float64) (rho, phi float64) {
	return math.Hypot(x, y), math.Atan2(y, x)
}

// PolarToCart returns the (x, y) coordinates of the point (rho, phi).
// phi is in radians.
func PolarToCart(rho, phi float64) (x, y float64) {
	return rho * math.Cos(phi), rho * math.Sin(phi)
}

// CartToPolarN converts corresponding slices of x and y coordinates.
func CartToPolarN(xs, ys []float64) (rhos, phis []float64, err error) {
	if len(xs) != len(ys) {
		return nil, nil, ErrLengthMismatch
	}
	rhos = make([]float64, len(xs))
	phis = make([]float64, len(xs))
	for i := range xs {
		rhos[i], phis[i] = CartToPolar(xs[i], ys[i])
	}
	return rhos, phis, nil
}

// PolarToCartN converts corresponding slices of rho and phi coordinates.
func PolarToCartN(rhos, phis []float64) (xs, ys []float64, err error) {
	if len(rhos) != len(phis) {
		return nil, nil, ErrLengthMismatch
	}
	xs = make([]float64, len(rhos))
	ys = make([]float64, len(rhos))
	for i := range rhos {
		xs[i], ys[i] = PolarToCart(rhos[i], phis[i])
	}
	return xs, ys, nil
}

// Resample2D interpolates data sampled at (sampleX[i], sampleY[j]) onto the
// outer product of the query axes via a bicubic spline. data is indexed
// [i][j]; the result is indexed the same way over the query axes.
func Resample2D(data [][]float64, sampleX, sampleY, queryX, queryY []float64) ([][]float64, error) {
	bi, err := interpolate.NewBiCubic(sampleX, sampleY, data)
	if err != nil {
		return nil, err
	}
	return bi.EvalGrid(queryX, queryY), nil
}
