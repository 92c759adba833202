// Package interpolate provides bicubic interpolation over rectilinear 2D
// grids, used to query sampled point-spread and transfer functions at
// arbitrary, not necessarily grid-aligned points.
package interpolate

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// ErrShapeMismatch is returned when the value grid does not match the axes.
var ErrShapeMismatch = errors.New("value grid shape does not match axes")

// BiCubic interpolates a function sampled on a rectilinear grid using a
// spline-of-splines composition: one natural cubic spline per x row over the
// y axis, and a cross spline over x rebuilt whenever the query ordinate
// changes. Queries outside the grid clamp to the nearest boundary.
//
// A BiCubic caches the cross spline between calls and is not safe for
// concurrent use.
type BiCubic struct {
	xs, ys []float64

	rowSplines []interp.NaturalCubic

	lastY   float64
	rowVals []float64
	xSpline interp.NaturalCubic
}

// NewBiCubic builds a bicubic interpolator for vals sampled at the points
// (xs[i], ys[j]), with vals indexed [i][j]. Both axes must be strictly
// increasing with at least two points.
func NewBiCubic(xs, ys []float64, vals [][]float64) (*BiCubic, error) {
	if len(vals) != len(xs) {
		return nil, fmt.Errorf("%w: %d rows for %d x samples", ErrShapeMismatch, len(vals), len(xs))
	}
	for i := range vals {
		if len(vals[i]) != len(ys) {
			return nil, fmt.Errorf("%w: row %d has %d values for %d y samples",
				ErrShapeMismatch, i, len(vals[i]), len(ys))
		}
	}

	bi := &BiCubic{
		xs:         append([]float64(nil), xs...),
		ys:         append([]float64(nil), ys...),
		rowSplines: make([]interp.NaturalCubic, len(xs)),
		rowVals:    make([]float64, len(xs)),
	}

	for i := range xs {
		if err := bi.rowSplines[i].Fit(bi.ys, vals[i]); err != nil {
			return nil, fmt.Errorf("fitting row spline %d: %w", i, err)
		}
	}

	bi.lastY = bi.ys[0]
	for i := range bi.rowVals {
		bi.rowVals[i] = bi.rowSplines[i].Predict(bi.lastY)
	}
	if err := bi.xSpline.Fit(bi.xs, bi.rowVals); err != nil {
		return nil, fmt.Errorf("fitting cross spline: %w", err)
	}
	return bi, nil
}

// Eval returns the interpolated value at (x, y).
func (bi *BiCubic) Eval(x, y float64) float64 {
	x = clamp(x, bi.xs[0], bi.xs[len(bi.xs)-1])
	y = clamp(y, bi.ys[0], bi.ys[len(bi.ys)-1])

	if y != bi.lastY {
		bi.lastY = y
		for i := range bi.rowVals {
			bi.rowVals[i] = bi.rowSplines[i].Predict(y)
		}
		// Axes are unchanged, so refitting cannot fail here.
		if err := bi.xSpline.Fit(bi.xs, bi.rowVals); err != nil {
			panic(err)
		}
	}

	return bi.xSpline.Predict(x)
}

// EvalAll evaluates the interpolant at each (xs[i], ys[i]) pair.
func (bi *BiCubic) EvalAll(xs, ys []float64) []float64 {
	out := make([]float64, len(xs))
	for i := range xs {
		out[i] = bi.Eval(xs[i], ys[i])
	}
	return out
}

// EvalGrid evaluates the interpolant on the outer product of the query axes,
// returning a matrix indexed [i][j] for (xs[i], ys[j]).
func (bi *BiCubic) EvalGrid(xs, ys []float64) [][]float64 {
	out := make([][]float64, len(xs))
	for i := range out {
		out[i] = make([]float64, len(ys))
	}
	// Iterate y in the outer loop so the cached cross spline is reused
	// across a full column.
	for j, y := range ys {
		for i, x := range xs {
			out[i][j] = bi.Eval(x, y)
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
