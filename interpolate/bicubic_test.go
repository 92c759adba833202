package interpolate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gridAxis(n int, x0, dx float64) []float64 {
	axis := make([]float64, n)
	for i := range axis {
		axis[i] = x0 + float64(i)*dx
	}
	return axis
}

func TestBiCubicReproducesKnots(t *testing.T) {
	xs := gridAxis(8, -2, 0.7)
	ys := gridAxis(8, 1, 0.3)
	vals := make([][]float64, len(xs))
	for i := range vals {
		vals[i] = make([]float64, len(ys))
		for j := range vals[i] {
			vals[i][j] = math.Sin(xs[i]) * math.Cos(ys[j])
		}
	}

	bi, err := NewBiCubic(xs, ys, vals)
	require.NoError(t, err)

	for i := range xs {
		for j := range ys {
			assert.InDelta(t, vals[i][j], bi.Eval(xs[i], ys[j]), 1e-9,
				"knot (%d, %d)", i, j)
		}
	}
}

func TestBiCubicLinearSurfaceExact(t *testing.T) {
	// A natural cubic spline reproduces linear data exactly, including
	// between knots.
	xs := gridAxis(6, 0, 1)
	ys := gridAxis(5, 0, 2)
	vals := make([][]float64, len(xs))
	for i := range vals {
		vals[i] = make([]float64, len(ys))
		for j := range vals[i] {
			vals[i][j] = 3*xs[i] - 2*ys[j] + 1
		}
	}

	bi, err := NewBiCubic(xs, ys, vals)
	require.NoError(t, err)

	assert.InDelta(t, 3*2.5-2*3.3+1, bi.Eval(2.5, 3.3), 1e-9)
	assert.InDelta(t, 3*0.1-2*7.9+1, bi.Eval(0.1, 7.9), 1e-9)
}

func TestBiCubicSmoothAccuracy(t *testing.T) {
	// Off-knot queries on a smooth function should be close on a dense grid.
	xs := gridAxis(41, -2, 0.1)
	ys := gridAxis(41, -2, 0.1)
	vals := make([][]float64, len(xs))
	for i := range vals {
		vals[i] = make([]float64, len(ys))
		for j := range vals[i] {
			vals[i][j] = math.Exp(-(xs[i]*xs[i] + ys[j]*ys[j]))
		}
	}

	bi, err := NewBiCubic(xs, ys, vals)
	require.NoError(t, err)

	for _, q := range [][2]float64{{0.05, 0.05}, {-0.55, 1.23}, {1.91, -0.02}} {
		want := math.Exp(-(q[0]*q[0] + q[1]*q[1]))
		assert.InDelta(t, want, bi.Eval(q[0], q[1]), 1e-4)
	}
}

func TestBiCubicClampsOutOfRange(t *testing.T) {
	xs := gridAxis(4, 0, 1)
	ys := gridAxis(4, 0, 1)
	vals := [][]float64{
		{1, 1, 1, 1},
		{2, 2, 2, 2},
		{3, 3, 3, 3},
		{4, 4, 4, 4},
	}
	bi, err := NewBiCubic(xs, ys, vals)
	require.NoError(t, err)

	// Beyond either edge the query clamps to the boundary value.
	assert.InDelta(t, bi.Eval(0, 0), bi.Eval(-10, -10), 1e-12)
	assert.InDelta(t, bi.Eval(3, 3), bi.Eval(50, 3), 1e-12)
}

func TestBiCubicShapeValidation(t *testing.T) {
	xs := gridAxis(3, 0, 1)
	ys := gridAxis(4, 0, 1)

	_, err := NewBiCubic(xs, ys, [][]float64{{1, 2, 3, 4}})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = NewBiCubic(xs, ys, [][]float64{{1, 2}, {1, 2}, {1, 2}})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestBiCubicEvalAll(t *testing.T) {
	xs := gridAxis(5, 0, 1)
	ys := gridAxis(5, 0, 1)
	vals := make([][]float64, 5)
	for i := range vals {
		vals[i] = make([]float64, 5)
		for j := range vals[i] {
			vals[i][j] = xs[i] + ys[j]
		}
	}
	bi, err := NewBiCubic(xs, ys, vals)
	require.NoError(t, err)

	qx := []float64{0, 1.5, 3}
	qy := []float64{4, 2.5, 0}
	out := bi.EvalAll(qx, qy)
	require.Len(t, out, 3)
	for i := range qx {
		assert.InDelta(t, qx[i]+qy[i], out[i], 1e-9)
	}
}
