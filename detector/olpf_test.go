package detector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bob-anderson-ok/fourieroptics/conf"
)

func TestNewOLPFImpulsePattern(t *testing.T) {
	o, err := NewOLPF(4, 0, 0.1, 384, nil)
	require.NoError(t, err)

	assert.Equal(t, 4.0, o.WidthX)
	assert.Equal(t, 4.0, o.WidthY)

	// Exactly four unit impulses at center +/- floor(halfwidth/spacing).
	sum := 0.0
	for i := range o.Data {
		for j := range o.Data[i] {
			sum += o.Data[i][j]
		}
	}
	assert.Equal(t, 4.0, sum)

	center := 384 / 2
	shift := 20 // floor(2 / 0.1)
	assert.Equal(t, 1.0, o.Data[center-shift][center-shift])
	assert.Equal(t, 1.0, o.Data[center-shift][center+shift])
	assert.Equal(t, 1.0, o.Data[center+shift][center-shift])
	assert.Equal(t, 1.0, o.Data[center+shift][center+shift])
}

func TestOLPFAnalyticFT(t *testing.T) {
	o, err := NewOLPF(4, 8, 0.1, 64, nil)
	require.NoError(t, err)

	freqs := []float64{0, 50, 125}
	out := o.AnalyticFT(freqs, freqs)

	require.Len(t, out, 3)
	// DC response is unity.
	assert.Equal(t, 1.0, out[0][0])

	// Separable product of cosines.
	want := math.Cos(2*50*4/1e3) * math.Cos(2*125*8/1e3)
	assert.InDelta(t, want, out[1][2], 1e-12)
}

func TestOLPFAnalyticFTPrecisionCast(t *testing.T) {
	cfg := conf.New()
	require.NoError(t, cfg.SetPrecision(32))

	o, err := NewOLPF(4, 0, 0.1, 64, cfg)
	require.NoError(t, err)

	out := o.AnalyticFT([]float64{73.3}, []float64{19.1})
	exact := math.Cos(2*73.3*4/1e3) * math.Cos(2*19.1*4/1e3)
	assert.Equal(t, float64(float32(exact)), out[0][0])
}

func TestNewPixelApertureBlock(t *testing.T) {
	pa, err := NewPixelAperture(5, 0.1, 384, nil)
	require.NoError(t, err)

	// A 5 um pixel at 0.1 um sampling covers a 50-sample half-width block.
	center := 384 / 2
	steps := 25
	assert.Equal(t, 1.0, pa.Data[center][center])
	assert.Equal(t, 1.0, pa.Data[center-steps][center-steps])
	assert.Equal(t, 0.0, pa.Data[center+steps][center])
	assert.Equal(t, 0.0, pa.Data[center-steps-1][center])
}

func TestPixelApertureAnalyticFT(t *testing.T) {
	pa, err := NewPixelAperture(5, 0.1, 64, nil)
	require.NoError(t, err)

	out := pa.AnalyticFT([]float64{0, 100}, []float64{0, 100})
	assert.Equal(t, 1.0, out[0][0])

	want := sinc(100*5/1e3) * sinc(100*5/1e3)
	assert.InDelta(t, want, out[1][1], 1e-12)

	// First zero of a 5 um pixel is at 200 cy/mm.
	zero := pa.AnalyticFT([]float64{200}, []float64{0})
	assert.InDelta(t, 0, zero[0][0], 1e-12)
}

func TestPixelMTF(t *testing.T) {
	freqs, vals := PixelMTF(5, 201)
	require.Len(t, freqs, 201)

	assert.Equal(t, 0.0, freqs[0])
	assert.Equal(t, 1.0, vals[0])

	// Normalized frequency 1 maps to 1/(pitch/1000) = 200 cy/mm, where the
	// sinc has its first zero.
	assert.InDelta(t, 200, freqs[100], 1e-9)
	assert.InDelta(t, 0, vals[100], 1e-12)

	// Magnitudes only: the side lobe between the first and second zeros is
	// positive.
	assert.Greater(t, vals[150], 0.0)

	assert.InDelta(t, 400, freqs[200], 1e-9)
}

func TestSincAtZero(t *testing.T) {
	assert.Equal(t, 1.0, sinc(0))
	assert.InDelta(t, 0, sinc(1), 1e-12)
	assert.InDelta(t, 2/math.Pi, sinc(0.5), 1e-12)
}
