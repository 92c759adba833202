package detector

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bob-anderson-ok/fourieroptics/imaging"
	"github.com/bob-anderson-ok/fourieroptics/psf"
)

func uniformPSF(t *testing.T, n int, v, spacing float64) *psf.PSF {
	t.Helper()
	data := make([][]float64, n)
	for i := range data {
		data[i] = make([]float64, n)
		for j := range data[i] {
			data[i][j] = v
		}
	}
	p, err := psf.New(data, spacing)
	require.NoError(t, err)
	return p
}

func TestSamplePSFUniformIdempotence(t *testing.T) {
	// Box-averaging a constant field returns the constant, for any ratio of
	// pixel size to sample spacing.
	for _, pixelSize := range []float64{1, 2, 3, 5, 7} {
		d := New(pixelSize, [2]int{1024, 1024}, 14)
		p := uniformPSF(t, 20, 0.7, 1.0)

		out, err := d.SamplePSF(p)
		require.NoError(t, err)
		for i := range out.Data {
			for j := range out.Data[i] {
				assert.InDelta(t, 0.7, out.Data[i][j], 1e-12,
					"pixel size %v, output (%d,%d)", pixelSize, i, j)
			}
		}
	}
}

func TestSamplePSFSpacingIdentity(t *testing.T) {
	// The emitted PSF's sample spacing is the detector's pixel size.
	d := New(5, [2]int{1024, 1024}, 14)
	p := uniformPSF(t, 32, 1, 1.25)

	out, err := d.SamplePSF(p)
	require.NoError(t, err)
	assert.Equal(t, 5.0, out.SampleSpacing)
	// ceil(5/1.25) = 4 samples per pixel over 32 samples: 8 pixels, no trim.
	assert.Equal(t, 8, out.SamplesX)
	assert.Equal(t, 8, out.SamplesY)
}

func TestSamplePSFBlockAverage(t *testing.T) {
	// 4x4 field, 2 samples per pixel: each output pixel is the mean of its
	// 2x2 tile.
	data := [][]float64{
		{1, 1, 2, 2},
		{1, 1, 2, 2},
		{3, 3, 4, 4},
		{3, 3, 4, 4},
	}
	p, err := psf.New(data, 1)
	require.NoError(t, err)

	d := New(2, [2]int{1024, 1024}, 14)
	out, err := d.SamplePSF(p)
	require.NoError(t, err)

	require.Equal(t, 2, out.SamplesX)
	assert.Equal(t, 1.0, out.Data[0][0])
	assert.Equal(t, 2.0, out.Data[0][1])
	assert.Equal(t, 3.0, out.Data[1][0])
	assert.Equal(t, 4.0, out.Data[1][1])
}

func TestSamplePSFOddResidualTrim(t *testing.T) {
	// 5 samples at 2 per pixel: residual 1 trims the extra sample from the
	// leading edge (ceil/floor split), keeping samples 1..4.
	data := [][]float64{
		{9, 9, 9, 9, 9},
		{9, 1, 2, 3, 4},
		{9, 5, 6, 7, 8},
		{9, 1, 2, 3, 4},
		{9, 5, 6, 7, 8},
	}
	p, err := psf.New(data, 1)
	require.NoError(t, err)

	d := New(2, [2]int{1024, 1024}, 14)
	out, err := d.SamplePSF(p)
	require.NoError(t, err)

	require.Equal(t, 2, out.SamplesX)
	require.Equal(t, 2, out.SamplesY)
	// Row 0 of 9s and column 0 of 9s were trimmed away.
	assert.InDelta(t, (1+2+5+6)/4.0, out.Data[0][0], 1e-12)
	assert.InDelta(t, (3+4+7+8)/4.0, out.Data[0][1], 1e-12)
}

func TestSamplePSFEvenResidualTrim(t *testing.T) {
	// 10 samples at 4 per pixel: residual 2 splits one sample per side,
	// keeping samples 1..8.
	n := 10
	data := make([][]float64, n)
	for i := range data {
		data[i] = make([]float64, n)
		for j := range data[i] {
			data[i][j] = float64(i)
		}
	}
	p, err := psf.New(data, 1)
	require.NoError(t, err)

	d := New(4, [2]int{1024, 1024}, 14)
	out, err := d.SamplePSF(p)
	require.NoError(t, err)

	require.Equal(t, 2, out.SamplesX)
	// First pixel averages rows 1..4, second rows 5..8.
	assert.InDelta(t, (1+2+3+4)/4.0, out.Data[0][0], 1e-12)
	assert.InDelta(t, (5+6+7+8)/4.0, out.Data[1][0], 1e-12)
}

func TestSamplePSFPixelSmallerThanSample(t *testing.T) {
	// Pixels no bigger than the samples pass data through unchanged.
	data := [][]float64{
		{1, 2},
		{3, 4},
	}
	p, err := psf.New(data, 5)
	require.NoError(t, err)

	d := New(2, [2]int{1024, 1024}, 14)
	out, err := d.SamplePSF(p)
	require.NoError(t, err)
	assert.Equal(t, data, out.Data)
}

func TestSamplePSFPixelTooLarge(t *testing.T) {
	d := New(100, [2]int{1024, 1024}, 14)
	p := uniformPSF(t, 4, 1, 1)
	_, err := d.SamplePSF(p)
	assert.ErrorIs(t, err, ErrPixelTooLarge)
}

func TestCaptureHistoryAppendOnly(t *testing.T) {
	d := New(2, [2]int{1024, 1024}, 14)
	p := uniformPSF(t, 8, 1, 1)

	_, err := d.SamplePSF(p)
	require.NoError(t, err)
	require.Len(t, d.Captures(), 1)

	im, err := imaging.New(p.Data, p.SampleSpacing)
	require.NoError(t, err)
	_, err = d.SampleImage(im)
	require.NoError(t, err)
	// SampleImage appends the intermediate PSF and the final image.
	caps := d.Captures()
	require.Len(t, caps, 3)

	_, isPSF := caps[1].(*psf.PSF)
	assert.True(t, isPSF)
	_, isImage := caps[2].(*imaging.Image)
	assert.True(t, isImage)
}

func TestSampleImageSpacing(t *testing.T) {
	d := New(3, [2]int{1024, 1024}, 14)
	im, err := imaging.New(uniformPSF(t, 9, 0.5, 1).Data, 1)
	require.NoError(t, err)

	out, err := d.SampleImage(im)
	require.NoError(t, err)
	assert.Equal(t, 3.0, out.SampleSpacing)
	assert.Len(t, out.Data, 3)
}

func TestParseWhich(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Which
	}{
		{"first", First()},
		{"FIRST", First()},
		{"last", Last()},
		{" Last ", Last()},
		{"2", Index(2)},
		{"-1", Index(-1)},
	} {
		got, err := ParseWhich(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}

	_, err := ParseWhich("banana")
	assert.ErrorIs(t, err, ErrInvalidWhich)
	_, err = ParseWhich("")
	assert.ErrorIs(t, err, ErrInvalidWhich)
}

func TestSaveImageSelectors(t *testing.T) {
	dir := t.TempDir()
	d := New(2, [2]int{1024, 1024}, 14)

	// Empty history: any selection is out of range.
	err := d.SaveImage(filepath.Join(dir, "none.png"), Last())
	assert.ErrorIs(t, err, ErrCaptureRange)

	p := uniformPSF(t, 8, 0.5, 1)
	_, err = d.SamplePSF(p)
	require.NoError(t, err)

	require.NoError(t, d.SaveImage(filepath.Join(dir, "first.png"), First()))
	require.NoError(t, d.SaveImage(filepath.Join(dir, "last.png"), Last()))
	require.NoError(t, d.SaveImage(filepath.Join(dir, "idx.png"), Index(0)))

	err = d.SaveImage(filepath.Join(dir, "oob.png"), Index(5))
	assert.ErrorIs(t, err, ErrCaptureRange)
	err = d.SaveImage(filepath.Join(dir, "neg.png"), Index(-1))
	assert.ErrorIs(t, err, ErrCaptureRange)
}

func TestRenderImage(t *testing.T) {
	d := New(2, [2]int{1024, 1024}, 14)
	p := uniformPSF(t, 8, 0.5, 1)
	_, err := d.SamplePSF(p)
	require.NoError(t, err)

	img, err := d.RenderImage(Last())
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
}
