// Package plotting renders transfer-function curves with gonum/plot. It
// consumes slices from the mtf package purely for display; nothing flows
// back into the numeric core.
package plotting

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"gonum.org/v1/plot"
	_ "gonum.org/v1/plot/font/liberation"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	vgdraw "gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/bob-anderson-ok/fourieroptics/mtf"
)

// Curve is a named (x, y) series for overlay plots.
type Curve struct {
	Name   string
	X, Y   []float64
	Dashed bool
	Color  color.RGBA
}

// StepTicks is a tick marker with fixed step intervals.
type StepTicks struct {
	Step   float64
	Format string
}

func (t StepTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	start := math.Ceil(min/t.Step) * t.Step
	for v := start; v <= max; v += t.Step {
		ticks = append(ticks, plot.Tick{
			Value: v,
			Label: fmt.Sprintf(t.Format, v),
		})
	}
	return ticks
}

// TanSagPlot plots the tangential and sagittal MTF slices out to maxFreq
// cy/mm and renders to an in-memory image of the given pixel size.
func TanSagPlot(m *mtf.MTF, maxFreq, wPx, hPx float64) (image.Image, error) {
	tu, tv := m.Tan()
	_, sv := m.Sag()

	curves := []Curve{
		{Name: "Tangential", X: tu, Y: tv, Color: color.RGBA{B: 255, A: 255}},
		{Name: "Sagittal", X: tu, Y: sv, Dashed: true, Color: color.RGBA{R: 255, A: 255}},
	}
	return CurvePlot("MTF", "Spatial Frequency [cy/mm]", "MTF [Rel 1.0]",
		curves, maxFreq, wPx, hPx)
}

// CurvePlot overlays the given curves on shared axes, x limited to maxX, y
// fixed to [0, 1], and renders to an in-memory image.
func CurvePlot(title, xLabel, yLabel string, curves []Curve, maxX, wPx, hPx float64) (image.Image, error) {
	p := plot.New()

	applyFonts(p)

	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.X.Min, p.X.Max = 0, maxX
	p.Y.Min, p.Y.Max = 0, 1
	p.X.Tick.Marker = StepTicks{Step: maxX / 10, Format: "%.0f"}
	p.Y.Tick.Marker = StepTicks{Step: 0.2, Format: "%.2f"}
	p.Add(plotter.NewGrid())

	for _, c := range curves {
		pts := make(plotter.XYs, 0, len(c.X))
		for i := range c.X {
			if c.X[i] > maxX {
				break
			}
			pts = append(pts, plotter.XY{X: c.X[i], Y: c.Y[i]})
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		line.Color = c.Color
		line.Width = vg.Points(2)
		if c.Dashed {
			line.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
		}
		p.Add(line)
		if c.Name != "" {
			p.Legend.Add(c.Name, line)
		}
	}
	p.Legend.Top = true

	const dpi = 96
	width := vg.Length(wPx) * vg.Inch / dpi
	height := vg.Length(hPx) * vg.Inch / dpi

	c := vgimg.New(width, height)
	dc := vgdraw.New(c)
	p.Draw(dc)

	return c.Image(), nil
}

func applyFonts(p *plot.Plot) {
	for _, style := range []*vg.Length{
		&p.Title.TextStyle.Font.Size,
		&p.X.Label.TextStyle.Font.Size,
		&p.Y.Label.TextStyle.Font.Size,
	} {
		*style = vg.Points(12)
	}
	p.Title.TextStyle.Font.Typeface = "Liberation"
	p.Title.TextStyle.Font.Variant = "Sans"

	p.X.Label.TextStyle.Font.Typeface = "Liberation"
	p.X.Label.TextStyle.Font.Variant = "Sans"

	p.Y.Label.TextStyle.Font.Typeface = "Liberation"
	p.Y.Label.TextStyle.Font.Variant = "Sans"

	p.X.Tick.Label.Font.Typeface = "Liberation"
	p.X.Tick.Label.Font.Variant = "Sans"
	p.X.Tick.Label.Font.Size = vg.Points(10)

	p.Y.Tick.Label.Font.Typeface = "Liberation"
	p.Y.Tick.Label.Font.Variant = "Sans"
	p.Y.Tick.Label.Font.Size = vg.Points(10)
}

// SavePNG writes an image to a PNG file.
func SavePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return png.Encode(f, img)
}
