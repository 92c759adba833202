// Command mtfsim builds a diffraction-limited optical system from a JSON5
// parameter file, computes its PSF and MTF, compares the measured MTF
// against the analytic diffraction limit and pixel MTF, simulates detector
// sampling, and writes PNG images and plots to an output folder.
//
// Usage: mtfsim <parameter-file>
package main

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	json "github.com/KevinWang15/go-json5"

	"github.com/bob-anderson-ok/fourieroptics/detector"
	"github.com/bob-anderson-ok/fourieroptics/imaging"
	"github.com/bob-anderson-ok/fourieroptics/mtf"
	"github.com/bob-anderson-ok/fourieroptics/plotting"
	"github.com/bob-anderson-ok/fourieroptics/psf"
	"github.com/bob-anderson-ok/fourieroptics/pupil"
)

// SimulationParams collects the inputs read from the parameter file.
type SimulationParams struct {
	WavelengthUm     float64 // imaging wavelength, microns
	FNumber          float64
	EflMm            float64 // effective focal length, mm
	PupilSamples     int
	Padding          int
	GridOverfill     float64 // pupil grid width as a multiple of the aperture
	PixelPitchUm     float64 // detector pixel size, microns
	BitDepth         int
	MaxFreqCyPerMm   float64 // plot frequency limit
	OutputFolder     string
	ShowInput        bool
}

func main() {
	args := os.Args
	if len(args) != 2 {
		fmt.Println("\n\tWrong number of arguments.\n\tUsage: mtfsim <parameter-file>")
		os.Exit(1)
	}
	path := args[1]

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Println(fmt.Errorf("\n\tAttempt to read input file %q failed: %w", path, err))
		os.Exit(2)
	}

	var jsonTable map[string]interface{}
	if err := json.Unmarshal(data, &jsonTable); err != nil {
		fmt.Println(fmt.Errorf("\n\tFormat error in file %q: %w", path, err))
		os.Exit(3)
	}

	var params SimulationParams
	msg, ok := validateJSONAndFillParams(jsonTable, &params)
	if !ok {
		fmt.Println(msg)
		os.Exit(4)
	}

	if params.ShowInput {
		fmt.Println("\nPrintout of complete parameter file contents...")
		fmt.Println(string(data))
	}

	if err := run(&params); err != nil {
		fmt.Println(fmt.Errorf("simulation failed: %w", err))
		os.Exit(5)
	}
}

func run(params *SimulationParams) error {
	if err := os.MkdirAll(params.OutputFolder, 0o755); err != nil {
		return err
	}

	epd := params.EflMm / params.FNumber
	gridWidth := epd * params.GridOverfill
	pup := pupil.NewCircle(params.PupilSamples, epd, gridWidth, params.WavelengthUm)

	fmt.Printf("Pupil: %d samples, %.3f mm aperture on a %.3f mm grid\n",
		pup.Samples, epd, gridWidth)

	p, err := psf.FromPupil(pup, params.EflMm, params.Padding)
	if err != nil {
		return err
	}
	fmt.Printf("PSF: %d samples at %.4f um/sample\n", p.SamplesX, p.SampleSpacing)

	m, err := mtf.FromPSF(p)
	if err != nil {
		return err
	}

	if err := p.Save(filepath.Join(params.OutputFolder, "psf.png"), 16); err != nil {
		return err
	}

	// Measured tan/sag slices against the analytic references.
	tanU, tanV := m.Tan()
	_, sagV := m.Sag()
	dlFreqs, dlVals := mtf.DiffractionLimitedMTF(params.FNumber, params.WavelengthUm, 256)
	pxFreqs, pxVals := detector.PixelMTF(params.PixelPitchUm, 256)

	curves := []plotting.Curve{
		{Name: "Tangential", X: tanU, Y: tanV, Color: color.RGBA{B: 255, A: 255}},
		{Name: "Sagittal", X: tanU, Y: sagV, Dashed: true, Color: color.RGBA{R: 255, A: 255}},
		{Name: "Diffraction limit", X: dlFreqs, Y: dlVals, Dashed: true, Color: color.RGBA{A: 255}},
		{Name: "Pixel MTF", X: pxFreqs, Y: pxVals, Color: color.RGBA{G: 180, A: 255}},
	}
	img, err := plotting.CurvePlot("MTF vs analytic references",
		"Spatial Frequency [cy/mm]", "MTF [Rel 1.0]",
		curves, params.MaxFreqCyPerMm, 1200, 500)
	if err != nil {
		return err
	}
	if err := plotting.SavePNG(filepath.Join(params.OutputFolder, "mtf_curves.png"), img); err != nil {
		return err
	}

	// Simulate the detector photographing the PSF.
	det := detector.New(params.PixelPitchUm, [2]int{1024, 1024}, params.BitDepth)
	source, err := imaging.New(p.Data, p.SampleSpacing)
	if err != nil {
		return err
	}
	sampled, err := det.SampleImage(source)
	if err != nil {
		return err
	}
	fmt.Printf("Detector: %.2f um pixels, captured %dx%d\n",
		det.PixelSize, len(sampled.Data), len(sampled.Data[0]))

	if err := det.SaveImage(filepath.Join(params.OutputFolder, "captured.png"), detector.Last()); err != nil {
		return err
	}

	fmt.Printf("Wrote psf.png, mtf_curves.png, captured.png to %s\n", params.OutputFolder)
	return nil
}
