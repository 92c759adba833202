package main

// Parameter-file validation. Each field is pulled out of the generic JSON5
// table individually so a bad or missing entry reports its own name.

func getLeafValue(jsonTable map[string]interface{}, path ...string) (interface{}, bool) {
	var cur interface{} = jsonTable
	for _, p := range path {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func validateJSONAndFillParams(jsonTable map[string]interface{}, params *SimulationParams) (string, bool) {
	msg := "No problem found in json file" // Initialize msg to presumed success.

	showInput, ok := getLeafValue(jsonTable, "show_input_bool")
	if !ok {
		params.ShowInput = false
	} else {
		params.ShowInput, ok = showInput.(bool)
		if !ok {
			return "show_input_bool: is not a bool", false
		}
	}

	wavelength, ok := getLeafValue(jsonTable, "wavelength_um")
	if !ok {
		return "wavelength_um: not found", false
	}
	params.WavelengthUm, ok = wavelength.(float64)
	if !ok {
		return "wavelength_um: is not a float64", false
	}
	if params.WavelengthUm <= 0 {
		return "wavelength_um: must be positive", false
	}

	fno, ok := getLeafValue(jsonTable, "f_number")
	if !ok {
		return "f_number: not found", false
	}
	params.FNumber, ok = fno.(float64)
	if !ok {
		return "f_number: is not a float64", false
	}
	if params.FNumber <= 0 {
		return "f_number: must be positive", false
	}

	efl, ok := getLeafValue(jsonTable, "efl_mm")
	if !ok {
		return "efl_mm: not found", false
	}
	params.EflMm, ok = efl.(float64)
	if !ok {
		return "efl_mm: is not a float64", false
	}

	samples, ok := getLeafValue(jsonTable, "pupil_samples")
	if !ok {
		params.PupilSamples = 256 // Default if this field is missing
	} else {
		s, ok := samples.(float64)
		if !ok {
			return "pupil_samples: is not a float64", false
		}
		params.PupilSamples = int(s)
	}

	padding, ok := getLeafValue(jsonTable, "padding")
	if !ok {
		params.Padding = 1
	} else {
		p, ok := padding.(float64)
		if !ok {
			return "padding: is not a float64", false
		}
		params.Padding = int(p)
	}

	overfill, ok := getLeafValue(jsonTable, "grid_overfill")
	if !ok {
		params.GridOverfill = 2.0
	} else {
		params.GridOverfill, ok = overfill.(float64)
		if !ok {
			return "grid_overfill: is not a float64", false
		}
		if params.GridOverfill <= 1.0 {
			return "grid_overfill: must be greater than 1.0 or the aperture is clipped", false
		}
	}

	pitch, ok := getLeafValue(jsonTable, "pixel_pitch_um")
	if !ok {
		return "pixel_pitch_um: not found", false
	}
	params.PixelPitchUm, ok = pitch.(float64)
	if !ok {
		return "pixel_pitch_um: is not a float64", false
	}

	bits, ok := getLeafValue(jsonTable, "bit_depth")
	if !ok {
		params.BitDepth = 14
	} else {
		b, ok := bits.(float64)
		if !ok {
			return "bit_depth: is not a float64", false
		}
		params.BitDepth = int(b)
	}

	maxFreq, ok := getLeafValue(jsonTable, "max_freq_cy_per_mm")
	if !ok {
		// Default to the incoherent cutoff.
		params.MaxFreqCyPerMm = 1 / (params.WavelengthUm / 1000 * params.FNumber)
	} else {
		params.MaxFreqCyPerMm, ok = maxFreq.(float64)
		if !ok {
			return "max_freq_cy_per_mm: is not a float64", false
		}
	}

	folder, ok := getLeafValue(jsonTable, "output_folder")
	if !ok {
		params.OutputFolder = "."
	} else {
		params.OutputFolder, ok = folder.(string)
		if !ok {
			return "output_folder: is not a string", false
		}
	}

	return msg, true
}
