package scene

import (
	"go.uber.org/zap"

	"github.com/nicolasmd87/volumetrics/internal/logger"
	"github.com/nicolasmd87/volumetrics/internal/spectrum"
	"github.com/nicolasmd87/volumetrics/internal/volume"
)

// resolveSigmas applies spec.md §6's preset fallback: if "preset" names a
// known material it supplies sigma_a/sigma_s, otherwise direct "sigma_a"/
// "sigma_s" spectra are used. An unrecognized preset name logs a warning and
// falls through to the direct spectra (or black, if neither was given).
func resolveSigmas(params *ParamSet) (sigmaA, sigmaS spectrum.Spectrum) {
	sigmaA = spectrum.Constant{V: 0}
	sigmaS = spectrum.Constant{V: 0}
	if s, ok := params.Spectrum("sigma_a"); ok {
		sigmaA = s
	}
	if s, ok := params.Spectrum("sigma_s"); ok {
		sigmaS = s
	}

	presetName := params.String("preset", "")
	if presetName == "" {
		return sigmaA, sigmaS
	}
	preset, ok := spectrum.LookupPreset(presetName)
	if !ok {
		logger.Log.Warn("medium preset not found, falling through to direct spectra",
			zap.String("preset", presetName))
		return sigmaA, sigmaS
	}
	return preset.SigmaA, preset.SigmaS
}

// NewHomogeneousMedium builds a HomogeneousMedium from a parameter
// dictionary per spec.md §6: sigma_a, sigma_s (spectra), Le (spectrum),
// scale (default 1), Lescale (default 1), g (default 0), preset.
func NewHomogeneousMedium(params *ParamSet) (volume.Medium, error) {
	sigmaA, sigmaS := resolveSigmas(params)

	le := spectrum.Spectrum(spectrum.Constant{V: 0})
	if s, ok := params.Spectrum("Le"); ok {
		le = s
	}

	scale := params.Float("scale", 1)
	leScale := params.Float("Lescale", 1)
	g := params.Float("g", 0)
	if g <= -1 || g >= 1 {
		return nil, newConfigError("homogeneous medium", "g must be in (-1, 1), got %v", g)
	}

	return volume.NewHomogeneousMedium(sigmaA, sigmaS, le, scale, leScale, g), nil
}
