package spectrum

// Preset bundles the absorption/scattering spectra of a named participating
// medium, mirroring pbrt-v4's GetMediumScatteringProperties table
// referenced by spec.md §6 ("preset: named material preset that supplies
// sigma_a and sigma_s").
type Preset struct {
	SigmaA Spectrum
	SigmaS Spectrum
}

// Presets holds a small curated set of named media. Scattering coefficients
// below are per-unit-length approximations in the style of Jensen et al.
// "A Practical Model for Subsurface Light Transport" and pbrt's built-in
// table, scaled down to plausible values for a renderer's default units.
var Presets = map[string]Preset{
	"water": {
		SigmaA: RGBAlbedo{R: 0.0024, G: 0.0012, B: 0.0003},
		SigmaS: RGBAlbedo{R: 0.0025, G: 0.0035, B: 0.0045},
	},
	"milk": {
		SigmaA: RGBAlbedo{R: 0.0011, G: 0.0024, B: 0.014},
		SigmaS: RGBAlbedo{R: 2.55, G: 3.21, B: 3.77},
	},
	"skin1": {
		SigmaA: RGBAlbedo{R: 0.032, G: 0.17, B: 0.48},
		SigmaS: RGBAlbedo{R: 0.74, G: 0.88, B: 1.01},
	},
	"wax": {
		SigmaA: RGBAlbedo{R: 0.064, G: 0.09, B: 0.187},
		SigmaS: RGBAlbedo{R: 0.22, G: 0.29, B: 0.32},
	},
}

// LookupPreset returns the named preset and whether it was found.
func LookupPreset(name string) (Preset, bool) {
	p, ok := Presets[name]
	return p, ok
}
