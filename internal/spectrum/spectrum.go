// Package spectrum provides the wavelength-indexed spectral distribution
// types the medium core resolves absorption, scattering and emission
// coefficients against.
package spectrum

import "math"

// Spectrum is an opaque spectral distribution. Implementations must be
// non-negative for the physical quantities this core consumes (sigma_a,
// sigma_s, Le).
type Spectrum interface {
	// Sample returns the spectral value at wavelength lambda (in nm).
	Sample(lambda float32) float32
	// MaxValue returns an upper bound on Sample over all wavelengths.
	MaxValue() float32
}

// SampleAt evaluates s at every wavelength in w and packs the result into a
// SampledSpectrum.
func SampleAt(s Spectrum, w *SampledWavelengths) SampledSpectrum {
	var out SampledSpectrum
	for i := 0; i < NSpectrumSamples; i++ {
		out[i] = s.Sample(w.Lambda(i))
	}
	return out
}

// Constant is a Spectrum with the same value at every wavelength.
type Constant struct{ V float32 }

func (c Constant) Sample(float32) float32 { return c.V }
func (c Constant) MaxValue() float32      { return c.V }

// Dense is a tabulated spectrum sampled at 1nm increments starting at
// LambdaMin, linearly interpolated between samples and clamped outside the
// table's domain.
type Dense struct {
	LambdaMin float32
	Values    []float32
}

func (d Dense) Sample(lambda float32) float32 {
	if len(d.Values) == 0 {
		return 0
	}
	x := lambda - d.LambdaMin
	if x <= 0 {
		return d.Values[0]
	}
	last := float32(len(d.Values) - 1)
	if x >= last {
		return d.Values[len(d.Values)-1]
	}
	i := int(x)
	frac := x - float32(i)
	return lerp(frac, d.Values[i], d.Values[i+1])
}

func (d Dense) MaxValue() float32 {
	m := float32(0)
	for _, v := range d.Values {
		if v > m {
			m = v
		}
	}
	return m
}

// RGBAlbedo approximates an RGB reflectance/density value as a smooth
// spectrum via a simplified sigmoid-polynomial upsampling. pbrt's full
// RGBToSpectrumTable fits a tabulated coefficient volume produced offline;
// spectral upsampling fidelity is out of this core's scope (spec.md §1), so
// a closed-form single-lobe approximation per channel stands in for it.
type RGBAlbedo struct{ R, G, B float32 }

func (rgb RGBAlbedo) Sample(lambda float32) float32 {
	// Each channel contributes a Gaussian bump centered on its hue and the
	// result is normalized by the total bump weight, so a gray RGB stays
	// flat and no value exceeds the largest channel.
	wr, wg, wb := gaussianBump(lambda, 630, 60), gaussianBump(lambda, 532, 60), gaussianBump(lambda, 465, 60)
	v := (wr*rgb.R + wg*rgb.G + wb*rgb.B) / (wr + wg + wb)
	if v < 0 {
		v = 0
	}
	return v
}

func (rgb RGBAlbedo) MaxValue() float32 {
	m := rgb.R
	if rgb.G > m {
		m = rgb.G
	}
	if rgb.B > m {
		m = rgb.B
	}
	return m
}

func gaussianBump(lambda, center, width float32) float32 {
	d := float64((lambda - center) / width)
	return float32(math.Exp(-0.5 * d * d))
}

const (
	planckH  = 6.62606957e-34
	planckC  = 299792458.0
	planckKB = 1.3806488e-23
)

// Blackbody is the Planckian emission spectrum at temperature T (Kelvin),
// normalized so its peak value is 1 (matching pbrt's BlackbodySpectrum,
// needed here by the sparse-grid provider's temperature-driven Le).
type Blackbody struct {
	T         float32
	normalize float32
}

// NewBlackbody precomputes the normalization constant for T.
func NewBlackbody(t float32) Blackbody {
	lambdaMax := 2.8977721e-3 / float64(t) * 1e9 // Wien's displacement law, in nm
	return Blackbody{T: t, normalize: 1 / planckLe(float32(lambdaMax), t)}
}

func planckLe(lambdaNM, t float32) float32 {
	if t <= 0 {
		return 0
	}
	l := float64(lambdaNM) * 1e-9
	lt := float64(t)
	num := 2 * planckH * planckC * planckC
	denom := math.Pow(l, 5) * (math.Exp(planckH*planckC/(l*planckKB*lt)) - 1)
	return float32(num / denom)
}

func (b Blackbody) Sample(lambda float32) float32 {
	return planckLe(lambda, b.T) * b.normalize
}

func (b Blackbody) MaxValue() float32 { return 1 }
