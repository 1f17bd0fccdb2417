package volume

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/nicolasmd87/volumetrics/internal/phase"
	"github.com/nicolasmd87/volumetrics/internal/sampler"
	"github.com/nicolasmd87/volumetrics/internal/spectrum"
)

// HomogeneousMedium is a constant-density participating medium: dense
// absorption/scattering/emission spectra, a scale factor already folded in
// at construction, and a single Henyey-Greenstein phase function
// (spec.md §4.3).
type HomogeneousMedium struct {
	SigmaA, SigmaS spectrum.Spectrum
	LeSpectrum     spectrum.Spectrum
	Phase          phase.HenyeyGreenstein
}

// NewHomogeneousMedium folds scale and LeScale into the stored spectra by
// wrapping each one, so Sample and SampleTMaj read already-scaled values;
// the multiplication itself happens on every spectrum evaluation.
func NewHomogeneousMedium(sigmaA, sigmaS, le spectrum.Spectrum, scale, leScale, g float32) *HomogeneousMedium {
	return &HomogeneousMedium{
		SigmaA:     scaledSpectrum{sigmaA, scale},
		SigmaS:     scaledSpectrum{sigmaS, scale},
		LeSpectrum: scaledSpectrum{le, leScale},
		Phase:      phase.HenyeyGreenstein{G: g},
	}
}

type scaledSpectrum struct {
	spectrum.Spectrum
	scale float32
}

func (s scaledSpectrum) Sample(lambda float32) float32 {
	return s.Spectrum.Sample(lambda) * s.scale
}
func (s scaledSpectrum) MaxValue() float32 { return s.Spectrum.MaxValue() * s.scale }

func (m *HomogeneousMedium) String() string { return "HomogeneousMedium" }

// IsEmissive returns true iff the stored Le spectrum's maximum value is
// strictly positive.
func (m *HomogeneousMedium) IsEmissive() bool {
	return m.LeSpectrum.MaxValue() > 0
}

// Sample resolves sigma_a, sigma_s and Le at lambda; density is implicitly
// 1 everywhere, per spec.md §4.2.
func (m *HomogeneousMedium) Sample(_ mgl32.Vec3, lambda *spectrum.SampledWavelengths) MediumProperties {
	return MediumProperties{
		SigmaA: spectrum.SampleAt(m.SigmaA, lambda),
		SigmaS: spectrum.SampleAt(m.SigmaS, lambda),
		Phase:  m.Phase,
		Le:     spectrum.SampleAt(m.LeSpectrum, lambda),
	}
}

// SampleTMaj implements spec.md §4.3's contract exactly: at most one
// tentative scattering candidate per invocation.
func (m *HomogeneousMedium) SampleTMaj(ray Ray, tMax, u float32, rng sampler.RNG, lambda *spectrum.SampledWavelengths, callback Callback) spectrum.SampledSpectrum {
	d, tMax := NormalizeRay(ray.D, tMax)
	ray.D = d

	sigmaA := spectrum.SampleAt(m.SigmaA, lambda)
	sigmaS := spectrum.SampleAt(m.SigmaS, lambda)
	sigmaT := sigmaA.Add(sigmaS)
	sigmaMaj := sigmaT

	if sigmaMaj[0] == 0 {
		return sigmaMaj.Scale(-tMax).Exp()
	}

	t := sampler.SampleExponential(u, sigmaMaj[0])
	if t >= tMax {
		return sigmaMaj.Scale(-tMax).Exp()
	}

	le := spectrum.SampleAt(m.LeSpectrum, lambda)
	intr := MediumInteraction{
		P:        ray.At(t),
		Wo:       ray.D.Mul(-1),
		Time:     ray.Time,
		SigmaA:   sigmaA,
		SigmaS:   sigmaS,
		SigmaMaj: sigmaMaj,
		Le:       le,
		Medium:   m,
		Phase:    m.Phase,
	}
	tMaj := sigmaMaj.Scale(-t).Exp()
	callback(MediumSample{Intr: intr, TMaj: tMaj})

	return spectrum.NewConstant(1)
}

var _ Medium = (*HomogeneousMedium)(nil)
