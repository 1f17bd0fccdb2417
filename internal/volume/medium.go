package volume

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/nicolasmd87/volumetrics/internal/sampler"
	"github.com/nicolasmd87/volumetrics/internal/spectrum"
)

// Ray is a ray in render space, following the teacher's
// renderer.Ray (internal/renderer/raycasting.go), plus the timestamp a
// medium interaction needs to carry.
type Ray struct {
	O, D mgl32.Vec3
	Time float32
}

// At returns the point o + t*d.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.O.Add(r.D.Mul(t))
}

// Callback is invoked once per tentative (null or real) scattering event
// found while walking a ray through a medium. Returning true tells the
// sampler to keep drawing tentative events (a null collision was consumed);
// returning false tells it to stop immediately (a real collision was
// accepted) — spec.md §4.4's callback contract.
type Callback func(MediumSample) bool

// Medium is the polymorphic handle the integrator holds. It is satisfied by
// *HomogeneousMedium and *CuboidMedium; spec.md's "tagged variant" dispatch
// is simply Go interface satisfaction here (see SPEC_FULL.md's note on why
// no separate enum wrapper is needed).
type Medium interface {
	// Sample returns the absorption/scattering/phase/emission bundle at a
	// point in render space. Pure and safe for concurrent invocation.
	Sample(p mgl32.Vec3, lambda *spectrum.SampledWavelengths) MediumProperties
	// SampleTMaj walks ray from t=0 to tMax, drawing majorant-transmittance
	// free-flight samples and invoking callback at each tentative event, in
	// strictly increasing t order. It returns the majorant transmittance
	// for whatever tail of the ray the callback didn't consume.
	SampleTMaj(ray Ray, tMax, u float32, rng sampler.RNG, lambda *spectrum.SampledWavelengths, callback Callback) spectrum.SampledSpectrum
	// IsEmissive reports whether this medium ever returns non-zero Le.
	IsEmissive() bool
	String() string
}
