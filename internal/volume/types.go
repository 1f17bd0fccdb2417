// Package volume implements the polymorphic participating-media
// abstraction and the majorant-DDA free-flight sampler described by the
// null-scattering (delta-tracking) transmittance sampling core.
package volume

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/nicolasmd87/volumetrics/internal/phase"
	"github.com/nicolasmd87/volumetrics/internal/spectrum"
)

// MediumDensity is either a scalar density or a pair of absorption/
// scattering densities, per spec.md §3. Providers that only carry a single
// density grid leave SigmaA and SigmaS unused; SeparateSigma reports which form a
// particular Density() call returned.
type MediumDensity struct {
	Density        float32
	SigmaA, SigmaS float32
	SeparateSigma  bool
}

// ScalarDensity builds a MediumDensity carrying a single scalar density.
func ScalarDensity(d float32) MediumDensity { return MediumDensity{Density: d} }

// SigmaPairDensity builds a MediumDensity carrying a separate absorption/
// scattering density pair.
func SigmaPairDensity(sigmaA, sigmaS float32) MediumDensity {
	return MediumDensity{SigmaA: sigmaA, SigmaS: sigmaS, SeparateSigma: true}
}

// MediumProperties is the value a point query returns: absorption and
// scattering coefficients at the queried wavelengths, the phase function to
// use at that point, and any emitted radiance.
type MediumProperties struct {
	SigmaA, SigmaS spectrum.SampledSpectrum
	Phase          phase.Function
	Le             spectrum.SampledSpectrum
}

// MediumInteraction is the ephemeral tentative-scattering event reported to
// a SampleT_maj callback.
type MediumInteraction struct {
	P              mgl32.Vec3 // point, in render space
	Wo             mgl32.Vec3 // -incident direction (unit)
	Time           float32
	SigmaA, SigmaS spectrum.SampledSpectrum
	SigmaMaj       spectrum.SampledSpectrum
	Le             spectrum.SampledSpectrum
	Medium         Medium // weak back-reference; never owns the medium
	Phase          phase.Function
}

// MediumSample pairs a tentative interaction with the majorant
// transmittance accumulated along the segment leading up to it.
type MediumSample struct {
	Intr MediumInteraction
	TMaj spectrum.SampledSpectrum
}

// AABB is an axis-aligned bounding box in medium space. The teacher repo
// only carries a bounding *sphere* (renderer.Model.BoundingSphere*); this
// plain Min/Max struct follows the same "small value type with methods, no
// interface" style as renderer.Camera's Plane/Frustum (camera.go).
type AABB struct {
	Min, Max mgl32.Vec3
}

// Diagonal returns Max - Min.
func (b AABB) Diagonal() mgl32.Vec3 { return b.Max.Sub(b.Min) }

// Offset returns p's position within the box in [0,1]^3 grid coordinates,
// per axis. Components outside [Min,Max] extrapolate past [0,1].
func (b AABB) Offset(p mgl32.Vec3) mgl32.Vec3 {
	d := b.Diagonal()
	o := p.Sub(b.Min)
	return mgl32.Vec3{divOrZero(o.X(), d.X()), divOrZero(o.Y(), d.Y()), divOrZero(o.Z(), d.Z())}
}

func divOrZero(a, b float32) float32 {
	if b == 0 {
		return 0
	}
	return a / b
}

// IntersectRay clips the ray o+t*d, t in [0, tMax], against the box using
// the standard per-axis slab test (the same componentwise algebra as
// renderer.RayIntersectSphere's quadratic solve, generalized to three
// slabs instead of one sphere).
func (b AABB) IntersectRay(o, d mgl32.Vec3, tMax float32) (tMin, tOut float32, ok bool) {
	tMin, tOut = 0, tMax
	axisMin := [3]float32{b.Min.X(), b.Min.Y(), b.Min.Z()}
	axisMax := [3]float32{b.Max.X(), b.Max.Y(), b.Max.Z()}
	axisO := [3]float32{o.X(), o.Y(), o.Z()}
	axisD := [3]float32{d.X(), d.Y(), d.Z()}

	for a := 0; a < 3; a++ {
		if axisD[a] == 0 {
			if axisO[a] < axisMin[a] || axisO[a] > axisMax[a] {
				return 0, 0, false
			}
			continue
		}
		invD := 1 / axisD[a]
		t0 := (axisMin[a] - axisO[a]) * invD
		t1 := (axisMax[a] - axisO[a]) * invD
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tOut {
			tOut = t1
		}
		if tMin > tOut {
			return 0, 0, false
		}
	}
	return tMin, tOut, true
}

// Transform is a render<->medium coordinate transform, carrying both
// directions so a cuboid medium never has to invert a matrix on the hot
// sampling path.
type Transform struct {
	RenderFromMedium mgl32.Mat4
	MediumFromRender mgl32.Mat4
}

// NewTransform builds a Transform from the render-from-medium matrix.
func NewTransform(renderFromMedium mgl32.Mat4) Transform {
	return Transform{
		RenderFromMedium: renderFromMedium,
		MediumFromRender: renderFromMedium.Inv(),
	}
}

// TransformPoint applies m to a point (w=1, perspective-divided).
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	v := m.Mul4x1(mgl32.Vec4{p.X(), p.Y(), p.Z(), 1})
	if v.W() == 0 || v.W() == 1 {
		return v.Vec3()
	}
	return v.Vec3().Mul(1 / v.W())
}

// TransformVector applies m to a direction (w=0, no translation).
func TransformVector(m mgl32.Mat4, v mgl32.Vec3) mgl32.Vec3 {
	r := m.Mul4x1(mgl32.Vec4{v.X(), v.Y(), v.Z(), 0})
	return r.Vec3()
}

// ApplyInverseRay transforms rRender's origin/direction into medium space
// via MediumFromRender. tMax passes through unchanged: an affine transform
// preserves a ray's t-parameterisation exactly (M(o+t·d) = M(o) + t·M(d)),
// so the only place tMax gets rescaled is the subsequent NormalizeRay call
// that scales it by the (now medium-space) direction's length, per
// spec.md §4.4's "scale raytMax by ||ray.d||, normalise ray.d".
func (t Transform) ApplyInverseRay(o, d mgl32.Vec3, tMax float32) (mgl32.Vec3, mgl32.Vec3, float32) {
	o2 := TransformPoint(t.MediumFromRender, o)
	d2 := TransformVector(t.MediumFromRender, d)
	return o2, d2, tMax
}

// NormalizeRay scales tMax by ||d|| and returns d normalized, the
// "normalised-direction parameterisation" every SampleT_maj implementation
// performs before walking the ray (spec.md §4.3/§4.4).
func NormalizeRay(d mgl32.Vec3, tMax float32) (mgl32.Vec3, float32) {
	length := d.Len()
	if length != 0 {
		tMax *= length
		d = d.Mul(1 / length)
	}
	if math.IsInf(float64(tMax), 1) {
		tMax = math.MaxFloat32
	}
	return d, tMax
}
