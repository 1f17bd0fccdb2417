package phase

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const invFourPi = 1.0 / (4.0 * math.Pi)

// HenyeyGreenstein is an asymmetry-parameterised closed-form phase
// function with an exact importance-sampling inverse.
type HenyeyGreenstein struct {
	// G is the asymmetry parameter, g in (-1, 1). Positive values favour
	// forward scattering, negative values back-scattering, zero is
	// isotropic.
	G float32
}

func hgPhase(cosTheta, g float64) float64 {
	denom := 1 + g*g + 2*g*cosTheta
	return (1 - g*g) / (4 * math.Pi * denom * math.Sqrt(denom))
}

func (hg HenyeyGreenstein) P(wo, wi mgl32.Vec3) float32 {
	cosTheta := float64(wo.Dot(wi))
	return float32(hgPhase(cosTheta, float64(hg.G)))
}

func (hg HenyeyGreenstein) PDF(wo, wi mgl32.Vec3) float32 {
	return hg.P(wo, wi)
}

func (hg HenyeyGreenstein) SampleP(wo mgl32.Vec3, u [2]float32) (Sample, bool) {
	g := float64(hg.G)

	var cosTheta float64
	if math.Abs(g) < 1e-3 {
		cosTheta = 1 - 2*float64(u[0])
	} else {
		sq := (1 - g*g) / (1 - g + 2*g*float64(u[0]))
		cosTheta = -1 / (2 * g) * (1 + g*g - sq*sq)
	}

	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * float64(u[1])

	v1, v2 := coordinateSystem(wo)
	local := mgl32.Vec3{
		float32(sinTheta * math.Cos(phi)),
		float32(sinTheta * math.Sin(phi)),
		float32(cosTheta),
	}
	wi := v1.Mul(local.X()).Add(v2.Mul(local.Y())).Add(wo.Mul(local.Z())).Normalize()

	p := float32(hgPhase(cosTheta, g))
	return Sample{PDF: p, Wi: wi, P: p}, true
}

// coordinateSystem returns unit vectors (v2, v3) such that (v1, v2, v3)
// forms a right-handed orthonormal frame around the given unit vector v1.
func coordinateSystem(v1 mgl32.Vec3) (v2, v3 mgl32.Vec3) {
	if math.Abs(float64(v1.X())) > math.Abs(float64(v1.Y())) {
		invLen := 1 / float32(math.Sqrt(float64(v1.X()*v1.X()+v1.Z()*v1.Z())))
		v2 = mgl32.Vec3{-v1.Z() * invLen, 0, v1.X() * invLen}
	} else {
		invLen := 1 / float32(math.Sqrt(float64(v1.Y()*v1.Y()+v1.Z()*v1.Z())))
		v2 = mgl32.Vec3{0, v1.Z() * invLen, -v1.Y() * invLen}
	}
	v3 = v1.Cross(v2)
	return v2, v3
}
