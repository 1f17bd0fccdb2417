package volume

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/nicolasmd87/volumetrics/internal/phase"
	"github.com/nicolasmd87/volumetrics/internal/sampler"
	"github.com/nicolasmd87/volumetrics/internal/spectrum"
)

// CuboidMedium is a medium whose density varies spatially inside a cuboid,
// parameterised over a CuboidProvider (spec.md §4.4). It owns its
// provider's majorant grid exclusively; the grid never changes after
// construction so it is safe to share read-only across workers.
type CuboidMedium struct {
	Provider     CuboidProvider
	mediumBounds AABB
	SigmaA       spectrum.Spectrum
	SigmaS       spectrum.Spectrum
	Phase        phase.HenyeyGreenstein
	Transform    Transform
	maxDensity   []float32
	gridRes      [3]int
}

// NewCuboidMedium builds the majorant grid once at construction time and
// caches the provider's bounds.
func NewCuboidMedium(provider CuboidProvider, sigmaA, sigmaS spectrum.Spectrum, scale, g float32, renderFromMedium Transform) *CuboidMedium {
	grid, res := provider.GetMaxDensityGrid()
	return &CuboidMedium{
		Provider:     provider,
		mediumBounds: provider.Bounds(),
		SigmaA:       scaledSpectrum{sigmaA, scale},
		SigmaS:       scaledSpectrum{sigmaS, scale},
		Phase:        phase.HenyeyGreenstein{G: g},
		Transform:    renderFromMedium,
		maxDensity:   grid,
		gridRes:      res,
	}
}

func (m *CuboidMedium) String() string { return "CuboidMedium" }

func (m *CuboidMedium) IsEmissive() bool { return m.Provider.IsEmissive() }

// Sample implements spec.md §4.2's cuboid case: transform p into medium
// space, query the provider, and scale the base spectra by the returned
// density.
func (m *CuboidMedium) Sample(pRender mgl32.Vec3, lambda *spectrum.SampledWavelengths) MediumProperties {
	pMedium := TransformPoint(m.Transform.MediumFromRender, pRender)
	d := m.Provider.Density(pMedium, lambda)
	sigmaADensity, sigmaSDensity := d.Components()

	sigmaA := spectrum.SampleAt(m.SigmaA, lambda).Scale(sigmaADensity)
	sigmaS := spectrum.SampleAt(m.SigmaS, lambda).Scale(sigmaSDensity)
	le := m.Provider.Le(pMedium, lambda)

	return MediumProperties{SigmaA: sigmaA, SigmaS: sigmaS, Phase: m.Phase, Le: le}
}

// SampleTMaj implements the majorant-DDA free-flight sampler of spec.md
// §4.4.
func (m *CuboidMedium) SampleTMaj(rRender Ray, rayTMax, u float32, rng sampler.RNG, lambda *spectrum.SampledWavelengths, callback Callback) spectrum.SampledSpectrum {
	// Ray preparation: transform into medium space, then normalise.
	o, d, tMax := m.Transform.ApplyInverseRay(rRender.O, rRender.D, rayTMax)
	d, tMax = NormalizeRay(d, tMax)

	tMin, tMaxClipped, ok := m.mediumBounds.IntersectRay(o, d, tMax)
	if !ok {
		return spectrum.NewConstant(1)
	}

	sigmaT := spectrum.SampleAt(m.SigmaA, lambda).Add(spectrum.SampleAt(m.SigmaS, lambda))

	diag := m.mediumBounds.Diagonal()
	originGrid := m.mediumBounds.Offset(o)
	dirGrid := mgl32.Vec3{divOrZero(d.X(), diag.X()), divOrZero(d.Y(), diag.Y()), divOrZero(d.Z(), diag.Z())}

	R := [3]float32{float32(m.gridRes[0]), float32(m.gridRes[1]), float32(m.gridRes[2])}
	O := [3]float32{originGrid.X(), originGrid.Y(), originGrid.Z()}
	D := [3]float32{dirGrid.X(), dirGrid.Y(), dirGrid.Z()}
	for a := 0; a < 3; a++ {
		if D[a] == 0 {
			D[a] = 0 // normalises -0 to +0 per spec.md §4.4
		}
	}

	var voxel [3]int
	var deltaT [3]float32
	var nextCrossingT [3]float32
	var step [3]int
	var voxelLimit [3]int

	for a := 0; a < 3; a++ {
		rgAtTMin := O[a] + tMin*D[a]
		v := int(math.Floor(float64((O[a] + tMin*D[a]) * R[a])))
		voxel[a] = clampInt(v, 0, m.gridRes[a]-1)

		if D[a] != 0 {
			deltaT[a] = 1 / float32(math.Abs(float64(D[a]*R[a])))
		} else {
			deltaT[a] = float32(math.Inf(1))
		}

		if D[a] >= 0 {
			nextCrossingT[a] = tMin + (float32(voxel[a]+1)/R[a]-rgAtTMin)/D[a]
			step[a] = 1
			voxelLimit[a] = m.gridRes[a]
		} else {
			nextCrossingT[a] = tMin + (float32(voxel[a])/R[a]-rgAtTMin)/D[a]
			step[a] = -1
			voxelLimit[a] = -1
		}
		if D[a] == 0 {
			nextCrossingT[a] = float32(math.Inf(1))
		}
	}

	t0 := tMin
	tMajAccum := spectrum.NewConstant(1)

	for {
		stepAxis := 0
		if nextCrossingT[1] < nextCrossingT[stepAxis] {
			stepAxis = 1
		}
		if nextCrossingT[2] < nextCrossingT[stepAxis] {
			stepAxis = 2
		}

		t1 := tMaxClipped
		if nextCrossingT[stepAxis] < t1 {
			t1 = nextCrossingT[stepAxis]
		}

		idx := voxel[0] + m.gridRes[0]*(voxel[1]+m.gridRes[1]*voxel[2])
		maxDensity := m.maxDensity[idx]
		sigmaMaj := sigmaT.Scale(maxDensity)

		if sigmaMaj[0] == 0 {
			tMajAccum = tMajAccum.Mul(sigmaMaj.Scale(-(t1 - t0)).Exp())
		} else {
			for {
				t := t0 + sampler.SampleExponential(u, sigmaMaj[0])
				u = rng.Uniform()

				if t >= t1 {
					tMajAccum = tMajAccum.Mul(sigmaMaj.Scale(-(t1 - t0)).Exp())
					break
				}

				// t < t1 <= tMaxClipped <= tMax always holds here, so the
				// candidate is always within the ray's range.
				tMaj := sigmaMaj.Scale(-(t - t0)).Exp().Mul(tMajAccum)
				tMajAccum = spectrum.NewConstant(1)

				pMedium := o.Add(d.Mul(t))
				dens := m.Provider.Density(pMedium, lambda)
				sigmaADensity, sigmaSDensity := dens.Components()
				if sigmaADensity < 0 || sigmaSDensity < 0 {
					panic(fmt.Sprintf("volume: provider returned negative density (%v, %v) at %v", sigmaADensity, sigmaSDensity, pMedium))
				}
				sigmaAPrime := spectrum.SampleAt(m.SigmaA, lambda).Scale(sigmaADensity)
				sigmaSPrime := spectrum.SampleAt(m.SigmaS, lambda).Scale(sigmaSDensity)
				le := m.Provider.Le(pMedium, lambda)

				pRender := TransformPoint(m.Transform.RenderFromMedium, pMedium)
				woRenderDir, _ := NormalizeRay(rRender.D, 1)

				intr := MediumInteraction{
					P:        pRender,
					Wo:       woRenderDir.Mul(-1),
					Time:     rRender.Time,
					SigmaA:   sigmaAPrime,
					SigmaS:   sigmaSPrime,
					SigmaMaj: sigmaMaj,
					Le:       le,
					Medium:   m,
					Phase:    m.Phase,
				}

				if !callback(MediumSample{Intr: intr, TMaj: tMaj}) {
					return spectrum.NewConstant(1)
				}

				t0 = t
			}
		}

		if nextCrossingT[stepAxis] > tMaxClipped {
			return tMajAccum
		}
		voxel[stepAxis] += step[stepAxis]
		if voxel[stepAxis] == voxelLimit[stepAxis] {
			return tMajAccum
		}
		nextCrossingT[stepAxis] += deltaT[stepAxis]
		t0 = t1
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var _ Medium = (*CuboidMedium)(nil)
