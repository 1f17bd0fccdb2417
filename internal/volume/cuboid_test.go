package volume

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/nicolasmd87/volumetrics/internal/spectrum"
)

// constantBoxProvider is a minimal CuboidProvider stub with a constant unit
// density everywhere inside its box and a trivial single-cell majorant,
// used to test the DDA without depending on any concrete provider package.
type constantBoxProvider struct {
	box     AABB
	density float32
}

func (p *constantBoxProvider) Bounds() AABB     { return p.box }
func (p *constantBoxProvider) IsEmissive() bool { return false }
func (p *constantBoxProvider) Density(mgl32.Vec3, *spectrum.SampledWavelengths) MediumDensity {
	return ScalarDensity(p.density)
}
func (p *constantBoxProvider) Le(mgl32.Vec3, *spectrum.SampledWavelengths) spectrum.SampledSpectrum {
	return spectrum.SampledSpectrum{}
}
func (p *constantBoxProvider) GetMaxDensityGrid() ([]float32, [3]int) {
	return []float32{p.density}, [3]int{1, 1, 1}
}

func TestCuboidMediumClipsToBounds(t *testing.T) {
	// Scenario 3: unit-density cuboid in [0,1]^3, sigma_t=1, ray from
	// (-1,0.5,0.5) along +x, tMax=3 -- clipped to length 1 inside the box.
	provider := &constantBoxProvider{box: AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}}, density: 1}
	m := NewCuboidMedium(provider, spectrum.Constant{V: 0.5}, spectrum.Constant{V: 0.5}, 1, 0, NewTransform(mgl32.Ident4()))

	ray := Ray{O: mgl32.Vec3{-1, 0.5, 0.5}, D: mgl32.Vec3{1, 0, 0}}
	lambda := testWavelengths()

	var hits []float32
	result := m.SampleTMaj(ray, 3, 0.9, &fixedRNG{}, lambda, func(s MediumSample) bool {
		hits = append(hits, s.Intr.P.X())
		return true
	})

	// u=0.9 draws t = tMin - ln(0.1) ~= 3.30, past the clipped exit at t=2,
	// so no interaction is reported; the return value should be the
	// majorant transmittance across exactly the clipped [0,1] segment.
	if len(hits) != 0 {
		t.Fatalf("expected no interactions at u=0.9, got %d", len(hits))
	}
	want := float32(math.Exp(-1))
	if math.Abs(float64(result[0]-want)) > 1e-4 {
		t.Errorf("T = %v, want exp(-1) = %v (homogeneous-equivalent over clipped length 1)", result[0], want)
	}
}

func TestCuboidMediumNoOverlapReturnsIdentity(t *testing.T) {
	provider := &constantBoxProvider{box: AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}}, density: 1}
	m := NewCuboidMedium(provider, spectrum.Constant{V: 1}, spectrum.Constant{V: 1}, 1, 0, NewTransform(mgl32.Ident4()))

	ray := Ray{O: mgl32.Vec3{-1, 5, 0.5}, D: mgl32.Vec3{1, 0, 0}}
	lambda := testWavelengths()

	called := 0
	result := m.SampleTMaj(ray, 3, 0.5, &fixedRNG{}, lambda, func(MediumSample) bool {
		called++
		return true
	})

	if called != 0 {
		t.Errorf("a ray missing the box should never invoke the callback, got %d calls", called)
	}
	if result != spectrum.NewConstant(1) {
		t.Errorf("a ray missing the box should return identity transmittance, got %v", result)
	}
}

func TestCuboidMediumCallbackFalseStopsImmediately(t *testing.T) {
	provider := &constantBoxProvider{box: AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}}, density: 1}
	m := NewCuboidMedium(provider, spectrum.Constant{V: 5}, spectrum.Constant{V: 5}, 1, 0, NewTransform(mgl32.Ident4()))

	ray := Ray{O: mgl32.Vec3{-1, 0.5, 0.5}, D: mgl32.Vec3{1, 0, 0}}
	lambda := testWavelengths()

	called := 0
	// u=0.99 drives the first exponential draw well inside [0,1] with a
	// high majorant (sigma_t=10), virtually guaranteeing an interaction.
	result := m.SampleTMaj(ray, 3, 0.99, &fixedRNG{}, lambda, func(MediumSample) bool {
		called++
		return false
	})

	if called != 1 {
		t.Fatalf("expected exactly one callback before stopping, got %d", called)
	}
	if result != spectrum.NewConstant(1) {
		t.Errorf("returning false from the callback should yield SampledSpectrum(1), got %v", result)
	}
}

func TestCuboidMediumZeroMajorantCellContinuesTraversal(t *testing.T) {
	provider := &constantBoxProvider{box: AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}}, density: 0}
	m := NewCuboidMedium(provider, spectrum.Constant{V: 1}, spectrum.Constant{V: 1}, 1, 0, NewTransform(mgl32.Ident4()))

	ray := Ray{O: mgl32.Vec3{-1, 0.5, 0.5}, D: mgl32.Vec3{1, 0, 0}}
	lambda := testWavelengths()

	called := 0
	result := m.SampleTMaj(ray, 3, 0.5, &fixedRNG{}, lambda, func(MediumSample) bool {
		called++
		return true
	})

	if called != 0 {
		t.Errorf("a zero-majorant cell should never produce an interaction, got %d calls", called)
	}
	if result != spectrum.NewConstant(1) {
		t.Errorf("zero majorant over the traversed cell should leave T=1, got %v", result)
	}
}
