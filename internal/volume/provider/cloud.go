package provider

import (
	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/nicolasmd87/volumetrics/internal/spectrum"
	"github.com/nicolasmd87/volumetrics/internal/volume"
)

// Cloud is the analytic procedural cloud density provider of spec.md §4.5:
// a domain-warped, five-octave noise field with altitude shaping. The
// scalar accumulation reuses the teacher's own noise (noise.go, adapted
// from internal/renderer/improved_perlin.go); the optional wispiness
// domain warp uses github.com/aquilax/go-perlin (as the teacher itself uses
// it for terrain height noise in examples/Voxel/gocraft.go) for a
// three-component vector perturbation the teacher's own scalar-only noise
// type cannot produce.
type Cloud struct {
	Density   float32
	Wispiness float32
	Frequency float32
	CloudBox  volume.AABB

	noise *scalarNoise
	warp  *perlin.Perlin
}

// NewCloud builds a Cloud provider. seed controls both the scalar noise
// permutation and the domain-warp noise, so two Cloud providers built with
// the same parameters produce identical density fields.
func NewCloud(density, wispiness, frequency float32, bounds volume.AABB, seed int64) *Cloud {
	return &Cloud{
		Density:   density,
		Wispiness: wispiness,
		Frequency: frequency,
		CloudBox:  bounds,
		noise:     newScalarNoise(seed),
		warp:      perlin.NewPerlin(2, 2, 3, seed+1),
	}
}

func (c *Cloud) Bounds() volume.AABB { return c.CloudBox }

func (c *Cloud) IsEmissive() bool { return false }

func (c *Cloud) Le(mgl32.Vec3, *spectrum.SampledWavelengths) spectrum.SampledSpectrum {
	return spectrum.SampledSpectrum{}
}

// vectorWarp perturbs p by two octaves of vector noise with the amplitudes
// and frequencies spec.md §4.5 names, using three decorrelated offsets of
// the same underlying noise field for the x/y/z components.
func (c *Cloud) vectorWarp(p mgl32.Vec3) mgl32.Vec3 {
	octave := func(freq, amp float32) mgl32.Vec3 {
		x := c.warp.Noise3D(float64(p.X()*freq), float64(p.Y()*freq), float64(p.Z()*freq))
		y := c.warp.Noise3D(float64(p.X()*freq)+19.1, float64(p.Y()*freq)+7.3, float64(p.Z()*freq)+2.6)
		z := c.warp.Noise3D(float64(p.X()*freq)+41.7, float64(p.Y()*freq)+13.9, float64(p.Z()*freq)+31.2)
		return mgl32.Vec3{float32(x), float32(y), float32(z)}.Mul(amp)
	}
	perturb := octave(10, 0.05*c.Wispiness).Add(octave(19.9, 0.025*c.Wispiness))
	return p.Add(perturb)
}

func (c *Cloud) density(p mgl32.Vec3) float32 {
	pp := p.Mul(c.Frequency)
	if c.Wispiness > 0 {
		pp = c.vectorWarp(pp)
	}

	var d float64
	weight := 0.5
	freq := 1.0
	for i := 0; i < 5; i++ {
		d += weight * c.noise.Noise3D(float64(pp.X())*freq, float64(pp.Y())*freq, float64(pp.Z())*freq)
		weight /= 2
		freq *= 1.99
	}

	shaped := clamp01(float32((1-float64(p.Y()))*4.5*float64(c.Density)*d)) + 2*maxf(0, 0.5-p.Y())
	return clamp01(shaped)
}

func (c *Cloud) Density(p mgl32.Vec3, _ *spectrum.SampledWavelengths) volume.MediumDensity {
	return volume.ScalarDensity(c.density(p))
}

// GetMaxDensityGrid returns a single cell of value 1: the cloud density
// function is already clamped to [0, 1] everywhere, so a trivial majorant
// covers the whole box (spec.md §4.5: "Majorant is a single cell of
// value 1").
func (c *Cloud) GetMaxDensityGrid() ([]float32, [3]int) {
	return []float32{1}, [3]int{1, 1, 1}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

var _ volume.CuboidProvider = (*Cloud)(nil)
