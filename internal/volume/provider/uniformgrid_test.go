package provider

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/nicolasmd87/volumetrics/internal/spectrum"
	"github.com/nicolasmd87/volumetrics/internal/volume"
)

func TestUniformGridDensityTrilerp(t *testing.T) {
	// A 2x2x2 grid with corners 0 and 1 on the x-axis only; the midpoint
	// should trilinearly interpolate to 0.5.
	g := &UniformGrid{
		GridBox: volume.AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}},
		Nx:      2, Ny: 2, Nz: 2,
		DensityGrid: []float32{0, 1, 0, 1, 0, 1, 0, 1},
	}
	lambda := sampleWavelengths()

	d := g.Density(mgl32.Vec3{0.5, 0.5, 0.5}, lambda)
	if d.Density < 0.49 || d.Density > 0.51 {
		t.Errorf("midpoint density = %v, want ~0.5", d.Density)
	}

	d0 := g.Density(mgl32.Vec3{0, 0, 0}, lambda)
	if d0.Density != 0 {
		t.Errorf("corner density = %v, want 0", d0.Density)
	}
	d1 := g.Density(mgl32.Vec3{1, 0, 0}, lambda)
	if d1.Density < 0.99 {
		t.Errorf("corner density = %v, want ~1", d1.Density)
	}
}

func TestUniformGridMajorantUpperBounds(t *testing.T) {
	// spec.md §8 invariant 1: Density(p) <= majorantCell(p) + epsilon.
	g := &UniformGrid{
		GridBox: volume.AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}},
		Nx:      4, Ny: 4, Nz: 4,
		DensityGrid: make([]float32, 4*4*4),
	}
	for i := range g.DensityGrid {
		g.DensityGrid[i] = float32(i%7) * 0.3
	}

	grid, res := g.GetMaxDensityGrid()
	if res != [3]int{majorantCells, majorantCells, majorantCells} {
		t.Fatalf("resolution = %v, want %v", res, [3]int{majorantCells, majorantCells, majorantCells})
	}

	lambda := sampleWavelengths()
	const eps = 1e-4
	for k := 0; k < res[2]; k++ {
		for j := 0; j < res[1]; j++ {
			for i := 0; i < res[0]; i++ {
				cellMax := grid[i+res[0]*(j+res[1]*k)]
				// sample a handful of points strictly inside the cell
				for _, frac := range []float32{0.25, 0.5, 0.75} {
					p := mgl32.Vec3{
						(float32(i) + frac) / float32(res[0]),
						(float32(j) + frac) / float32(res[1]),
						(float32(k) + frac) / float32(res[2]),
					}
					d := g.Density(p, lambda)
					if d.Density > cellMax+eps {
						t.Fatalf("cell (%d,%d,%d): density %v exceeds majorant %v", i, j, k, d.Density, cellMax)
					}
				}
			}
		}
	}
}

func TestUniformGridSigmaPairGrid(t *testing.T) {
	g := &UniformGrid{
		GridBox: volume.AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}},
		Nx:      2, Ny: 2, Nz: 2,
		SigmaAGrid: []float32{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1},
		SigmaSGrid: []float32{0.2, 0.2, 0.2, 0.2, 0.2, 0.2, 0.2, 0.2},
	}
	d := g.Density(mgl32.Vec3{0.5, 0.5, 0.5}, sampleWavelengths())
	if !d.SeparateSigma {
		t.Fatal("sigma-pair grid should report SeparateSigma")
	}
	if d.SigmaA < 0.09 || d.SigmaA > 0.11 || d.SigmaS < 0.19 || d.SigmaS > 0.21 {
		t.Errorf("sigma pair = (%v, %v), want ~(0.1, 0.2)", d.SigmaA, d.SigmaS)
	}
}

func TestUniformGridLeScaling(t *testing.T) {
	g := &UniformGrid{
		GridBox: volume.AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}},
		Nx:      2, Ny: 2, Nz: 2,
		DensityGrid: []float32{1, 1, 1, 1, 1, 1, 1, 1},
		LeSpectrum:  spectrum.Constant{V: 3},
		LeScaleGrid: []float32{0, 0, 0, 0, 2, 2, 2, 2},
		LeNx:        2, LeNy: 2, LeNz: 2,
	}
	if !g.IsEmissive() {
		t.Error("grid with a positive Le spectrum should be emissive")
	}

	lambda := sampleWavelengths()
	le := g.Le(mgl32.Vec3{0.5, 0.5, 0.99}, lambda)
	if le[0] < 5 || le[0] > 7 {
		t.Errorf("Le near z=1 (scale~2) = %v, want ~6", le[0])
	}
}

func sampleWavelengths() *spectrum.SampledWavelengths {
	w := spectrum.SampleUniform(0.42)
	return &w
}
