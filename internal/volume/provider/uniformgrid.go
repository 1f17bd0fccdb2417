package provider

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/nicolasmd87/volumetrics/internal/spectrum"
	"github.com/nicolasmd87/volumetrics/internal/volume"
)

// majorantCells is the fixed resolution of the uniform grid provider's
// majorant, per spec.md §4.5.
const majorantCells = 16

// UniformGrid is the dense voxel-grid density provider of spec.md §4.5.
// Exactly one of DensityGrid, (SigmaAGrid, SigmaSGrid) or RGBGrid is set;
// the grid indexing (x + Nx*(y + Ny*z)) is the same linear scheme the
// teacher already uses for its own dense 3-D arrays
// (internal/loader/voxel_core.go's VoxelChunk.Voxels / VoxelWorld.SDFData).
type UniformGrid struct {
	GridBox          volume.AABB
	Nx, Ny, Nz       int
	DensityGrid      []float32
	SigmaAGrid       []float32
	SigmaSGrid       []float32
	RGBGrid          []mgl32.Vec3
	LeSpectrum       spectrum.Spectrum
	LeScaleGrid      []float32
	LeNx, LeNy, LeNz int
}

func (g *UniformGrid) Bounds() volume.AABB { return g.GridBox }

func (g *UniformGrid) IsEmissive() bool {
	return g.LeSpectrum != nil && g.LeSpectrum.MaxValue() > 0
}

func (g *UniformGrid) Density(p mgl32.Vec3, lambda *spectrum.SampledWavelengths) volume.MediumDensity {
	local := g.GridBox.Offset(p)
	switch {
	case g.DensityGrid != nil:
		return volume.ScalarDensity(trilerpScalar(g.DensityGrid, g.Nx, g.Ny, g.Nz, local))
	case g.SigmaAGrid != nil || g.SigmaSGrid != nil:
		a := trilerpScalar(g.SigmaAGrid, g.Nx, g.Ny, g.Nz, local)
		s := trilerpScalar(g.SigmaSGrid, g.Nx, g.Ny, g.Nz, local)
		return volume.SigmaPairDensity(a, s)
	case g.RGBGrid != nil:
		rgb := trilerpVec3(g.RGBGrid, g.Nx, g.Ny, g.Nz, local)
		d := spectrum.RGBAlbedo{R: rgb.X(), G: rgb.Y(), B: rgb.Z()}.Sample(lambda.Lambda(0))
		return volume.ScalarDensity(d)
	default:
		return volume.MediumDensity{}
	}
}

func (g *UniformGrid) Le(p mgl32.Vec3, lambda *spectrum.SampledWavelengths) spectrum.SampledSpectrum {
	if g.LeSpectrum == nil {
		return spectrum.SampledSpectrum{}
	}
	scale := float32(1)
	if g.LeScaleGrid != nil {
		scale = trilerpScalar(g.LeScaleGrid, g.LeNx, g.LeNy, g.LeNz, g.GridBox.Offset(p))
	}
	return spectrum.SampleAt(g.LeSpectrum, lambda).Scale(scale)
}

// GetMaxDensityGrid builds the fixed 16^3 majorant: per spec.md §4.5, each
// cell is the maximum over the grid samples whose trilinear support touches
// that cell, since the interpolant inside the cell is a convex combination
// of exactly those samples. For a sigma pair the cell value is the maximum
// sigma_a sample plus the maximum sigma_s sample. LeScale never participates: emission (Le)
// is returned independently of sigma_a/sigma_s in MediumProperties and
// never contributes to sigma_maj in this implementation, so it has no
// business inflating the extinction majorant.
func (g *UniformGrid) GetMaxDensityGrid() ([]float32, [3]int) {
	res := [3]int{majorantCells, majorantCells, majorantCells}
	grid := make([]float32, res[0]*res[1]*res[2])

	cellMax := func(i, j, k int) float32 {
		max, maxA, maxS := float32(math.Inf(-1)), float32(0), float32(0)
		n := [3]int{g.Nx, g.Ny, g.Nz}
		var lo, hi [3]int
		for a, c := range [3]int{i, j, k} {
			lo[a] = int(math.Floor(float64(float32(c) / float32(res[a]) * float32(n[a]-1))))
			hi[a] = int(math.Ceil(float64(float32(c+1) / float32(res[a]) * float32(n[a]-1))))
		}
		nx, ny := hi[0]-lo[0]+1, hi[1]-lo[1]+1
		for s := 0; s < nx*ny*(hi[2]-lo[2]+1); s++ {
			x, y, z := lo[0]+s%nx, lo[1]+(s/nx)%ny, lo[2]+s/(nx*ny)
			c := mgl32.Vec3{float32(x) / float32(n[0]-1), float32(y) / float32(n[1]-1), float32(z) / float32(n[2]-1)}
			var v float32
			switch {
			case g.DensityGrid != nil:
				v = trilerpScalar(g.DensityGrid, g.Nx, g.Ny, g.Nz, c)
			case g.SigmaAGrid != nil || g.SigmaSGrid != nil:
				maxA, maxS = maxf(maxA, trilerpScalar(g.SigmaAGrid, g.Nx, g.Ny, g.Nz, c)), maxf(maxS, trilerpScalar(g.SigmaSGrid, g.Nx, g.Ny, g.Nz, c))
				v = maxA + maxS
			case g.RGBGrid != nil:
				rgb := trilerpVec3(g.RGBGrid, g.Nx, g.Ny, g.Nz, c)
				v = spectrum.RGBAlbedo{R: rgb.X(), G: rgb.Y(), B: rgb.Z()}.MaxValue()
			}
			if v > max {
				max = v
			}
		}
		return max
	}

	for k := 0; k < res[2]; k++ {
		for j := 0; j < res[1]; j++ {
			for i := 0; i < res[0]; i++ {
				grid[i+res[0]*(j+res[1]*k)] = cellMax(i, j, k)
			}
		}
	}
	return grid, res
}

// cellCorners returns the 8 normalized [0,1]^3 corners of majorant cell
// (i,j,k) at resolution res.
func cellCorners(i, j, k int, res [3]int) [8]mgl32.Vec3 {
	x0 := float32(i) / float32(res[0])
	x1 := float32(i+1) / float32(res[0])
	y0 := float32(j) / float32(res[1])
	y1 := float32(j+1) / float32(res[1])
	z0 := float32(k) / float32(res[2])
	z1 := float32(k+1) / float32(res[2])
	return [8]mgl32.Vec3{
		{x0, y0, z0}, {x1, y0, z0}, {x0, y1, z0}, {x1, y1, z0},
		{x0, y0, z1}, {x1, y0, z1}, {x0, y1, z1}, {x1, y1, z1},
	}
}

func gridAxis(n int, t float32) (i0, i1 int, frac float32) {
	if n <= 1 {
		return 0, 0, 0
	}
	f := clamp01(t) * float32(n-1)
	i0 = int(math.Floor(float64(f)))
	if i0 > n-2 {
		i0 = n - 2
	}
	i1 = i0 + 1
	frac = f - float32(i0)
	return
}

func trilerpScalar(grid []float32, nx, ny, nz int, local mgl32.Vec3) float32 {
	if grid == nil {
		return 0
	}
	x0, x1, dx := gridAxis(nx, local.X())
	y0, y1, dy := gridAxis(ny, local.Y())
	z0, z1, dz := gridAxis(nz, local.Z())
	get := func(x, y, z int) float32 { return grid[x+nx*(y+ny*z)] }

	c00 := lerpf(dx, get(x0, y0, z0), get(x1, y0, z0))
	c10 := lerpf(dx, get(x0, y1, z0), get(x1, y1, z0))
	c01 := lerpf(dx, get(x0, y0, z1), get(x1, y0, z1))
	c11 := lerpf(dx, get(x0, y1, z1), get(x1, y1, z1))
	c0 := lerpf(dy, c00, c10)
	c1 := lerpf(dy, c01, c11)
	return lerpf(dz, c0, c1)
}

func trilerpVec3(grid []mgl32.Vec3, nx, ny, nz int, local mgl32.Vec3) mgl32.Vec3 {
	if grid == nil {
		return mgl32.Vec3{}
	}
	x0, x1, dx := gridAxis(nx, local.X())
	y0, y1, dy := gridAxis(ny, local.Y())
	z0, z1, dz := gridAxis(nz, local.Z())
	get := func(x, y, z int) mgl32.Vec3 { return grid[x+nx*(y+ny*z)] }

	c00 := get(x0, y0, z0).Mul(1 - dx).Add(get(x1, y0, z0).Mul(dx))
	c10 := get(x0, y1, z0).Mul(1 - dx).Add(get(x1, y1, z0).Mul(dx))
	c01 := get(x0, y0, z1).Mul(1 - dx).Add(get(x1, y0, z1).Mul(dx))
	c11 := get(x0, y1, z1).Mul(1 - dx).Add(get(x1, y1, z1).Mul(dx))
	c0 := c00.Mul(1 - dy).Add(c10.Mul(dy))
	c1 := c01.Mul(1 - dy).Add(c11.Mul(dy))
	return c0.Mul(1 - dz).Add(c1.Mul(dz))
}

func lerpf(t, a, b float32) float32 { return a + t*(b-a) }

var _ volume.CuboidProvider = (*UniformGrid)(nil)
