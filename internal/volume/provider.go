package volume

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/nicolasmd87/volumetrics/internal/spectrum"
)

// Components splits a MediumDensity into the (sigma_a-density,
// sigma_s-density) pair the cuboid medium multiplies its base spectra by,
// collapsing a scalar density to the same value for both.
func (d MediumDensity) Components() (sigmaADensity, sigmaSDensity float32) {
	if d.SeparateSigma {
		return d.SigmaA, d.SigmaS
	}
	return d.Density, d.Density
}

// CuboidProvider is a polymorphic source of spatially varying density
// inside an axis-aligned box in medium space (spec.md §4.5). The three
// concrete providers (uniform grid, cloud, sparse/VDB-analogue) live in
// internal/volume/provider and each implement this interface; CuboidMedium
// and its DDA are generic over it and know nothing about any concrete
// provider.
type CuboidProvider interface {
	// Bounds returns the box, in medium space, inside which Density/Le may
	// be queried.
	Bounds() AABB
	IsEmissive() bool
	// Density returns the density (or sigma_a/sigma_s density pair) at p,
	// which the caller guarantees lies in Bounds().
	Density(p mgl32.Vec3, lambda *spectrum.SampledWavelengths) MediumDensity
	Le(p mgl32.Vec3, lambda *spectrum.SampledWavelengths) spectrum.SampledSpectrum
	// GetMaxDensityGrid builds a coarse row-major (x + Rx*(y + Ry*z))
	// majorant grid, at a resolution the provider itself decides (the
	// uniform grid provider uses 16^3, the cloud provider a single cell,
	// the sparse-grid provider 64^3), and reports that resolution back.
	// Each cell upper-bounds the true density (plus, where density and
	// emission are sampled together, any emission-implied density) over
	// that cell.
	GetMaxDensityGrid() (grid []float32, res [3]int)
}
