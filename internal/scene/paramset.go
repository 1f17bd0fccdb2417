// Package scene builds concrete volume.Medium instances from a flat,
// string-keyed parameter dictionary, following spec.md §6's "factory per
// concrete medium accepting a parameter dictionary". It generalizes the
// teacher's own flat-argument internal/loader functions
// (LoadObjectWithPath, LoadWaterSurface, ...) into a single typed bag so one
// factory signature covers every medium kind.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/nicolasmd87/volumetrics/internal/spectrum"
)

// ParamSet is the scene loader's typed parameter dictionary. Each Set*
// method is additive and returns the receiver so callers can chain the way
// the teacher chains renderer.Model field assignment.
type ParamSet struct {
	floats    map[string]float32
	spectra   map[string]spectrum.Spectrum
	strings   map[string]string
	ints      map[string][3]int
	floatGrid map[string][]float32
	vecGrid   map[string][]mgl32.Vec3
	bounds    map[string]boundsParam
}

type boundsParam struct {
	min, max mgl32.Vec3
}

// NewParamSet returns an empty parameter bag.
func NewParamSet() *ParamSet {
	return &ParamSet{
		floats:    make(map[string]float32),
		spectra:   make(map[string]spectrum.Spectrum),
		strings:   make(map[string]string),
		ints:      make(map[string][3]int),
		floatGrid: make(map[string][]float32),
		vecGrid:   make(map[string][]mgl32.Vec3),
		bounds:    make(map[string]boundsParam),
	}
}

func (p *ParamSet) SetFloat(name string, v float32) *ParamSet {
	p.floats[name] = v
	return p
}

func (p *ParamSet) SetSpectrum(name string, s spectrum.Spectrum) *ParamSet {
	p.spectra[name] = s
	return p
}

func (p *ParamSet) SetString(name, v string) *ParamSet {
	p.strings[name] = v
	return p
}

func (p *ParamSet) SetResolution(name string, res [3]int) *ParamSet {
	p.ints[name] = res
	return p
}

func (p *ParamSet) SetFloatGrid(name string, grid []float32) *ParamSet {
	p.floatGrid[name] = grid
	return p
}

func (p *ParamSet) SetVec3Grid(name string, grid []mgl32.Vec3) *ParamSet {
	p.vecGrid[name] = grid
	return p
}

func (p *ParamSet) SetBounds(name string, min, max mgl32.Vec3) *ParamSet {
	p.bounds[name] = boundsParam{min, max}
	return p
}

func (p *ParamSet) Float(name string, def float32) float32 {
	if v, ok := p.floats[name]; ok {
		return v
	}
	return def
}

func (p *ParamSet) HasFloat(name string) bool {
	_, ok := p.floats[name]
	return ok
}

func (p *ParamSet) Spectrum(name string) (spectrum.Spectrum, bool) {
	s, ok := p.spectra[name]
	return s, ok
}

func (p *ParamSet) String(name, def string) string {
	if v, ok := p.strings[name]; ok {
		return v
	}
	return def
}

func (p *ParamSet) HasString(name string) bool {
	_, ok := p.strings[name]
	return ok
}

func (p *ParamSet) Resolution(name string, def [3]int) [3]int {
	if v, ok := p.ints[name]; ok {
		return v
	}
	return def
}

func (p *ParamSet) FloatGrid(name string) ([]float32, bool) {
	g, ok := p.floatGrid[name]
	return g, ok
}

func (p *ParamSet) Vec3Grid(name string) ([]mgl32.Vec3, bool) {
	g, ok := p.vecGrid[name]
	return g, ok
}

func (p *ParamSet) Bounds(name string, defMin, defMax mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	if b, ok := p.bounds[name]; ok {
		return b.min, b.max
	}
	return defMin, defMax
}
