// sparsegrid.go implements the sparse-grid (VDB-analogue) density provider
// of spec.md §4.5. The real on-disk sparse-grid format is explicitly out of
// scope (spec.md §1 Non-goals); this is a minimal, self-contained
// substitute: a chunked map of dense tiles in index space, read/written
// with the same gzip + encoding/binary framing the teacher uses for its own
// binary assets (internal/renderer/mesh_serialization.go's magic/version
// header pattern).
package provider

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"math"
	"runtime"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/nicolasmd87/volumetrics/internal/spectrum"
	"github.com/nicolasmd87/volumetrics/internal/volume"
)

const (
	sparseGridMagic   = 0x56444247 // "VDBG"
	sparseGridVersion = 1
	tileSize          = 8
	vdbMajorantRes    = 64
)

type tileKey struct{ X, Y, Z int32 }

// sparseField is one scalar index-space field (density or temperature): an
// inclusive active index box plus a sparse map of tileSize^3 dense tiles.
// Tiles outside the active box, or simply never inserted, read as zero.
type sparseField struct {
	Min, Max [3]int32
	empty    bool
	tiles    map[tileKey][]float32
}

func newSparseField() *sparseField {
	return &sparseField{empty: true, tiles: make(map[tileKey][]float32)}
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int32) int32 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// Set stores a single voxel value, extending the active box and allocating
// a tile on demand. Used by on-disk loading and by tests that synthesize a
// grid in memory.
func (f *sparseField) Set(x, y, z int32, v float32) {
	if f.tiles == nil {
		f.tiles = make(map[tileKey][]float32)
	}
	key := tileKey{floorDiv(x, tileSize), floorDiv(y, tileSize), floorDiv(z, tileSize)}
	tile, ok := f.tiles[key]
	if !ok {
		tile = make([]float32, tileSize*tileSize*tileSize)
		f.tiles[key] = tile
	}
	lx, ly, lz := floorMod(x, tileSize), floorMod(y, tileSize), floorMod(z, tileSize)
	tile[lx+tileSize*(ly+tileSize*lz)] = v
	f.extendBounds(x, y, z)
}

func (f *sparseField) extendBounds(x, y, z int32) {
	if f.empty {
		f.Min = [3]int32{x, y, z}
		f.Max = [3]int32{x, y, z}
		f.empty = false
		return
	}
	if x < f.Min[0] {
		f.Min[0] = x
	}
	if y < f.Min[1] {
		f.Min[1] = y
	}
	if z < f.Min[2] {
		f.Min[2] = z
	}
	if x > f.Max[0] {
		f.Max[0] = x
	}
	if y > f.Max[1] {
		f.Max[1] = y
	}
	if z > f.Max[2] {
		f.Max[2] = z
	}
}

func (f *sparseField) voxelAt(x, y, z int32) float32 {
	if f == nil || f.empty {
		return 0
	}
	key := tileKey{floorDiv(x, tileSize), floorDiv(y, tileSize), floorDiv(z, tileSize)}
	tile, ok := f.tiles[key]
	if !ok {
		return 0
	}
	lx, ly, lz := floorMod(x, tileSize), floorMod(y, tileSize), floorMod(z, tileSize)
	return tile[lx+tileSize*(ly+tileSize*lz)]
}

// sample trilinearly interpolates the field at a fractional index-space
// position.
func (f *sparseField) sample(p mgl32.Vec3) float32 {
	if f == nil || f.empty {
		return 0
	}
	x0 := int32(math.Floor(float64(p.X())))
	y0 := int32(math.Floor(float64(p.Y())))
	z0 := int32(math.Floor(float64(p.Z())))
	dx := p.X() - float32(x0)
	dy := p.Y() - float32(y0)
	dz := p.Z() - float32(z0)

	c00 := lerpf(dx, f.voxelAt(x0, y0, z0), f.voxelAt(x0+1, y0, z0))
	c10 := lerpf(dx, f.voxelAt(x0, y0+1, z0), f.voxelAt(x0+1, y0+1, z0))
	c01 := lerpf(dx, f.voxelAt(x0, y0, z0+1), f.voxelAt(x0+1, y0, z0+1))
	c11 := lerpf(dx, f.voxelAt(x0, y0+1, z0+1), f.voxelAt(x0+1, y0+1, z0+1))
	c0 := lerpf(dy, c00, c10)
	c1 := lerpf(dy, c01, c11)
	return lerpf(dz, c0, c1)
}

// maxInRange returns the maximum sampled value over the inclusive integer
// index range [lo, hi], clamped against the field's active box.
func (f *sparseField) maxInRange(lo, hi [3]int32) float32 {
	if f == nil || f.empty {
		return 0
	}
	lo, hi = clampRange(lo, f.Min, f.Max), clampRange(hi, f.Min, f.Max)
	max := float32(0)
	for z := lo[2]; z <= hi[2]; z++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for x := lo[0]; x <= hi[0]; x++ {
				if v := f.voxelAt(x, y, z); v > max {
					max = v
				}
			}
		}
	}
	return max
}

func clampRange(v, lo, hi [3]int32) [3]int32 {
	var r [3]int32
	for i := 0; i < 3; i++ {
		r[i] = v[i]
		if r[i] < lo[i] {
			r[i] = lo[i]
		}
		if r[i] > hi[i] {
			r[i] = hi[i]
		}
	}
	return r
}

// SparseGrid is the sparse-grid (VDB-analogue) CuboidProvider.
type SparseGrid struct {
	Density     *sparseField
	Temperature *sparseField // nil if the grid carries no temperature channel

	WorldFromIndex mgl32.Mat4
	indexFromWorld mgl32.Mat4

	TemperatureCutoff float32
	TemperatureScale  float32
	LeScale           float32
}

// NewSparseGrid builds a provider around already-loaded fields.
func NewSparseGrid(density, temperature *sparseField, worldFromIndex mgl32.Mat4, tempCutoff, tempScale, leScale float32) *SparseGrid {
	return &SparseGrid{
		Density:           density,
		Temperature:       temperature,
		WorldFromIndex:    worldFromIndex,
		indexFromWorld:    worldFromIndex.Inv(),
		TemperatureCutoff: tempCutoff,
		TemperatureScale:  tempScale,
		LeScale:           leScale,
	}
}

func (g *SparseGrid) Bounds() volume.AABB {
	b := indexBoxWorldBounds(g.WorldFromIndex, g.Density)
	if g.Temperature != nil {
		b = unionAABB(b, indexBoxWorldBounds(g.WorldFromIndex, g.Temperature))
	}
	return b
}

func indexBoxWorldBounds(worldFromIndex mgl32.Mat4, f *sparseField) volume.AABB {
	if f == nil || f.empty {
		return volume.AABB{}
	}
	min := mgl32.Vec3{float32(math.MaxFloat32), float32(math.MaxFloat32), float32(math.MaxFloat32)}
	max := mgl32.Vec3{-float32(math.MaxFloat32), -float32(math.MaxFloat32), -float32(math.MaxFloat32)}
	corners := [8][3]int32{
		{f.Min[0], f.Min[1], f.Min[2]}, {f.Max[0], f.Min[1], f.Min[2]},
		{f.Min[0], f.Max[1], f.Min[2]}, {f.Max[0], f.Max[1], f.Min[2]},
		{f.Min[0], f.Min[1], f.Max[2]}, {f.Max[0], f.Min[1], f.Max[2]},
		{f.Min[0], f.Max[1], f.Max[2]}, {f.Max[0], f.Max[1], f.Max[2]},
	}
	for _, c := range corners {
		wp := volume.TransformPoint(worldFromIndex, mgl32.Vec3{float32(c[0]), float32(c[1]), float32(c[2])})
		min = componentMin(min, wp)
		max = componentMax(max, wp)
	}
	return volume.AABB{Min: min, Max: max}
}

func componentMin(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{minf(a.X(), b.X()), minf(a.Y(), b.Y()), minf(a.Z(), b.Z())}
}
func componentMax(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{maxf(a.X(), b.X()), maxf(a.Y(), b.Y()), maxf(a.Z(), b.Z())}
}
func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
func unionAABB(a, b volume.AABB) volume.AABB {
	return volume.AABB{Min: componentMin(a.Min, b.Min), Max: componentMax(a.Max, b.Max)}
}

func (g *SparseGrid) IsEmissive() bool {
	return g.Temperature != nil && !g.Temperature.empty
}

func (g *SparseGrid) Density(p mgl32.Vec3, _ *spectrum.SampledWavelengths) volume.MediumDensity {
	idx := volume.TransformPoint(g.indexFromWorld, p)
	return volume.ScalarDensity(g.Density.sample(idx))
}

// Le returns the temperature-driven emission, per spec.md §4.5: zero below
// a cutoff-and-scaled 100K floor, else a blackbody spectrum scaled by
// LeScale.
func (g *SparseGrid) Le(p mgl32.Vec3, lambda *spectrum.SampledWavelengths) spectrum.SampledSpectrum {
	if g.Temperature == nil {
		return spectrum.SampledSpectrum{}
	}
	idx := volume.TransformPoint(g.indexFromWorld, p)
	t := g.Temperature.sample(idx)
	tPrime := (t - g.TemperatureCutoff) * g.TemperatureScale
	if tPrime <= 100 {
		return spectrum.SampledSpectrum{}
	}
	bb := spectrum.NewBlackbody(tPrime)
	return spectrum.SampleAt(bb, lambda).Scale(g.LeScale)
}

// GetMaxDensityGrid builds the 64^3 majorant in parallel, one task per cell
// on a pond pool of runtime.NumCPU() workers (the worker-pool pattern
// internal/loader/voxel_core.go's GenerateVoxelsParallel uses for chunk
// generation): each cell writes only its own slot of a pre-sized slice, so
// concurrent cells never share mutable state (spec.md §5: "Parallel
// execution must be safe").
func (g *SparseGrid) GetMaxDensityGrid() ([]float32, [3]int) {
	res := [3]int{vdbMajorantRes, vdbMajorantRes, vdbMajorantRes}
	grid := make([]float32, res[0]*res[1]*res[2])
	bounds := g.Bounds()

	pool := pond.NewPool(runtime.NumCPU())
	defer pool.StopAndWait()
	for k := 0; k < res[2]; k++ {
		for j := 0; j < res[1]; j++ {
			for i := 0; i < res[0]; i++ {
				i, j, k := i, j, k
				pool.Submit(func() {
					grid[i+res[0]*(j+res[1]*k)] = g.majorantCell(i, j, k, res, bounds)
				})
			}
		}
	}
	return grid, res
}

func (g *SparseGrid) majorantCell(i, j, k int, res [3]int, bounds volume.AABB) float32 {
	diag := bounds.Diagonal()
	worldMin := bounds.Min.Add(mgl32.Vec3{
		diag.X() * float32(i) / float32(res[0]),
		diag.Y() * float32(j) / float32(res[1]),
		diag.Z() * float32(k) / float32(res[2]),
	})
	worldMax := bounds.Min.Add(mgl32.Vec3{
		diag.X() * float32(i+1) / float32(res[0]),
		diag.Y() * float32(j+1) / float32(res[1]),
		diag.Z() * float32(k+1) / float32(res[2]),
	})

	idxMin := volume.TransformPoint(g.indexFromWorld, worldMin)
	idxMax := volume.TransformPoint(g.indexFromWorld, worldMax)
	idxMin, idxMax = componentMin(idxMin, idxMax), componentMax(idxMin, idxMax)

	// Expand by one voxel of filter slop, per spec.md §4.5.
	lo := [3]int32{
		int32(math.Floor(float64(idxMin.X()))) - 1,
		int32(math.Floor(float64(idxMin.Y()))) - 1,
		int32(math.Floor(float64(idxMin.Z()))) - 1,
	}
	hi := [3]int32{
		int32(math.Ceil(float64(idxMax.X()))) + 1,
		int32(math.Ceil(float64(idxMax.Y()))) + 1,
		int32(math.Ceil(float64(idxMax.Z()))) + 1,
	}

	max := g.Density.maxInRange(lo, hi)
	if g.Temperature != nil {
		// Temperature doesn't itself bound density, but an emissive cell
		// must never be skipped as a zero-majorant empty cell.
		if g.Temperature.maxInRange(lo, hi) > 0 && max == 0 {
			max = 1e-6
		}
	}
	return max
}

// --- gzip + encoding/binary serialization, grounded on
// internal/renderer/mesh_serialization.go's EncodeMeshBinary/DecodeMeshBinary. ---

// Encode writes g to a compressed binary blob.
func (g *SparseGrid) Encode() ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)

	if err := binary.Write(zw, binary.LittleEndian, uint32(sparseGridMagic)); err != nil {
		return nil, err
	}
	if err := binary.Write(zw, binary.LittleEndian, uint32(sparseGridVersion)); err != nil {
		return nil, err
	}
	flags := uint32(0)
	if g.Temperature != nil {
		flags |= 1
	}
	if err := binary.Write(zw, binary.LittleEndian, flags); err != nil {
		return nil, err
	}
	for _, v := range flattenMat4(g.WorldFromIndex) {
		if err := binary.Write(zw, binary.LittleEndian, v); err != nil {
			return nil, err
		}
	}
	if err := binary.Write(zw, binary.LittleEndian, []float32{g.TemperatureCutoff, g.TemperatureScale, g.LeScale}); err != nil {
		return nil, err
	}
	if err := writeField(zw, g.Density); err != nil {
		return nil, err
	}
	if g.Temperature != nil {
		if err := writeField(zw, g.Temperature); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a blob written by Encode.
func Decode(data []byte) (*SparseGrid, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("sparse grid: open gzip reader: %w", err)
	}
	defer zr.Close()

	var magic, version, flags uint32
	if err := binary.Read(zr, binary.LittleEndian, &magic); err != nil {
		return nil, err
	}
	if magic != sparseGridMagic {
		return nil, fmt.Errorf("sparse grid: bad magic %x", magic)
	}
	if err := binary.Read(zr, binary.LittleEndian, &version); err != nil {
		return nil, err
	}
	if version != sparseGridVersion {
		return nil, fmt.Errorf("sparse grid: unsupported version %d", version)
	}
	if err := binary.Read(zr, binary.LittleEndian, &flags); err != nil {
		return nil, err
	}

	var mat [16]float32
	for i := range mat {
		if err := binary.Read(zr, binary.LittleEndian, &mat[i]); err != nil {
			return nil, err
		}
	}
	var scalars [3]float32
	if err := binary.Read(zr, binary.LittleEndian, &scalars); err != nil {
		return nil, err
	}

	density, err := readField(zr)
	if err != nil {
		return nil, err
	}
	var temperature *sparseField
	if flags&1 != 0 {
		temperature, err = readField(zr)
		if err != nil {
			return nil, err
		}
	}

	return NewSparseGrid(density, temperature, unflattenMat4(mat), scalars[0], scalars[1], scalars[2]), nil
}

func writeField(w *gzip.Writer, f *sparseField) error {
	if err := binary.Write(w, binary.LittleEndian, f.Min); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, f.Max); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(f.tiles))); err != nil {
		return err
	}
	for key, tile := range f.tiles {
		if err := binary.Write(w, binary.LittleEndian, key); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, tile); err != nil {
			return err
		}
	}
	return nil
}

func readField(r *gzip.Reader) (*sparseField, error) {
	f := newSparseField()
	if err := binary.Read(r, binary.LittleEndian, &f.Min); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &f.Max); err != nil {
		return nil, err
	}
	f.empty = false
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	for i := uint32(0); i < n; i++ {
		var key tileKey
		if err := binary.Read(r, binary.LittleEndian, &key); err != nil {
			return nil, err
		}
		tile := make([]float32, tileSize*tileSize*tileSize)
		if err := binary.Read(r, binary.LittleEndian, &tile); err != nil {
			return nil, err
		}
		f.tiles[key] = tile
	}
	return f, nil
}

func flattenMat4(m mgl32.Mat4) [16]float32 {
	var out [16]float32
	copy(out[:], m[:])
	return out
}

func unflattenMat4(v [16]float32) mgl32.Mat4 {
	var m mgl32.Mat4
	copy(m[:], v[:])
	return m
}

var _ volume.CuboidProvider = (*SparseGrid)(nil)
