package provider

import (
	"math"
	"math/rand"
)

// scalarNoise is the five-octave scalar density noise the cloud provider
// accumulates over (spec.md §4.5). It is the teacher's own improved Perlin
// noise (internal/renderer/improved_perlin.go, GPU Gems Chapter 5 style:
// quintic fade curve, 12-edge gradient table) adapted in place: renamed out
// of the renderer package, seeded deterministically at construction instead
// of from wall-clock time (media are built once and must be reproducible),
// and stripped of the marble/wood/ridge variants the renderer used that
// have no home in a density field.
type scalarNoise struct {
	perm      [512]int
	gradients [12][3]float64
}

func newScalarNoise(seed int64) *scalarNoise {
	n := &scalarNoise{
		gradients: [12][3]float64{
			{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
			{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
			{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
		},
	}

	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < 256; i++ {
		n.perm[i] = i
	}
	for i := 255; i > 0; i-- {
		j := rng.Intn(i + 1)
		n.perm[i], n.perm[j] = n.perm[j], n.perm[i]
	}
	for i := 0; i < 256; i++ {
		n.perm[256+i] = n.perm[i]
	}
	return n
}

func fade(t float64) float64 { return t * t * t * (t*(t*6-15) + 10) }

func lerp64(t, a, b float64) float64 { return a + t*(b-a) }

func (n *scalarNoise) grad(hash int, x, y, z float64) float64 {
	g := n.gradients[hash%12]
	return g[0]*x + g[1]*y + g[2]*z
}

// Noise3D generates 3D Perlin noise at the given coordinates, in [-1, 1].
func (n *scalarNoise) Noise3D(x, y, z float64) float64 {
	X := int(math.Floor(x)) & 255
	Y := int(math.Floor(y)) & 255
	Z := int(math.Floor(z)) & 255

	x -= math.Floor(x)
	y -= math.Floor(y)
	z -= math.Floor(z)

	u := fade(x)
	v := fade(y)
	w := fade(z)

	A := n.perm[X] + Y
	AA := n.perm[A] + Z
	AB := n.perm[A+1] + Z
	B := n.perm[X+1] + Y
	BA := n.perm[B] + Z
	BB := n.perm[B+1] + Z

	return lerp64(w,
		lerp64(v,
			lerp64(u, n.grad(n.perm[AA], x, y, z), n.grad(n.perm[BA], x-1, y, z)),
			lerp64(u, n.grad(n.perm[AB], x, y-1, z), n.grad(n.perm[BB], x-1, y-1, z))),
		lerp64(v,
			lerp64(u, n.grad(n.perm[AA+1], x, y, z-1), n.grad(n.perm[BA+1], x-1, y, z-1)),
			lerp64(u, n.grad(n.perm[AB+1], x, y-1, z-1), n.grad(n.perm[BB+1], x-1, y-1, z-1))))
}
