// Package sampler defines the narrow random-number interface the sampling
// core needs and the exponential free-flight-distance sampling routine.
package sampler

import (
	"math"
	"math/rand"
)

// RNG is the per-worker random source the caller owns exclusively and
// passes into SampleT_maj. Every worker in the path-tracing pool keeps its
// own instance; the medium core never constructs or seeds one itself
// (spec.md §5: "The per-call RNG is exclusively owned by the caller").
type RNG interface {
	// Uniform returns a sample in [0, 1).
	Uniform() float32
}

// Rand adapts the standard library's *rand.Rand to the RNG interface,
// following the teacher's own math/rand-seeded noise generator
// (internal/renderer/improved_perlin.go's NewImprovedPerlinNoise).
type Rand struct {
	r *rand.Rand
}

// NewRand seeds a new Rand-backed RNG.
func NewRand(seed int64) *Rand {
	return &Rand{r: rand.New(rand.NewSource(seed))}
}

func (r *Rand) Uniform() float32 { return r.r.Float32() }

// SampleExponential draws a distance from Exponential(rate) given a uniform
// sample u in [0, 1), via inverse-CDF sampling: t = -ln(1-u)/rate.
func SampleExponential(u, rate float32) float32 {
	if rate <= 0 {
		return float32(math.Inf(1))
	}
	return -float32(math.Log(1-float64(u))) / rate
}
