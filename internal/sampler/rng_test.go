package sampler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSampleExponentialZeroU(t *testing.T) {
	t0 := SampleExponential(0, 1)
	if t0 != 0 {
		t.Errorf("SampleExponential(0, 1) = %v, want 0", t0)
	}
}

func TestSampleExponentialRateZeroIsInfinite(t *testing.T) {
	got := SampleExponential(0.5, 0)
	if !math.IsInf(float64(got), 1) {
		t.Errorf("SampleExponential with rate<=0 should be +Inf, got %v", got)
	}
}

func TestSampleExponentialMonotoneInU(t *testing.T) {
	prev := float32(0)
	for _, u := range []float32{0.1, 0.3, 0.5, 0.7, 0.9, 0.99} {
		got := SampleExponential(u, 1)
		if got <= prev {
			t.Errorf("SampleExponential should increase with u: u=%v got %v <= prev %v", u, got, prev)
		}
		prev = got
	}
}

func TestSampleExponentialMeanApproximatesInverseRate(t *testing.T) {
	rng := NewRand(42)
	const rate = float32(2.0)
	const n = 200000

	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(SampleExponential(rng.Uniform(), rate))
	}
	mean := sum / n
	want := 1.0 / float64(rate)
	require.InDeltaf(t, want, mean, 0.02, "sample mean of Exponential(%v) should be close to 1/rate", rate)
}

func TestRandUniformInRange(t *testing.T) {
	rng := NewRand(7)
	for i := 0; i < 1000; i++ {
		u := rng.Uniform()
		if u < 0 || u >= 1 {
			t.Fatalf("Uniform() = %v, want [0, 1)", u)
		}
	}
}
