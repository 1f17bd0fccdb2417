package spectrum

import (
	"math"
	"testing"
)

func TestConstantSpectrum(t *testing.T) {
	c := Constant{V: 3.2}
	if c.Sample(500) != 3.2 {
		t.Errorf("Sample = %v, want 3.2", c.Sample(500))
	}
	if c.MaxValue() != 3.2 {
		t.Errorf("MaxValue = %v, want 3.2", c.MaxValue())
	}
}

func TestDenseSpectrumInterpolates(t *testing.T) {
	d := Dense{LambdaMin: 400, Values: []float32{0, 10, 20}}
	if got := d.Sample(400); got != 0 {
		t.Errorf("Sample(400) = %v, want 0", got)
	}
	if got := d.Sample(401); got != 10 {
		t.Errorf("Sample(401) = %v, want 10", got)
	}
	if got := d.Sample(400.5); got != 5 {
		t.Errorf("Sample(400.5) = %v, want 5", got)
	}
	if got := d.Sample(399); got != 0 {
		t.Errorf("Sample below domain should clamp to first value, got %v", got)
	}
	if got := d.Sample(1000); got != 20 {
		t.Errorf("Sample above domain should clamp to last value, got %v", got)
	}
}

func TestDenseSpectrumMaxValue(t *testing.T) {
	d := Dense{LambdaMin: 400, Values: []float32{0, 10, 4}}
	if d.MaxValue() != 10 {
		t.Errorf("MaxValue = %v, want 10", d.MaxValue())
	}
}

func TestRGBAlbedoNonNegative(t *testing.T) {
	rgb := RGBAlbedo{R: 0.8, G: 0.2, B: 0.1}
	for lambda := float32(360); lambda <= 830; lambda += 10 {
		if rgb.Sample(lambda) < 0 {
			t.Errorf("Sample(%v) = %v, expected non-negative", lambda, rgb.Sample(lambda))
		}
	}
}

func TestBlackbodyPeaksNearWienWavelength(t *testing.T) {
	bb := NewBlackbody(6500)
	// Sampling near the blackbody's own normalization wavelength should be
	// close to its declared maximum value of 1.
	lambdaMax := float32(2.8977721e-3 / 6500 * 1e9)
	v := bb.Sample(lambdaMax)
	if math.Abs(float64(v-1)) > 1e-3 {
		t.Errorf("Sample at Wien peak = %v, want ~1", v)
	}
	if bb.MaxValue() != 1 {
		t.Errorf("MaxValue = %v, want 1", bb.MaxValue())
	}
}

func TestBlackbodyNonNegative(t *testing.T) {
	bb := NewBlackbody(1500)
	for lambda := float32(360); lambda <= 830; lambda += 47 {
		if bb.Sample(lambda) < 0 {
			t.Errorf("Sample(%v) = %v, expected non-negative", lambda, bb.Sample(lambda))
		}
	}
}

func TestSampleAtPacksAllWavelengths(t *testing.T) {
	w := SampleUniform(0.1)
	s := SampleAt(Constant{V: 7}, &w)
	for i := 0; i < NSpectrumSamples; i++ {
		if s[i] != 7 {
			t.Errorf("SampleAt component %d = %v, want 7", i, s[i])
		}
	}
}

func TestPresetsLookup(t *testing.T) {
	for _, name := range []string{"water", "milk", "skin1", "wax"} {
		preset, ok := LookupPreset(name)
		if !ok {
			t.Errorf("expected preset %q to be found", name)
			continue
		}
		if preset.SigmaA == nil || preset.SigmaS == nil {
			t.Errorf("preset %q missing sigma_a/sigma_s", name)
		}
	}

	if _, ok := LookupPreset("no-such-preset"); ok {
		t.Error("unknown preset should not be found")
	}
}
