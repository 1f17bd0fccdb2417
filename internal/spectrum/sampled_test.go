package spectrum

import (
	"math"
	"testing"
)

func TestNewConstant(t *testing.T) {
	s := NewConstant(2.5)
	for i := 0; i < NSpectrumSamples; i++ {
		if s[i] != 2.5 {
			t.Errorf("component %d = %v, want 2.5", i, s[i])
		}
	}
}

func TestSampledSpectrumArithmetic(t *testing.T) {
	a := NewConstant(1)
	b := NewConstant(2)

	if got := a.Add(b); got != NewConstant(3) {
		t.Errorf("Add: got %v", got)
	}
	if got := b.Sub(a); got != NewConstant(1) {
		t.Errorf("Sub: got %v", got)
	}
	if got := a.Mul(b); got != NewConstant(2) {
		t.Errorf("Mul: got %v", got)
	}
	if got := a.Scale(4); got != NewConstant(4) {
		t.Errorf("Scale: got %v", got)
	}
}

func TestSampledSpectrumExp(t *testing.T) {
	s := NewConstant(0)
	got := s.Exp()
	if got != NewConstant(1) {
		t.Errorf("Exp(0) should be 1, got %v", got)
	}

	s2 := NewConstant(-1)
	got2 := s2.Exp()
	want := float32(math.Exp(-1))
	if math.Abs(float64(got2[0]-want)) > 1e-6 {
		t.Errorf("Exp(-1) = %v, want %v", got2[0], want)
	}
}

func TestSampledSpectrumIsBlack(t *testing.T) {
	if !(SampledSpectrum{}).IsBlack() {
		t.Error("zero-value SampledSpectrum should be black")
	}
	if NewConstant(0.001).IsBlack() {
		t.Error("non-zero SampledSpectrum should not be black")
	}
}

func TestSampledSpectrumMaxComponentValue(t *testing.T) {
	s := SampledSpectrum{1, 5, 2, 0}
	if s.MaxComponentValue() != 5 {
		t.Errorf("MaxComponentValue = %v, want 5", s.MaxComponentValue())
	}
}

func TestSampledSpectrumAverage(t *testing.T) {
	s := SampledSpectrum{1, 2, 3, 4}
	if got := s.Average(); got != 2.5 {
		t.Errorf("Average = %v, want 2.5", got)
	}
}

func TestSampleUniformCardinality(t *testing.T) {
	w := SampleUniform(0.37)
	for i := 0; i < NSpectrumSamples; i++ {
		if w.Lambda(i) < lambdaMin || w.Lambda(i) > lambdaMax {
			t.Errorf("lambda[%d] = %v out of [%v, %v]", i, w.Lambda(i), lambdaMin, lambdaMax)
		}
	}
	pdf := w.PDF()
	for i, p := range pdf {
		if p <= 0 {
			t.Errorf("pdf[%d] should be positive, got %v", i, p)
		}
	}
}

func TestSampleVisibleInRange(t *testing.T) {
	w := SampleVisible(0.5)
	for i := 0; i < NSpectrumSamples; i++ {
		if w.Lambda(i) < lambdaMin || w.Lambda(i) > lambdaMax {
			t.Errorf("lambda[%d] = %v out of range", i, w.Lambda(i))
		}
	}
}

func TestTerminateSecondary(t *testing.T) {
	w := SampleVisible(0.2)
	w.TerminateSecondary()
	if !w.SecondaryTerminated() {
		t.Error("SecondaryTerminated should report true after TerminateSecondary")
	}
	pdf := w.PDF()
	for i := 1; i < NSpectrumSamples; i++ {
		if pdf[i] != 0 {
			t.Errorf("pdf[%d] should be zeroed after termination, got %v", i, pdf[i])
		}
	}
}
