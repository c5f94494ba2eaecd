package retrigger

import (
	"math"
	"testing"

	"github.com/sonolab/phonotrig/internal/trigger"
)

// syntheticHeartSound builds a recording with two alternating narrow
// pulse shapes (standing in for S1/S2), one pair per cycle, so the
// retrigger engine has a realistic self-similar structure to cluster.
func syntheticHeartSound(sampleFreq float64, cycles int, cycleSeconds, s1s2GapSeconds float64) []float64 {
	n := int(float64(cycles+1) * cycleSeconds * sampleFreq)
	raw := make([]float64, n)

	pulse := func(center int, amp float64, widthSamples int) {
		for i := center - widthSamples; i <= center+widthSamples; i++ {
			if i < 0 || i >= n {
				continue
			}
			t := float64(i-center) / float64(widthSamples)
			raw[i] += amp * math.Exp(-4*t*t) * math.Sin(2*math.Pi*45*t)
		}
	}

	cycleSamples := int(cycleSeconds * sampleFreq)
	gapSamples := int(s1s2GapSeconds * sampleFreq)
	for c := 0; c < cycles; c++ {
		s1At := c*cycleSamples + cycleSamples/4
		pulse(s1At, 8.0, int(0.04*sampleFreq))
		pulse(s1At+gapSamples, 5.0, int(0.03*sampleFreq))
	}
	return raw
}

func buildEngine(t *testing.T, raw []float64, sampleFreq float64) *Engine {
	t.Helper()
	e := New(sampleFreq)
	e.SetConvolutionKernel([]float64{1, 1, 1, 1, 1})
	if err := e.SetData("", raw); err != nil {
		t.Fatalf("SetData: %v", err)
	}
	refs, err := trigger.Detect(e.Energy(), sampleFreq)
	if err != nil {
		t.Fatalf("trigger.Detect: %v", err)
	}
	if len(refs) == 0 {
		t.Fatal("trigger.Detect found no crude reference events in a synthetic periodic recording")
	}
	e.SetRefEvents(refs)
	return e
}

func TestEngineFindsEventsFromSyntheticRecording(t *testing.T) {
	sampleFreq := 2000.0
	raw := syntheticHeartSound(sampleFreq, 12, 0.8, 0.3)

	e := buildEngine(t, raw, sampleFreq)
	if err := e.CalcCorrelations(0.8); err != nil {
		t.Fatalf("CalcCorrelations: %v", err)
	}

	if len(e.Events()) == 0 && !e.Paired() {
		t.Fatal("engine produced neither an 'ev' cluster nor an S1/S2 pairing for a clear periodic recording")
	}
}

func TestEngineSetDataRequiresKernel(t *testing.T) {
	e := New(2000.0)
	if err := e.SetData("", make([]float64, 1000)); err == nil {
		t.Errorf("SetData without a convolution kernel: expected error, got nil")
	}
}

func TestEngineEnergyAndFilteredAccessors(t *testing.T) {
	sampleFreq := 2000.0
	raw := syntheticHeartSound(sampleFreq, 4, 0.8, 0.3)
	e := New(sampleFreq)
	e.SetConvolutionKernel([]float64{1, 1, 1})
	if err := e.SetData("", raw); err != nil {
		t.Fatalf("SetData: %v", err)
	}
	if len(e.Energy()) != len(raw) {
		t.Errorf("len(Energy()) = %d, want %d", len(e.Energy()), len(raw))
	}
	if len(e.Filtered()) != len(raw) {
		t.Errorf("len(Filtered()) = %d, want %d", len(e.Filtered()), len(raw))
	}
}

func TestEngineS1S2AccessorsErrorWhenUnpaired(t *testing.T) {
	e := New(2000.0)
	if _, err := e.S1Events(); err == nil {
		t.Errorf("S1Events before pairing: expected error, got nil")
	}
	if _, err := e.S2Events(); err == nil {
		t.Errorf("S2Events before pairing: expected error, got nil")
	}
	if e.Paired() {
		t.Errorf("Paired() = true before any correlation pass ran")
	}
}
