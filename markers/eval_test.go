package markers

import (
	"math"
	"testing"
)

func syntheticSignal(n int, sampleFreq float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * 40 * float64(i) / sampleFreq)
	}
	return out
}

func TestEvaluateAbsS1(t *testing.T) {
	sampleFreq := 2000.0
	raw := syntheticSignal(4000, sampleFreq)
	ctx := &Context{
		Raw:        raw,
		SampleFreq: sampleFreq,
		S1:         makeCluster(500, 1500, 2500),
		Cfg:        DefaultConfig(),
	}

	v, err := ctx.Evaluate("abs_s1_-_all_0_0")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v <= 0 {
		t.Errorf("abs_s1 std-marker = %v, want > 0 for an oscillating signal", v)
	}
}

func TestEvaluateUnparseableName(t *testing.T) {
	ctx := &Context{Raw: []float64{1, 2, 3}, SampleFreq: 1000, Cfg: DefaultConfig()}
	if _, err := ctx.Evaluate("not_a_valid_marker"); err == nil {
		t.Errorf("Evaluate with malformed name: expected error, got nil")
	}
}

func TestEvaluateDurS1S2(t *testing.T) {
	sampleFreq := 1000.0
	ctx := &Context{
		Raw:        syntheticSignal(4000, sampleFreq),
		SampleFreq: sampleFreq,
		S1:         makeCluster(0, 800, 1600),
		S2:         makeCluster(300, 1100, 1900),
		Cfg:        DefaultConfig(),
	}

	v, err := ctx.Evaluate("dur_s1s2_-_all_0_0")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if math.Abs(v-0.3) > 1e-9 {
		t.Errorf("dur_s1s2 = %v, want 0.3", v)
	}
}

func TestEvaluateDurRejectsUnsupportedWhere(t *testing.T) {
	ctx := &Context{Raw: syntheticSignal(2000, 1000), SampleFreq: 1000, Cfg: DefaultConfig()}
	if _, err := ctx.Evaluate("dur_s1_-_all_0_0"); err == nil {
		t.Errorf("dur_s1: expected error (dur only defined for s1s2/ss), got nil")
	}
}

func TestEvaluateNormDividesFilteredByRaw(t *testing.T) {
	sampleFreq := 2000.0
	raw := syntheticSignal(4000, sampleFreq)
	ctx := &Context{
		Raw:        raw,
		SampleFreq: sampleFreq,
		S1:         makeCluster(500, 1500, 2500),
		Cfg:        DefaultConfig(),
	}
	// f_hi<=0 means "no filter": norm's filtered and raw reductions are
	// identical, so the ratio is 1.
	v, err := ctx.Evaluate("norm_s1_-_all_0_0")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if math.Abs(v-1.0) > 1e-9 {
		t.Errorf("norm_s1 with no filter = %v, want 1.0", v)
	}
}

func TestEvaluateWidthComputesAMedianTimeWidth(t *testing.T) {
	sampleFreq := 2000.0
	raw := make([]float64, 4000)
	events := makeCluster(500, 1500, 2500)
	for _, e := range events {
		for i := e.Offset - 5; i <= e.Offset+5; i++ {
			raw[i] = 10
		}
	}
	ctx := &Context{
		Raw:        raw,
		SampleFreq: sampleFreq,
		S1:         events,
		Cfg:        DefaultConfig(),
	}

	v, err := ctx.Evaluate("width_s1_50_all_0_0")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v <= 0 {
		t.Errorf("width_s1 = %v, want > 0", v)
	}
}

func TestFilteredCachesByBand(t *testing.T) {
	ctx := &Context{Raw: syntheticSignal(2000, 1000), SampleFreq: 1000, Cfg: DefaultConfig()}
	a, err := ctx.filtered(10, 100)
	if err != nil {
		t.Fatalf("filtered: %v", err)
	}
	b, err := ctx.filtered(10, 100)
	if err != nil {
		t.Fatalf("filtered: %v", err)
	}
	if &a[0] != &b[0] {
		t.Errorf("filtered did not return the cached slice on a repeat call with the same band")
	}
}

func TestFilteredNoFilterReturnsRawDirectly(t *testing.T) {
	raw := syntheticSignal(100, 1000)
	ctx := &Context{Raw: raw, SampleFreq: 1000, Cfg: DefaultConfig()}
	out, err := ctx.filtered(0, 0)
	if err != nil {
		t.Fatalf("filtered: %v", err)
	}
	if &out[0] != &raw[0] {
		t.Errorf("filtered(0,0) did not return ctx.Raw directly")
	}
}
