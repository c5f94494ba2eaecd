package markers

import (
	"math"
	"testing"
)

func TestDefineSRRMedianOfInRangeIntervals(t *testing.T) {
	sampleFreq := 1000.0
	// intervals of 0.8s each, well within [0.6, 2.2].
	events := makeCluster(0, 800, 1600, 2400)

	got, ok := defineSRR(events, sampleFreq)
	if !ok {
		t.Fatal("defineSRR ok = false")
	}
	if math.Abs(got-0.8) > 1e-9 {
		t.Errorf("defineSRR = %v, want 0.8", got)
	}
}

func TestDefineSRRNoIntervalsInRange(t *testing.T) {
	sampleFreq := 1000.0
	events := makeCluster(0, 10, 20) // intervals of 0.01s, outside [0.6, 2.2]
	if _, ok := defineSRR(events, sampleFreq); ok {
		t.Errorf("defineSRR ok = true, want false")
	}
}

func TestSSDurationFallsBackToDefault(t *testing.T) {
	cfg := DefaultConfig()
	events := makeCluster(0, 10) // no valid interval
	got := ssDuration(events, 1000.0, cfg)
	if got != cfg.DefaultRR {
		t.Errorf("ssDuration = %v, want default %v", got, cfg.DefaultRR)
	}
}

func TestDefineS1S2DurMatchesEachS1ToItsFollowingS2(t *testing.T) {
	sampleFreq := 1000.0
	s1 := makeCluster(0, 800, 1600)
	s2 := makeCluster(300, 1100, 1900) // 0.3s gap each time

	got, ok := defineS1S2Dur(s1, s2, sampleFreq)
	if !ok {
		t.Fatal("defineS1S2Dur ok = false")
	}
	if math.Abs(got-0.3) > 1e-9 {
		t.Errorf("defineS1S2Dur = %v, want 0.3", got)
	}
}

func TestDefineS1S2DurStopsWhenS2Exhausted(t *testing.T) {
	sampleFreq := 1000.0
	// more S1 events than S2 events following them: must not panic.
	s1 := makeCluster(0, 800, 1600, 2400)
	s2 := makeCluster(300)

	got, ok := defineS1S2Dur(s1, s2, sampleFreq)
	if !ok {
		t.Fatal("defineS1S2Dur ok = false")
	}
	if math.Abs(got-0.3) > 1e-9 {
		t.Errorf("defineS1S2Dur = %v, want 0.3", got)
	}
}

func TestS1S2DurationFallsBackToDefault(t *testing.T) {
	cfg := DefaultConfig()
	s1 := makeCluster(0)
	s2 := makeCluster(1) // gap far too short to be in [0.2, 0.6]s
	got := s1s2Duration(s1, s2, 1000.0, cfg)
	if got != cfg.DefaultS1S2Dur {
		t.Errorf("s1s2Duration = %v, want default %v", got, cfg.DefaultS1S2Dur)
	}
}
