package markers

import (
	"math"
	"testing"

	"github.com/sonolab/phonotrig/retrigger"
)

func makeCluster(offsets ...int) retrigger.Cluster {
	c := make(retrigger.Cluster, len(offsets))
	for i, o := range offsets {
		c[i] = retrigger.RetrigEvent{Offset: o}
	}
	return c
}

func TestEventStdsSkipsOutOfBoundsEvents(t *testing.T) {
	data := make([]float64, 1000)
	for i := range data {
		data[i] = float64(i % 7)
	}
	// one event too close to the start for winStart=-50, one well inside.
	events := makeCluster(10, 500)

	out, ok := eventStds(data, events, -50, 50)
	if !ok {
		t.Fatal("eventStds ok = false, want true")
	}
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1 (one event skipped)", len(out))
	}
}

func TestEventStdsEmptyWhenAllOutOfBounds(t *testing.T) {
	data := make([]float64, 100)
	events := makeCluster(5)
	if _, ok := eventStds(data, events, -50, 50); ok {
		t.Errorf("eventStds ok = true, want false when every event window is out of bounds")
	}
}

func TestEventAbsMax(t *testing.T) {
	data := make([]float64, 200)
	data[100] = -7
	events := makeCluster(100)

	out, ok := eventAbsMax(data, events, -10, 10)
	if !ok {
		t.Fatal("eventAbsMax ok = false")
	}
	if out[0] != 7 {
		t.Errorf("eventAbsMax = %v, want 7", out[0])
	}
}

func TestEventWidth(t *testing.T) {
	data := make([]float64, 200)
	for i := 90; i < 111; i++ {
		data[i] = 5
	}
	events := makeCluster(100)

	out, ok := eventWidth(data, events, -20, 20, 1.0, 1000.0)
	if !ok {
		t.Fatal("eventWidth ok = false")
	}
	if out[0] <= 0 {
		t.Errorf("eventWidth = %v, want > 0", out[0])
	}
}

func TestEventExtremes(t *testing.T) {
	data := make([]float64, 200)
	data[95] = -3
	data[105] = 8
	events := makeCluster(100)

	min, max, minMax, ok := eventExtremes(data, events, -10, 10)
	if !ok {
		t.Fatal("eventExtremes ok = false")
	}
	if min[0] != -3 || max[0] != 8 || minMax[0] != 11 {
		t.Errorf("min/max/minMax = %v/%v/%v, want -3/8/11", min[0], max[0], minMax[0])
	}
}

func TestRepeatingExtremesSlicesIntoFixedWindows(t *testing.T) {
	data := make([]float64, 1000)
	for i := range data {
		data[i] = float64(i % 10)
	}
	min, max, minMax := repeatingExtremes(data, 100, 200)
	wantWindows := (1000 - 100) / 200
	if len(min) != wantWindows {
		t.Fatalf("len(min) = %d, want %d", len(min), wantWindows)
	}
	for i := range min {
		if minMax[i] != max[i]-min[i] {
			t.Errorf("window %d: minMax != max-min", i)
		}
	}
}

func TestIsSaturatedFlagsFlatRuns(t *testing.T) {
	n := 20000
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(float64(i) * 0.01)
	}
	// pin a long run at a new global maximum, well past the skip region.
	for i := 1000; i < 1000+500; i++ {
		data[i] = 2.0
	}

	saturated, runs, length := IsSaturated([][]float64{data})
	if !saturated {
		t.Errorf("IsSaturated = false, want true for a long pinned run (runs=%d length=%d)", runs, length)
	}
	if runs == 0 {
		t.Errorf("totalRuns = 0, want > 0")
	}
}

func TestIsSaturatedCleanSignal(t *testing.T) {
	n := 20000
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(float64(i) * 0.013)
	}
	saturated, _, _ := IsSaturated([][]float64{data})
	if saturated {
		t.Errorf("IsSaturated = true, want false for a clean sine wave")
	}
}

func TestIsSaturatedEmptyInput(t *testing.T) {
	if saturated, runs, length := IsSaturated(nil); saturated || runs != 0 || length != 0 {
		t.Errorf("IsSaturated(nil) = %v/%d/%d, want false/0/0", saturated, runs, length)
	}
}
