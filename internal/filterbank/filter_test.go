package filterbank

import (
	"math"
	"testing"
)

func sineWave(freqHz, sampleFreq float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freqHz * float64(i) / sampleFreq)
	}
	return out
}

func rms(data []float64) float64 {
	var sum float64
	for _, v := range data {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(data)))
}

func TestBandpassAttenuatesOutOfBandTone(t *testing.T) {
	sampleFreq := 2000.0
	n := 4000
	inBand := sineWave(100, sampleFreq, n)  // within [10, 500]
	outOfBand := sineWave(900, sampleFreq, n) // above the passband

	filteredIn, err := Bandpass("", inBand, 10, 500, 0.5, 4, sampleFreq)
	if err != nil {
		t.Fatalf("Bandpass(inBand): %v", err)
	}
	filteredOut, err := Bandpass("", outOfBand, 10, 500, 0.5, 4, sampleFreq)
	if err != nil {
		t.Fatalf("Bandpass(outOfBand): %v", err)
	}

	// settle past the filter's transient.
	settle := 500
	rmsIn := rms(filteredIn[settle:])
	rmsOut := rms(filteredOut[settle:])

	if rmsOut >= rmsIn {
		t.Errorf("out-of-band rms (%v) >= in-band rms (%v), want the bandpass to attenuate the out-of-band tone", rmsOut, rmsIn)
	}
}

func TestBandpassLowFreqZeroSkipsHighPassStage(t *testing.T) {
	sampleFreq := 2000.0
	signal := sineWave(50, sampleFreq, 1000)
	out, err := Bandpass("", signal, 0, 500, 0.5, 4, sampleFreq)
	if err != nil {
		t.Fatalf("Bandpass: %v", err)
	}
	if len(out) != len(signal) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(signal))
	}
	want, err := lowPass("", signal, 500, 0.5, 4, sampleFreq)
	if err != nil {
		t.Fatalf("lowPass: %v", err)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out[%d] = %v, want the low-pass-only value %v", i, out[i], want[i])
		}
	}
}

func TestBandpassHighFreqAboveNyquistSkipsLowPassStage(t *testing.T) {
	sampleFreq := 2000.0
	signal := sineWave(50, sampleFreq, 1000)
	out, err := Bandpass("", signal, 10, 5000, 0.5, 4, sampleFreq)
	if err != nil {
		t.Fatalf("Bandpass: %v", err)
	}
	if len(out) != len(signal) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(signal))
	}
	want, err := highPass("", signal, 10, 0.5, 4, sampleFreq)
	if err != nil {
		t.Fatalf("highPass: %v", err)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out[%d] = %v, want the high-pass-only value %v", i, out[i], want[i])
		}
	}
}

func TestBandpassPreservesLength(t *testing.T) {
	sampleFreq := 2000.0
	signal := sineWave(80, sampleFreq, 777)
	out, err := Bandpass("", signal, 10, 500, 0.5, 4, sampleFreq)
	if err != nil {
		t.Fatalf("Bandpass: %v", err)
	}
	if len(out) != len(signal) {
		t.Errorf("len(out) = %d, want %d", len(out), len(signal))
	}
}
