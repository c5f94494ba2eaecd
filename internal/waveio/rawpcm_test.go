package waveio

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func writeRawPCM(t *testing.T, samples []int16) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recording.wav")

	buf := make([]byte, 44+2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[44+2*i:], uint16(s))
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}
	return path
}

func TestLoadRawPCMDecodesSamples(t *testing.T) {
	samples := make([]int16, 5000)
	for i := range samples {
		samples[i] = int16(100 + i%7) // small oscillation atop a DC offset
	}
	path := writeRawPCM(t, samples)

	out, err := LoadRawPCM(path)
	if err != nil {
		t.Fatalf("LoadRawPCM: %v", err)
	}
	if len(out) != len(samples) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(samples))
	}
}

func TestLoadRawPCMSubtractsBaseline(t *testing.T) {
	samples := make([]int16, 5000)
	for i := range samples {
		samples[i] = 1000 // constant DC offset, no oscillation
	}
	path := writeRawPCM(t, samples)

	out, err := LoadRawPCM(path)
	if err != nil {
		t.Fatalf("LoadRawPCM: %v", err)
	}
	for i, v := range out {
		if v != 0 {
			t.Fatalf("out[%d] = %v, want 0 after baseline subtraction of a constant signal", i, v)
			break
		}
	}
}

func TestLoadRawPCMTooShort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.wav")
	if err := os.WriteFile(path, []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}
	if _, err := LoadRawPCM(path); err == nil {
		t.Errorf("LoadRawPCM on a file shorter than the 44-byte header: expected error, got nil")
	}
}

func TestLoadRawPCMMissingFile(t *testing.T) {
	if _, err := LoadRawPCM(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Errorf("LoadRawPCM of a missing file: expected error, got nil")
	}
}

func TestRescaleAmplitudeMapsToMaxRange(t *testing.T) {
	samples := make([]float64, 3000)
	for i := range samples {
		samples[i] = float64(i % 100) // peak-to-peak of 99 within the representative window
	}
	rescaleAmplitude(samples)

	min, max := samples[0], samples[0]
	for _, v := range samples {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	got := max - min
	if got < maxRange*0.9 || got > maxRange*1.1 {
		t.Errorf("rescaled peak-to-peak = %v, want approximately %v", got, maxRange)
	}
}
