// Package waveio loads phonocardiogram waveforms into the normalized
// []float64 signal the rest of the pipeline operates on.
package waveio

import (
	"fmt"
	"os"
)

// CanonicalSampleRate is the sample rate every signal entering the
// pipeline is normalized to.
const CanonicalSampleRate = 2000

// maxRange is the target peak-to-peak amplitude after normalization.
const maxRange = 2000.0

// LoadRawPCM reads a little-endian 16-bit signed PCM file with a 44-byte
// header (a stripped WAV-shaped header the source recordings always
// carry), at a fixed nominal rate of 2000 Hz, and applies the two
// corrections the original recordings require: baseline subtraction and
// amplitude rescaling to a fixed peak-to-peak target.
//
// path is the full filename (including extension); callers resolving a
// "<basename>.wav" convention should add the suffix themselves.
func LoadRawPCM(path string) ([]float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("waveio: %s: %w", path, err)
	}
	if len(raw) < 44 {
		return nil, fmt.Errorf("waveio: %s: file too short for 44-byte header", path)
	}

	body := raw[44:]
	n := len(body) / 2
	samples := make([]float64, n)
	for i := 0; i < n; i++ {
		v := int16(uint16(body[2*i]) | uint16(body[2*i+1])<<8)
		samples[i] = float64(v)
	}

	subtractBaseline(samples)
	rescaleAmplitude(samples)
	return samples, nil
}

// subtractBaseline removes the mean computed over samples[start:], where
// start skips an initial settling region for signals long enough to
// afford it.
func subtractBaseline(samples []float64) {
	start := 0
	if len(samples) > 4000 {
		start = 1000
	}
	if start >= len(samples) {
		return
	}

	var sum float64
	for _, s := range samples[start:] {
		sum += s
	}
	mean := sum / float64(len(samples)-start)

	for i := range samples {
		samples[i] -= mean
	}
}

// rescaleAmplitude maps the peak-to-peak range of a representative
// window to maxRange units.
func rescaleAmplitude(samples []float64) {
	n := len(samples)
	var start, end int
	switch {
	case n < 4000:
		start, end = 0, n
	case n < 10000:
		start, end = 1000, n-1000
	default:
		start, end = 2000, 9000
	}
	if start >= end {
		return
	}

	min, max := samples[start], samples[start]
	for _, d := range samples[start:end] {
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	if max == min {
		return
	}
	scale := maxRange / (max - min)
	for i := range samples {
		samples[i] *= scale
	}
}
