package filterbank

import "github.com/cwbudde/algo-dsp/dsp/core"

// apply runs a zero-phase two-pass recursive filter with coefficients c:
// a forward pass producing an intermediate signal d1, then a backward
// (time-reversed) pass over d1 producing d2, the final output. Both
// passes clamp their boundary taps to the first (resp. last) input
// sample instead of reading out of range, matching the coefficient
// synthesis's implicit zero-order hold assumption at the edges.
func apply(in []float64, c coefficients) []float64 {
	n := len(in)
	padding := len(c.a)

	d1 := make([]float64, n)
	for i := 0; i < n && i < padding; i++ {
		d := c.a[0] * in[i]
		for j := 1; j < len(c.a); j++ {
			if i < j {
				d += c.a[j] * in[0]
			} else {
				d += c.a[j] * in[i-j]
				d += c.b[j] * d1[i-j]
			}
		}
		d1[i] = core.FlushDenormals(d)
	}
	for i := padding; i < n; i++ {
		d := c.a[0] * in[i]
		for j := 1; j < len(c.a); j++ {
			d += c.a[j] * in[i-j]
			d += c.b[j] * d1[i-j]
		}
		d1[i] = core.FlushDenormals(d)
	}

	d2 := make([]float64, n)
	for i := n - 1; i >= n-1-padding && i >= 0; i-- {
		d := c.a[0] * d1[i]
		for j := 1; j < len(c.a); j++ {
			if i+j >= n {
				d += c.a[j] * d1[n-1]
			} else {
				d += c.a[j] * d1[i+j]
				d += c.b[j] * d2[i+j]
			}
		}
		d2[i] = core.FlushDenormals(d)
	}
	for i := n - 1 - padding; i >= 0; i-- {
		d := c.a[0] * d1[i]
		for j := 1; j < len(c.a); j++ {
			d += c.a[j] * d1[i+j]
			d += c.b[j] * d2[i+j]
		}
		d2[i] = core.FlushDenormals(d)
	}

	return d2
}

const (
	// NumberOfPoles is the pole count used throughout the pipeline: a
	// 4th-order Chebyshev Type I section.
	NumberOfPoles = 4
	// RipplePercent is the passband ripple allowance used throughout
	// the pipeline.
	RipplePercent = 0.5
)

func lowPass(sourcePath string, in []float64, cutoffFreq, ripplePercent float64, numberOfPoles int, sampleFreq float64) ([]float64, error) {
	c, err := cachedChebyshevCoefficients(sourcePath, cutoffFreq, sampleFreq, ripplePercent, numberOfPoles, false)
	if err != nil {
		return nil, err
	}
	return apply(in, c), nil
}

func highPass(sourcePath string, in []float64, cutoffFreq, ripplePercent float64, numberOfPoles int, sampleFreq float64) ([]float64, error) {
	c, err := cachedChebyshevCoefficients(sourcePath, cutoffFreq, sampleFreq, ripplePercent, numberOfPoles, true)
	if err != nil {
		return nil, err
	}
	return apply(in, c), nil
}

// Bandpass filters in through an order-numberOfPoles Chebyshev Type I
// bandpass with the given ripple, composed as a low-pass at highFreq
// followed by a high-pass at lowFreq (each a full zero-phase two-pass
// filter), matching the original's two-stage composition. A lowFreq of
// 0 skips the high-pass stage (pure low-pass); a highFreq above Nyquist
// skips the low-pass stage (pure high-pass).
//
// sourcePath, when non-empty, is used as the content-fingerprint cache
// key for the synthesized coefficients; pass "" to disable caching
// (e.g. in tests against synthetic signals with no backing file).
func Bandpass(sourcePath string, in []float64, lowFreq, highFreq, ripplePercent float64, numberOfPoles int, sampleFreq float64) ([]float64, error) {
	nyquist := 0.5 * sampleFreq

	if lowFreq == 0 {
		if highFreq > nyquist {
			out := make([]float64, len(in))
			copy(out, in)
			return out, nil
		}
		return lowPass(sourcePath, in, highFreq, ripplePercent, numberOfPoles, sampleFreq)
	}

	if highFreq > nyquist {
		return highPass(sourcePath, in, lowFreq, ripplePercent, numberOfPoles, sampleFreq)
	}

	lowed, err := lowPass(sourcePath, in, highFreq, ripplePercent, numberOfPoles, sampleFreq)
	if err != nil {
		return nil, err
	}
	return highPass(sourcePath, lowed, lowFreq, ripplePercent, numberOfPoles, sampleFreq)
}
