// Package filterbank implements the order-4 Chebyshev Type I bandpass
// filter the pipeline uses as a black-box bandpass: coefficient synthesis
// by pole placement and ripple warping, applied as a two-pass (forward
// then backward) recursive filter for zero phase.
package filterbank

import (
	"fmt"
	"math"
	"os"

	"github.com/sonolab/phonotrig/internal/filecache"
)

// coefficients holds the difference-equation coefficients for an N-pole
// recursive filter: a[0..n], b[1..n] (b[0] is unused, matching the
// one-indexed convention the recurrence is built around).
type coefficients struct {
	a []float64
	b []float64
}

// chebyshevCoefficients synthesizes the coefficients for an
// numberOfPoles-pole Chebyshev Type I low-pass or high-pass prototype at
// cutoffFreq (in Hz; divided by sampleFreq internally) with the given percentage
// ripple, by combining numberOfPoles/2 second-order sections derived by
// poleIterator and normalizing DC (or Nyquist, for high-pass) gain to 1.
func chebyshevCoefficients(cutoffFreq, sampleFreq, ripplePercent float64, numberOfPoles int, isHighPass bool) coefficients {
	fc := cutoffFreq / sampleFreq
	n := 1 + numberOfPoles + 2

	a := make([]float64, n)
	b := make([]float64, n)
	a[2], b[2] = 1, 1

	tmpA := make([]float64, n)
	tmpB := make([]float64, n)

	for i := 0; i < numberOfPoles/2; i++ {
		sec := poleIterator(fc, isHighPass, ripplePercent, numberOfPoles, i)

		copy(tmpA, a)
		copy(tmpB, b)

		for j := 2; j < n; j++ {
			a[j] = sec.a[0]*tmpA[j] + sec.a[1]*tmpA[j-1] + sec.a[2]*tmpA[j-2]
			b[j] = tmpB[j] - sec.b[1]*tmpB[j-1] - sec.b[2]*tmpB[j-2]
		}
	}

	b[2] = 0

	n = 1 + numberOfPoles
	outA := make([]float64, n)
	outB := make([]float64, n)
	for i := 0; i < n; i++ {
		outA[i] = a[i+2]
		outB[i] = -b[i+2]
	}

	var sa, sb float64
	if isHighPass {
		sign := 1.0
		for i := 0; i < n; i++ {
			sa += outA[i] * sign
			sb += outB[i] * sign
			sign = -sign
		}
	} else {
		for i := 0; i < n; i++ {
			sa += outA[i]
			sb += outB[i]
		}
	}

	gain := sa / (1 - sb)
	for i := range outA {
		outA[i] /= gain
	}

	return coefficients{a: outA, b: outB}
}

// secondOrderSection is a single pole-pair's contribution, expressed in
// the same a[0..2]/b[1..2] biquad-section form the combination loop in
// chebyshevCoefficients expects.
type secondOrderSection struct {
	a [3]float64
	b [3]float64
}

// poleIterator places the ii-th pole pair of an numberOfPoles-pole
// Chebyshev Type I prototype on the unit circle, warps it onto the
// ripple ellipse, maps it from the s-domain to the z-domain via the
// bilinear transform, and applies the low-pass-to-low-pass (or
// low-pass-to-high-pass) frequency transform at cutoffFreq.
func poleIterator(cutoffFreq float64, isHighPass bool, ripplePercent float64, numberOfPoles, ii int) secondOrderSection {
	angle := math.Pi/(2.0*float64(numberOfPoles)) + float64(ii)*math.Pi/float64(numberOfPoles)
	re := -math.Cos(angle)
	im := math.Sin(angle)

	if ripplePercent != 0 {
		es := math.Sqrt(math.Pow(100.0/(100.0-ripplePercent), 2) - 1.0)
		vx := (1.0 / float64(numberOfPoles)) * math.Log(1.0/es+math.Sqrt(1.0/(es*es)+1))
		kx := (1.0 / float64(numberOfPoles)) * math.Log(1.0/es+math.Sqrt(1.0/(es*es)-1))
		kx = (math.Exp(kx) + math.Exp(-kx)) / 2

		re *= ((math.Exp(vx) - math.Exp(-vx)) / 2) / kx
		im *= ((math.Exp(vx) + math.Exp(-vx)) / 2) / kx
	}

	t := 2 * math.Tan(0.5)
	tPow2 := t * t
	w := 2 * math.Pi * cutoffFreq
	m := re*re + im*im
	d := 4 - 4*re*t + m*tPow2

	x0 := tPow2 / d
	x1 := 2 * tPow2 / d
	x2 := tPow2 / d
	y1 := (8.0 - 2.0*m*tPow2) / d
	y2 := (-4.0 - 4.0*re*t - m*tPow2) / d

	var k float64
	if isHighPass {
		k = -math.Cos(w/2+0.5) / math.Cos(w/2-0.5)
	} else {
		k = math.Sin(0.5-w/2) / math.Sin(0.5+w/2)
	}

	d = 1 + y1*k - y2*k*k

	sign := 1.0
	if isHighPass {
		sign = -1.0
	}

	var sec secondOrderSection
	sec.a[0] = (x0 - x1*k + x2*k*k) / d
	sec.a[1] = sign * ((-2*x0*k + x1 + x1*k*k - 2*x2*k) / d)
	sec.a[2] = (x0*k*k - x1*k + x2) / d
	sec.b[1] = sign * ((2*k + y1 + y1*k*k - 2*y2*k) / d)
	sec.b[2] = (-k*k - y1*k + y2) / d
	return sec
}

// cachedChebyshevCoefficients wraps chebyshevCoefficients with an
// on-disk content-fingerprint cache keyed by the filter's parameters, so
// repeated invocations against the same source file skip the recurrence.
// sourcePath identifies the recording the filter is being applied to
// (the cache is process-lifetime advisory, not correctness-critical);
// filter parameters are baked into the cache key.
func cachedChebyshevCoefficients(sourcePath string, cutoffFreq, sampleFreq, ripplePercent float64, numberOfPoles int, isHighPass bool) (coefficients, error) {
	params := fmt.Sprintf("%.6f_%d_%.3f_%d", cutoffFreq/sampleFreq, boolToInt(isHighPass), ripplePercent, numberOfPoles)

	if sourcePath != "" {
		if _, err := os.Stat(sourcePath); err == nil {
			if flat, ok, err := filecache.LoadFloat32s("chebyshev", sourcePath, params); err == nil && ok {
				c, err := unflattenCoefficients(flat, numberOfPoles)
				if err != nil {
					return coefficients{}, fmt.Errorf("filterbank: cached coefficients: %w", err)
				}
				return c, nil
			}
		}
	}

	c := chebyshevCoefficients(cutoffFreq, sampleFreq, ripplePercent, numberOfPoles, isHighPass)

	if sourcePath != "" {
		if _, err := os.Stat(sourcePath); err == nil {
			_ = filecache.StoreFloat32s("chebyshev", sourcePath, params, flattenCoefficients(c))
		}
	}
	return c, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func flattenCoefficients(c coefficients) []float32 {
	out := make([]float32, 0, len(c.a)+len(c.b))
	for _, v := range c.a {
		out = append(out, float32(v))
	}
	for _, v := range c.b {
		out = append(out, float32(v))
	}
	return out
}

func unflattenCoefficients(flat []float32, numberOfPoles int) (coefficients, error) {
	n := 1 + numberOfPoles
	if len(flat) != 2*n {
		return coefficients{}, fmt.Errorf("expected %d floats, got %d", 2*n, len(flat))
	}
	a := make([]float64, n)
	b := make([]float64, n)
	for i := 0; i < n; i++ {
		a[i] = float64(flat[i])
		b[i] = float64(flat[n+i])
	}
	return coefficients{a: a, b: b}, nil
}
