package retrigger

import (
	"math"

	"github.com/cwbudde/algo-dsp/dsp/core"
)

// blackmanWindow computes a length-q Blackman window:
// W[i] = 0.42 - 0.5*cos(2*pi*i/(q-1)) + 0.08*cos(4*pi*i/(q-1)).
func blackmanWindow(q int) []float64 {
	w := make([]float64, q)
	if q <= 1 {
		for i := range w {
			w[i] = 1
		}
		return w
	}
	twoPiPerM := 2 * math.Pi / float64(q-1)
	for i := 0; i < q; i++ {
		w[i] = 0.42 - 0.5*math.Cos(float64(i)*twoPiPerM) + 0.08*math.Cos(2*float64(i)*twoPiPerM)
	}
	return w
}

// negZero is the "unset but in range" boundary marker; comparisons
// elsewhere treat it as ordinary zero.
func negZero() float64 {
	return math.Copysign(0, -1)
}

// convolutionPass computes out[i] = (1/len(b)) * sum_j a[i-half+j]*b[j]
// for i in [half, len(a)-half), where half = len(b)/2; boundary entries
// outside that range are set to -0.
func convolutionPass(a, b []float64) []float64 {
	half := len(b) / 2
	out := make([]float64, len(a))

	for i := 0; i < half && i < len(out); i++ {
		out[i] = negZero()
	}
	for i := len(out) - half; i < len(out); i++ {
		if i >= 0 {
			out[i] = negZero()
		}
	}

	for id := half; id < len(a)-half; id++ {
		var d float64
		for j := 0; j < len(b); j++ {
			d += a[id-half+j] * b[j]
		}
		out[id] = core.FlushDenormals(d / float64(len(b)))
	}
	return out
}

// energyPass computes out[i] = sum_j (a[i-half+j]*b[j])^2 for i in
// [half, len(a)-half), where half = len(b)/2; boundary entries are -0.
func energyPass(a, b []float64) []float64 {
	half := len(b) / 2
	out := make([]float64, len(a))

	for i := 0; i < half && i < len(out); i++ {
		out[i] = negZero()
	}
	for i := len(out) - half; i < len(out); i++ {
		if i >= 0 {
			out[i] = negZero()
		}
	}

	for id := half; id < len(a)-half; id++ {
		var d float64
		for j := 0; j < len(b); j++ {
			v := a[id-half+j] * b[j]
			d += v * v
		}
		out[id] = core.FlushDenormals(d)
	}
	return out
}

// calculateEnergy produces the energy envelope E from a filtered signal
// a, a convolution kernel kernel, and a smoothing window blackman:
// convolve a with kernel, then square-smooth the result with blackman.
func calculateEnergy(a, kernel, blackman []float64) []float64 {
	c := convolutionPass(a, kernel)
	return energyPass(c, blackman)
}
