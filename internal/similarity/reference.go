package similarity

import "math"

// referenceExemplar synthesizes a canonical "lub" heart-sound burst at
// sampleFreq: a 55 Hz tone under an exp(-18|t|) envelope, the dominant low-
// frequency component of a normal S1. It stands in for a bundled
// reference recording; real deployments would instead embed a vetted
// exemplar waveform alongside the binary.
func referenceExemplar(sampleFreq float64) []float64 {
	const (
		halfWindowSeconds = 0.15
		toneHz            = 55.0
		decayPerSecond    = 18.0
	)

	width := 2 * int(halfWindowSeconds*sampleFreq)
	out := make([]float64, width)
	center := width / 2

	for i := range out {
		t := (float64(i-center) / sampleFreq)
		env := math.Exp(-decayPerSecond * math.Abs(t))
		out[i] = env * math.Sin(2*math.Pi*toneHz*t)
	}
	return out
}
