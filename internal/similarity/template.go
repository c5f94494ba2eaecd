package similarity

import "github.com/sonolab/phonotrig/retrigger"

// BuildTemplate averages a fixed window around each event in cluster,
// producing a single representative heart-sound template of length
// 2*int(halfWindowSeconds*sampleFreq). Events whose window would fall outside signal
// are skipped.
func BuildTemplate(signal []float64, cluster retrigger.Cluster, halfWindowSeconds, sampleFreq float64) []float64 {
	half := int(halfWindowSeconds * sampleFreq)
	width := 2 * half

	sum := make([]float64, width)
	n := 0
	for _, e := range cluster {
		start := e.Offset - half
		end := start + width
		if start < 0 || end > len(signal) {
			continue
		}
		for i := 0; i < width; i++ {
			sum[i] += signal[start+i]
		}
		n++
	}
	if n == 0 {
		return nil
	}
	for i := range sum {
		sum[i] /= float64(n)
	}
	return sum
}

// CompareToReference builds a template from the primary cluster's
// events and compares it against the bundled reference exemplar at
// sampleFreq, reporting a Metrics advisory never consulted by the
// decision tree.
func CompareToReference(signal []float64, primary retrigger.Cluster, sampleFreq float64) Metrics {
	const halfWindowSeconds = 0.15

	template := BuildTemplate(signal, primary, halfWindowSeconds, sampleFreq)
	if template == nil {
		return Metrics{SampleRate: int(sampleFreq), Score: 1.0, Similarity: 0.0}
	}

	reference := referenceExemplar(sampleFreq)
	return Compare(reference, template, int(sampleFreq))
}
