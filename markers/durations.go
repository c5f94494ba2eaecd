package markers

import "github.com/sonolab/phonotrig/retrigger"

// defineSRR returns the median inter-S1 interval strictly between 0.6
// and 2.2 seconds, in seconds, or ok=false if no interval in range exists.
func defineSRR(events retrigger.Cluster, sampleFreq float64) (seconds float64, ok bool) {
	minRR := int(0.6 * sampleFreq)
	maxRR := int(2.2 * sampleFreq)

	var rr []float64
	for i := 1; i < len(events); i++ {
		d := events[i].Offset - events[i-1].Offset
		if d > minRR && d < maxRR {
			rr = append(rr, float64(d))
		}
	}
	if len(rr) == 0 {
		return 0, false
	}
	m, _ := median(rr)
	return m / sampleFreq, true
}

// ssDuration returns the median inter-S1 interval, falling back to
// cfg.DefaultRR when no valid interval exists.
func ssDuration(events retrigger.Cluster, sampleFreq float64, cfg Config) float64 {
	if dur, ok := defineSRR(events, sampleFreq); ok {
		return dur
	}
	return cfg.DefaultRR
}

// defineS1S2Dur returns the median gap, in seconds, from each S1 event
// to the first following S2 event, counting only gaps strictly between
// 0.2 and 0.6 seconds.
func defineS1S2Dur(s1, s2 retrigger.Cluster, sampleFreq float64) (seconds float64, ok bool) {
	minDur := int(0.200 * sampleFreq)
	maxDur := int(0.600 * sampleFreq)

	var dur []float64
	j := 0
	for i := range s1 {
		for j < len(s2) && s2[j].Offset < s1[i].Offset {
			j++
		}
		if j >= len(s2) {
			break
		}
		d := s2[j].Offset - s1[i].Offset
		if d > minDur && d < maxDur {
			dur = append(dur, float64(d))
		}
	}
	if len(dur) == 0 {
		return 0, false
	}
	m, _ := median(dur)
	return m / sampleFreq, true
}

// s1s2Duration returns the median S1->S2 gap, falling back to
// cfg.DefaultS1S2Dur when no valid gap exists.
func s1s2Duration(s1, s2 retrigger.Cluster, sampleFreq float64, cfg Config) float64 {
	if dur, ok := defineS1S2Dur(s1, s2, sampleFreq); ok {
		return dur
	}
	return cfg.DefaultS1S2Dur
}
