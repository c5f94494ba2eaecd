package markers

import (
	"log"
	"math"

	"github.com/sonolab/phonotrig/retrigger"
)

// eventStds returns the per-event standard deviation of data over
// [event.Offset+winStart, event.Offset+winEnd) for every event whose
// window fits within data, logging and returning ok=false if none do.
func eventStds(data []float64, events retrigger.Cluster, winStart, winEnd int) ([]float64, bool) {
	out := make([]float64, 0, len(events))
	for _, e := range events {
		start := e.Offset + winStart
		if start < 0 {
			continue
		}
		end := e.Offset + winEnd
		if end > len(data) {
			continue
		}
		v, ok := stdDev(data, start, end-start)
		if !ok {
			continue
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		log.Printf("phonotrig: markers: no events far enough from data boundaries for std reduction")
		return nil, false
	}
	return out, true
}

// eventAbsMax returns the per-event maximum absolute value of data over
// each event's window.
func eventAbsMax(data []float64, events retrigger.Cluster, winStart, winEnd int) ([]float64, bool) {
	out := make([]float64, 0, len(events))
	for _, e := range events {
		start := e.Offset + winStart
		if start < 0 {
			continue
		}
		end := e.Offset + winEnd
		if end > len(data) {
			continue
		}
		m := math.Abs(data[start])
		for i := start + 1; i < end; i++ {
			if a := math.Abs(data[i]); a > m {
				m = a
			}
		}
		out = append(out, m)
	}
	if len(out) == 0 {
		log.Printf("phonotrig: markers: no events far enough from data boundaries for absmax reduction")
		return nil, false
	}
	return out, true
}

// eventWidth returns, per event, the time span (in seconds) from the
// first to the last sample at or above limit within the event's window.
func eventWidth(data []float64, events retrigger.Cluster, winStart, winEnd int, limit, sampleFreq float64) ([]float64, bool) {
	out := make([]float64, 0, len(events))
	for _, e := range events {
		start := e.Offset + winStart
		if start < 0 {
			continue
		}
		end := e.Offset + winEnd
		if end > len(data) {
			continue
		}

		lo := start
		for lo < end && data[lo] < limit {
			lo++
		}
		hi := end - 1
		for hi > start && data[hi] < limit {
			hi--
		}
		out = append(out, float64(hi-lo)/sampleFreq)
	}
	if len(out) == 0 {
		log.Printf("phonotrig: markers: no events far enough from data boundaries for width reduction")
		return nil, false
	}
	return out, true
}

// eventExtremes returns per-event min, max, and max-min over each
// event's window.
func eventExtremes(data []float64, events retrigger.Cluster, winStart, winEnd int) (min, max, minMax []float64, ok bool) {
	for _, e := range events {
		start := e.Offset + winStart
		if start < 0 {
			continue
		}
		end := e.Offset + winEnd
		if end > len(data) {
			continue
		}

		mn, mx := data[start], data[start]
		for i := start + 1; i < end; i++ {
			if data[i] < mn {
				mn = data[i]
			} else if data[i] > mx {
				mx = data[i]
			}
		}
		min = append(min, mn)
		max = append(max, mx)
		minMax = append(minMax, mx-mn)
	}
	if len(min) == 0 {
		log.Printf("phonotrig: markers: no events far enough from data boundaries for extreme-value reduction")
		return nil, nil, nil, false
	}
	return min, max, minMax, true
}

// repeatingExtremes divides data[ignoreFromStart:] into fixed-length
// windows and returns per-window min, max, and max-min, for markers
// evaluated without any event anchor ("untrigged").
func repeatingExtremes(data []float64, ignoreFromStart, winLen int) (min, max, minMax []float64) {
	nWin := (len(data) - ignoreFromStart) / winLen
	for w := 0; w < nWin; w++ {
		start := ignoreFromStart + w*winLen
		mn, mx := data[start], data[start]
		for i := start + 1; i < start+winLen; i++ {
			if data[i] < mn {
				mn = data[i]
			} else if data[i] > mx {
				mx = data[i]
			}
		}
		min = append(min, mn)
		max = append(max, mx)
		minMax = append(minMax, mx-mn)
	}
	return min, max, minMax
}

// IsSaturated implements §4.3.3: a recording is "too saturated" when
// consecutive runs of samples pinned at the observed signal extremes
// (run length > 2) are frequent and long enough that
// sqrt(10000*n/N)*L > 0.01*N, where n is the number of saturated runs
// and L their total length.
func IsSaturated(channels [][]float64) (tooSaturated bool, totalRuns, totalLength int) {
	if len(channels) == 0 || len(channels[0]) == 0 {
		return false, 0, 0
	}

	rangeMin, rangeMax := channels[0][0], channels[0][0]
	for _, ch := range channels {
		for _, v := range ch {
			if v > rangeMax {
				rangeMax = v
			} else if v < rangeMin {
				rangeMin = v
			}
		}
	}

	const skipFromStart = 500
	const minRunLength = 2

	for _, ch := range channels {
		for i := skipFromStart; i < len(ch); i++ {
			switch {
			case ch[i] == rangeMax:
				run := 1
				for i+run < len(ch) && ch[i+run] == rangeMax {
					run++
				}
				if run > minRunLength {
					totalRuns++
					totalLength += run
				}
				i += run - 1
			case ch[i] == rangeMin:
				run := 1
				for i+run < len(ch) && ch[i+run] == rangeMin {
					run++
				}
				if run > minRunLength {
					totalRuns++
					totalLength += run
				}
				i += run - 1
			}
		}
	}

	n := len(channels[0])
	tooSaturated = math.Sqrt(10000.0*float64(totalRuns)/float64(n))*float64(totalLength) > 0.01*float64(n)
	return tooSaturated, totalRuns, totalLength
}
