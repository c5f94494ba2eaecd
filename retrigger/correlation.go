package retrigger

import (
	"math"
	"runtime"
	"sync"

	"github.com/cwbudde/algo-dsp/dsp/core"
)

// corrRange is a merged [set, end) interval of positions worth
// evaluating a correlation signal over, in absolute sample indices.
type corrRange struct {
	set, end int
}

// buildCorrelationRanges merges the windows [e.offset-corrOffset,
// e.offset+corrLen) of every extended event into a small set of
// disjoint ranges, skipping any event whose window would fall outside
// [0, n). Events are expected to already be sorted by offset, matching
// the original's running-merge (not a general interval union).
func buildCorrelationRanges(events []extendedEvent, corrOffset, corrLen, n int) []corrRange {
	var ranges []corrRange
	var cur corrRange
	haveCur := false

	for _, e := range events {
		set := e.offset - corrOffset
		if set < 0 {
			continue
		}
		end := e.offset + corrLen
		if end > n {
			continue
		}

		if !haveCur {
			cur = corrRange{set: set, end: end}
			haveCur = true
			continue
		}
		if set > cur.end {
			ranges = append(ranges, cur)
			cur = corrRange{set: set, end: end}
		} else if end > cur.end {
			cur.end = end
		}
	}
	if haveCur {
		ranges = append(ranges, cur)
	}
	return ranges
}

// windowStats returns the mean and sum of squared deviations of
// a[start:start+length].
func windowStats(a []float64, start, length int) (mean, sqDev float64) {
	var sum float64
	for i := 0; i < length; i++ {
		sum += a[start+i]
	}
	mean = sum / float64(length)
	for i := 0; i < length; i++ {
		d := a[start+i] - mean
		sqDev += d * d
	}
	return mean, sqDev
}

// correlationProgram fills signal[j] for j in each range with the
// normalized cross-correlation between the window around j and the
// fixed template window [tplStart, tplStart+corrLen) in a, using the
// greater of the two windows' sums of squared deviations as the
// denominator (a deliberate asymmetric clamp; see DESIGN.md).
func correlationProgram(signal []float64, a []float64, ranges []corrRange, tplStart, corrLen int, avgB, sqDevB float64) {
	half := corrLen / 2

	for _, r := range ranges {
		for j := r.set; j < r.end; j++ {
			start := j - half
			if start < 0 || start+corrLen > len(a) {
				continue
			}

			avgA, sqDevA := windowStats(a, start, corrLen)

			var conv float64
			for i := 0; i < corrLen; i++ {
				conv += (a[start+i] - avgA) * (a[tplStart+i] - avgB)
			}

			denom := math.Max(sqDevA, sqDevB)
			if denom == 0 {
				continue
			}
			signal[j] = core.FlushDenormals(conv / denom)
		}
	}
}

// calculateCorrelations computes, for every extended event, its
// length-N correlation signal against the filtered signal a, evaluated
// only over the union of windows around every event's offset. Each
// event's signal is computed independently and write-disjoint, so the
// work is split across a bounded worker pool.
func calculateCorrelations(events []extendedEvent, a []float64, corrOffset, corrLen int) {
	n := len(a)
	ranges := buildCorrelationRanges(events, corrOffset, corrLen, n)

	workers := runtime.GOMAXPROCS(0)
	if workers > len(events) {
		workers = len(events)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int, len(events))
	for i := range events {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				e := &events[i]
				e.signal = make([]float64, n)

				tplStart := e.offset - corrOffset
				if tplStart < 0 || tplStart+corrLen > n {
					continue
				}
				avgB, sqDevB := windowStats(a, tplStart, corrLen)
				correlationProgram(e.signal, a, ranges, tplStart, corrLen, avgB, sqDevB)
			}
		}()
	}
	wg.Wait()
}

// maxOverWindow returns the maximum value of signal over [center-off,
// center-off+length) and the index at which it occurs, clamped to
// signal's bounds.
func maxOverWindow(signal []float64, center, length, off int) (maxAt int, maxV float64) {
	start := center - off
	if start < 0 {
		start = 0
	}
	end := start + length
	if end > len(signal) {
		end = len(signal)
	}
	if start >= end {
		return center, 0
	}
	maxAt, maxV = start, signal[start]
	for i := start + 1; i < end; i++ {
		if signal[i] > maxV {
			maxV = signal[i]
			maxAt = i
		}
	}
	return maxAt, maxV
}
