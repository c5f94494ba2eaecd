// Package trigger implements the crude, threshold-based initial event
// trigger: a coarse first pass over the energy signal that the
// retrigger engine later refines into self-consistent clusters.
package trigger

import "fmt"

// Event is a coarse candidate offset into the energy signal.
type Event struct {
	Offset int
}

// Detect scans energy (length n, sampled at sampleFreq) for crude events:
// a simple rising/falling min-max trigger calibrated by a percentile
// threshold estimate. It fires on both S1 and S2 excursions indifferently;
// disambiguating them is the retrigger engine's job.
func Detect(energy []float64, sampleFreq float64) ([]Event, error) {
	n := len(energy)
	skipOffset := int(0.5 * sampleFreq)

	threshold, err := defineThreshold(energy, skipOffset, sampleFreq)
	if err != nil {
		return nil, err
	}

	return trigDo(energy, n, skipOffset, sampleFreq, threshold), nil
}

// defineThreshold estimates a trigger threshold from percentile
// statistics of per-segment maxima and minima, skipping skipOffset
// samples at both ends.
func defineThreshold(energy []float64, skipOffset int, sampleFreq float64) (float64, error) {
	n := len(energy)
	baseLen := int(sampleFreq * 0.100)
	maxRR := sampleFreq * 3.0
	nStep := int((float64(n-2*skipOffset) - float64(baseLen)) / maxRR)
	if nStep < 1 {
		return 0, fmt.Errorf("trigger: too short data for threshold estimation")
	}

	maxima := make([]float64, nStep)
	bases := make([]float64, nStep)
	step := int(maxRR)

	for s := 0; s < nStep; s++ {
		start := skipOffset + s*step
		end := start + baseLen
		if end > n-skipOffset {
			end = n - skipOffset
		}
		mx, mn := energy[start], energy[start]
		for i := start; i < end; i++ {
			if energy[i] > mx {
				mx = energy[i]
			}
			if energy[i] < mn {
				mn = energy[i]
			}
		}
		maxima[s] = mx
		bases[s] = mn
	}

	peakEstimate := kthSmallest(append([]float64(nil), maxima...), int(0.1*float64(nStep)))
	baseEstimate := kthSmallest(append([]float64(nil), bases...), int(0.9*float64(nStep)))

	return baseEstimate + 0.125*(peakEstimate-baseEstimate), nil
}

// trigDo runs the hysteresis trigger: it scans for excursions above the
// running threshold, extends forward tracking the running peak while
// tolerating brief dips, and emits one event per excursion, with a
// dead-time cursor preventing immediate re-triggering.
func trigDo(energy []float64, n, skipOffset int, sampleFreq, threshold float64) []Event {
	maxTolerance := int(0.060 * sampleFreq)
	maxAboveLen := int(0.400 * sampleFreq)
	deadTime := int(0.200 * sampleFreq)
	const lowLimitFactor = 0.1

	var events []Event
	limit := threshold
	lowLimit := lowLimitFactor * threshold
	min := energy[skipOffset]
	k := 0

	for i := skipOffset; i < n-skipOffset; i++ {
		if i < k {
			continue
		}
		if energy[i] < lowLimit {
			min = energy[i]
			continue
		}
		if energy[i] < min {
			min = energy[i]
			continue
		}
		if energy[i]-min < 0.2*limit {
			continue
		}
		if energy[i] < limit {
			continue
		}

		maxAt := i
		maxV := energy[i]
		tolerance := 0
		j := i + 1
		for ; j < n-skipOffset && j-i < maxAboveLen; j++ {
			if energy[j] < lowLimit {
				break
			}
			if energy[j] > maxV {
				maxV = energy[j]
				maxAt = j
				tolerance = 0
			} else {
				tolerance++
				if tolerance > maxTolerance {
					break
				}
			}
		}

		events = append(events, Event{Offset: maxAt})
		k = maxAt + deadTime
		lowLimit = lowLimitFactor * maxV
		min = energy[maxAt]
		i = j - 1
	}

	return events
}

// kthSmallest returns the k-th order statistic (0-indexed) of a via
// Hoare-partition quickselect, mutating a in place.
func kthSmallest(a []float64, k int) float64 {
	if k < 0 {
		k = 0
	}
	if k >= len(a) {
		k = len(a) - 1
	}
	lo, hi := 0, len(a)-1
	for lo < hi {
		p := hoarePartition(a, lo, hi)
		switch {
		case k <= p:
			hi = p
		default:
			lo = p + 1
		}
	}
	return a[k]
}

func hoarePartition(a []float64, lo, hi int) int {
	pivot := a[(lo+hi)/2]
	i, j := lo-1, hi+1
	for {
		for {
			i++
			if a[i] >= pivot {
				break
			}
		}
		for {
			j--
			if a[j] <= pivot {
				break
			}
		}
		if i >= j {
			return j
		}
		a[i], a[j] = a[j], a[i]
	}
}
