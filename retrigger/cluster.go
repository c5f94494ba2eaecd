package retrigger

import "sort"

// scoreTemplates implements §4.2.3 template scoring: for each extended
// event t, every other event u is accepted into t's stack if the peak
// of t's correlation signal over the lookaround window centered at
// u.offset meets correlationLimit. Templates with fewer than
// cfg.MinClusterSize accepted peers are discarded. Returns the indices
// of surviving candidate templates ("corr_map"), sorted by p*|stack|
// descending (the strongest, broadest template first).
func scoreTemplates(events []extendedEvent, cfg Config, sampleFreq, correlationLimit float64) []int {
	lookLen := secondsToSamples(cfg.LookaroundLenSeconds, sampleFreq)
	lookOff := secondsToSamples(cfg.LookaroundOffsetSeconds, sampleFreq)

	var candidates []int
	for i := range events {
		t := &events[i]
		dd := 1.0 // self correlation
		n := 1
		var stack []int

		for j := range events {
			if j == i {
				continue
			}
			_, q := maxOverWindow(t.signal, events[j].offset, lookLen, lookOff)
			if q < correlationLimit {
				continue
			}
			dd += q
			n++
			stack = append(stack, j)
		}

		if len(stack) < cfg.MinClusterSize {
			continue
		}
		t.p = dd / float64(n)
		t.assigned = false
		t.stack = stack
		candidates = append(candidates, i)
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		ia, ib := candidates[a], candidates[b]
		sa := events[ia].p * float64(len(events[ia].stack))
		sb := events[ib].p * float64(len(events[ib].stack))
		return sa > sb
	})
	return candidates
}

// rawEvent is a candidate event before jitter-merging: an offset and a
// correlation weight inherited from the peer template that produced it.
type rawEvent struct {
	offset int
	p      float64
}

// formCluster implements §4.2.4: starting from threshold 0.95 and
// stepping down by 0.025 until at least cfg.MinClusterSize events
// emerge (failing once the threshold passes cfg.ThresholdFloor), relocate
// each stack member's peak against the trunk offset, peak-sharpen every
// above-threshold crossing of its correlation signal into a candidate
// event, and merge candidates within cfg.MergeJitterSamples of each
// other.
func formCluster(events []extendedEvent, trunkIdx int, cfg Config, sampleFreq float64, energy []float64, corrLen int) (Cluster, error) {
	trunk := &events[trunkIdx]
	lookLen := secondsToSamples(cfg.LookaroundLenSeconds, sampleFreq)
	lookOff := secondsToSamples(cfg.LookaroundOffsetSeconds, sampleFreq)

	var cluster Cluster
	for d := cfg.ThresholdStart; len(cluster) < cfg.MinClusterSize; d -= cfg.ThresholdStep {
		if d < cfg.ThresholdFloor {
			return nil, errClusterInfeasible
		}

		var raw []rawEvent
		trunkOffset := trunk.offset

		for _, ui := range trunk.stack {
			u := &events[ui]
			if u.assigned {
				continue
			}

			peakAt, peakV := maxOverWindow(u.signal, trunkOffset, lookLen, lookOff)
			if peakV < cfg.PeakRelocationMin {
				continue
			}
			delta := peakAt - trunkOffset
			u.corr.offset = delta
			u.corr.p = peakV

			limit := len(u.signal) - corrLen
			for i := 0; i < limit; i++ {
				if u.signal[i] <= d {
					continue
				}
				offset := sharpenPeak(u.signal, i, corrLen)
				raw = append(raw, rawEvent{offset: offset - delta, p: u.p})
			}
		}

		sort.Slice(raw, func(a, b int) bool { return raw[a].offset < raw[b].offset })
		cluster = mergeJitter(raw, cfg.MergeJitterSamples, energy)
	}

	for _, ui := range trunk.stack {
		events[ui].assigned = true
	}
	return cluster, nil
}

// sharpenPeak returns the offset of the local maximum of signal over
// [i, i+width).
func sharpenPeak(signal []float64, i, width int) int {
	best := i
	bestV := signal[i]
	end := i + width
	if end > len(signal) {
		end = len(signal)
	}
	for j := i + 1; j < end; j++ {
		if signal[j] > bestV {
			bestV = signal[j]
			best = j
		}
	}
	return best
}

// mergeJitter merges raw events within jitter samples of each other
// into single averaged retrig events, replicating the original's
// zero-as-consumed-sentinel pairwise merge.
func mergeJitter(raw []rawEvent, jitter int, energy []float64) Cluster {
	var out Cluster
	for i := range raw {
		if raw[i].offset == 0 {
			continue
		}

		sumOffset := raw[i].offset
		sumP := raw[i].p
		n := 1

		for j := range raw {
			if i == j || raw[j].offset == 0 {
				continue
			}
			if raw[j].offset > raw[i].offset-jitter && raw[j].offset < raw[i].offset+jitter {
				sumOffset += raw[j].offset
				sumP += raw[j].p
				n++
				raw[j].offset = 0
			}
		}

		offset := sumOffset / n
		if offset < 0 || offset >= len(energy) {
			continue
		}
		out = append(out, RetrigEvent{
			Offset:        offset,
			P:             sumP / float64(n),
			NominalEnergy: energy[offset],
		})
	}
	return out
}

func secondsToSamples(seconds, sampleFreq float64) int {
	return int(seconds * sampleFreq)
}
