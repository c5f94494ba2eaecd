package retrigger

import (
	"fmt"
	"sort"

	"github.com/sonolab/phonotrig/internal/filterbank"
	"github.com/sonolab/phonotrig/internal/trigger"
)

// Engine is the retrigger engine: given a recording's filtered signal,
// its energy envelope, and a list of crude reference events, it refines
// those events into one or two mutually self-similar clusters.
type Engine struct {
	cfg        Config
	sampleFreq float64

	kernel   []float64
	blackman []float64
	filtered []float64
	energy   []float64

	corrLenSamples, corrOffSamples int

	events []extendedEvent

	ev       Cluster
	s1, s2   Cluster
	paired   bool
}

// New creates a retrigger engine at the given sample rate with default
// tunables.
func New(sampleFreq float64) *Engine {
	return &Engine{cfg: DefaultConfig(), sampleFreq: sampleFreq}
}

// NewWithConfig creates a retrigger engine with explicit tunables.
func NewWithConfig(sampleFreq float64, cfg Config) *Engine {
	return &Engine{cfg: cfg, sampleFreq: sampleFreq}
}

// SetConvolutionKernel installs the convolution kernel used by the
// energy estimator.
func (e *Engine) SetConvolutionKernel(kernel []float64) {
	e.kernel = kernel
}

// SetLookaroundWindow overrides the lookaround window, in seconds.
func (e *Engine) SetLookaroundWindow(lengthSeconds, offsetSeconds float64) {
	e.cfg.LookaroundLenSeconds = lengthSeconds
	e.cfg.LookaroundOffsetSeconds = offsetSeconds
}

// SetCorrelationWindow overrides the correlation window, in seconds.
func (e *Engine) SetCorrelationWindow(lengthSeconds, offsetSeconds float64) {
	e.cfg.CorrelationLenSeconds = lengthSeconds
	e.cfg.CorrelationOffsetSeconds = offsetSeconds
}

// SetData bandpass-filters raw (10-500 Hz, order-4 Chebyshev, 0.5%
// ripple) and computes the energy envelope from the filtered signal and
// the installed convolution kernel. sourcePath, when non-empty, is used
// to key the filter coefficient cache.
func (e *Engine) SetData(sourcePath string, raw []float64) error {
	if e.kernel == nil {
		return fmt.Errorf("retrigger: convolution kernel not set")
	}

	filtered, err := filterbank.Bandpass(sourcePath, raw,
		e.cfg.BandpassLowHz, e.cfg.BandpassHighHz, e.cfg.BandpassRipplePercent,
		e.cfg.BandpassPoles, e.sampleFreq)
	if err != nil {
		return fmt.Errorf("retrigger: bandpass: %w", err)
	}

	qLen := int(e.cfg.EnergyWindowFraction * e.sampleFreq)
	if qLen < 3 {
		qLen = 3
	}
	e.blackman = blackmanWindow(qLen)
	e.filtered = filtered
	e.energy = calculateEnergy(filtered, e.kernel, e.blackman)
	return nil
}

// Energy returns the computed energy envelope.
func (e *Engine) Energy() []float64 {
	return e.energy
}

// Filtered returns the bandpassed signal energy was computed from.
func (e *Engine) Filtered() []float64 {
	return e.filtered
}

// SetRefEvents ingests crude reference events (§4.2.1): events beyond
// cfg.RefEvLimit are truncated to the middlemost RefEvLimit and
// re-sorted by offset; each surviving event is refined to the argmax of
// the energy signal within the lookaround window, and events whose
// lookaround window would fall outside the signal are silently skipped.
func (e *Engine) SetRefEvents(refs []trigger.Event) {
	refs = truncateMiddlemost(refs, e.cfg.RefEvLimit)

	lookLen := secondsToSamples(e.cfg.LookaroundLenSeconds, e.sampleFreq)
	lookOff := secondsToSamples(e.cfg.LookaroundOffsetSeconds, e.sampleFreq)
	n := len(e.energy)

	e.events = e.events[:0]
	for _, r := range refs {
		if r.Offset-lookOff < 0 || r.Offset-lookOff+lookLen > n {
			continue
		}
		maxAt, maxV := maxOverWindow(e.energy, r.Offset, lookLen, lookOff)
		e.events = append(e.events, extendedEvent{
			refOffset: r.Offset,
			offset:    maxAt,
			change:    maxAt - r.Offset,
			energy:    maxV,
		})
	}

	sort.Slice(e.events, func(i, j int) bool { return e.events[i].offset < e.events[j].offset })
}

// truncateMiddlemost keeps at most limit reference events, taking the
// middlemost element first and then alternating outward, matching the
// original's set_ref_ev truncation for oversized inputs.
func truncateMiddlemost(refs []trigger.Event, limit int) []trigger.Event {
	if len(refs) < limit {
		return refs
	}

	center := len(refs) / 2
	out := make([]trigger.Event, 0, limit)
	out = append(out, refs[center])
	for i := 1; len(out) < limit && (center-i >= 0 || center+i < len(refs)); i++ {
		if len(out) < limit && center-i >= 0 {
			out = append(out, refs[center-i])
		}
		if len(out) < limit && center+i < len(refs) {
			out = append(out, refs[center+i])
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Offset < out[j].Offset })
	return out
}

// CalcCorrelations runs §4.2.2 through §4.2.6: computes every extended
// event's correlation signal, scores templates against correlationLimit,
// and forms clusters in descending score order, disambiguating a
// second cluster into S1/S2 when it plausibly pairs with the primary.
func (e *Engine) CalcCorrelations(correlationLimit float64) error {
	e.corrLenSamples = secondsToSamples(e.cfg.CorrelationLenSeconds, e.sampleFreq)
	e.corrOffSamples = secondsToSamples(e.cfg.CorrelationOffsetSeconds, e.sampleFreq)

	defer e.releaseCorrelationSignals()

	if len(e.events) == 0 {
		return nil
	}

	calculateCorrelations(e.events, e.filtered, e.corrOffSamples, e.corrLenSamples)

	candidates := scoreTemplates(e.events, e.cfg, e.sampleFreq, correlationLimit)
	if len(candidates) == 0 {
		return nil
	}

	best := candidates[0]
	e.events[best].assigned = true

	var clusters []Cluster
	for _, idx := range candidates {
		if idx != best && e.events[idx].assigned {
			continue
		}

		cluster, err := formCluster(e.events, idx, e.cfg, e.sampleFreq, e.energy, e.corrLenSamples)
		if err != nil {
			continue
		}

		if len(clusters) == 0 {
			clusters = append(clusters, cluster)
			e.ev = cluster
			continue
		}

		if e.tryPair(clusters, cluster) {
			clusters = append(clusters, cluster)
			break
		}
	}

	return nil
}

// tryPair implements §4.2.5: accepts cluster as a sibling of the
// primary (e.ev) when its minimum pairwise offset distance to any
// existing cluster is plausible, labels S1/S2 by the sign of that
// distance, and purges S1 events whose successor leaks a mislabeled S2.
func (e *Engine) tryPair(existing []Cluster, cluster Cluster) bool {
	distance := minPairwiseDistance(existing, cluster)

	rr := minSuccessiveOffset(e.ev)

	minDist := int(e.cfg.S1S2MinDistanceSeconds * e.sampleFreq)
	maxDist := int(e.cfg.S1S2MaxDistanceSeconds * e.sampleFreq)

	absDistance := distance
	if absDistance < 0 {
		absDistance = -absDistance
	}

	if absDistance < minDist {
		return false // too close to existing, skip
	}
	if absDistance > maxDist || float64(absDistance) > e.cfg.S1S2MaxRRFraction*float64(rr) {
		return false // too far to existing, skip
	}

	var s1, s2 Cluster
	if distance > 0 {
		s1, s2 = existing[0], cluster
	} else {
		s1, s2 = cluster, existing[0]
	}

	if absDistance < int(e.sampleFreq) {
		s1 = purgeS1(s1, distance, e.cfg.S1PurgeRRFraction)
	}

	e.s1, e.s2 = s1, s2
	e.paired = true
	return true
}

// minPairwiseDistance returns the signed offset difference with the
// smallest absolute value between any event in any already-kept cluster
// and any event in candidate.
func minPairwiseDistance(existing []Cluster, candidate Cluster) int {
	best := 0
	haveBest := false
	for _, c := range existing {
		for _, a := range c {
			for _, b := range candidate {
				d := b.Offset - a.Offset
				ad := d
				if ad < 0 {
					ad = -ad
				}
				if !haveBest || ad < absInt(best) {
					best = d
					haveBest = true
				}
			}
		}
	}
	return best
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// minSuccessiveOffset returns the minimum successive offset difference
// within c (the RR estimate).
func minSuccessiveOffset(c Cluster) int {
	if len(c) < 2 {
		return 1 << 30
	}
	best := c[1].Offset - c[0].Offset
	for i := 2; i < len(c); i++ {
		d := c[i].Offset - c[i-1].Offset
		if d < best {
			best = d
		}
	}
	return best
}

// purgeS1 drops any S1 event whose interval to the last kept event
// before it is closer than purgeFraction*distance, replicating the
// original's erase-while-iterating control flow: the first event is
// never checked (it has no predecessor yet), and a dropped event never
// becomes the comparison anchor for the events after it.
func purgeS1(s1 Cluster, distance int, purgeFraction float64) Cluster {
	if len(s1) == 0 {
		return s1
	}

	out := make(Cluster, 0, len(s1))
	out = append(out, s1[0])
	prev := s1[0]

	for i := 1; i < len(s1); i++ {
		cur := s1[i]
		rr := cur.Offset - prev.Offset
		if float64(rr) < purgeFraction*float64(distance) {
			// purged: cur is dropped, prev stays the comparison anchor
			continue
		}
		out = append(out, cur)
		prev = cur
	}
	return out
}

func (e *Engine) releaseCorrelationSignals() {
	for i := range e.events {
		e.events[i].signal = nil
	}
}

// Events returns the primary ("ev") cluster.
func (e *Engine) Events() Cluster {
	return e.ev
}

// S1Events returns the S1 cluster, or ErrUnpaired if disambiguation
// didn't succeed.
func (e *Engine) S1Events() (Cluster, error) {
	if !e.paired {
		return nil, ErrUnpaired
	}
	return e.s1, nil
}

// S2Events returns the S2 cluster, or ErrUnpaired if disambiguation
// didn't succeed.
func (e *Engine) S2Events() (Cluster, error) {
	if !e.paired {
		return nil, ErrUnpaired
	}
	return e.s2, nil
}

// Paired reports whether disambiguation produced S1/S2 clusters.
func (e *Engine) Paired() bool {
	return e.paired
}
