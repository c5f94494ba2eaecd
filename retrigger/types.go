// Package retrigger implements the energy-and-correlation retrigger
// engine: it takes crude reference events and a filtered waveform and
// refines them into one or two clusters of mutually self-similar events
// (a single "ev" cluster, or a disambiguated "s1"/"s2" pair).
package retrigger

import "fmt"

// RetrigEvent is a refined event: an offset, its average self/peer
// correlation p, and the energy signal's value at that offset.
type RetrigEvent struct {
	Offset        int
	P             float64
	NominalEnergy float64
}

// Cluster is an ordered sequence of retrig events, strictly increasing
// by offset.
type Cluster []RetrigEvent

// correlation is an extended event's peer-correlation bookkeeping: its
// template-to-template offset delta relative to the cluster trunk, and
// the correlation value at that delta (both populated during
// form-cluster, zero beforehand).
type correlation struct {
	offset int
	p      float64
}

// extendedEvent is a working record combining a crude reference event
// with its refined offset, energy, correlation signal, and clustering
// scratch. Extended events live in one contiguous arena
// (engine.events); cluster stacks are expressed as indices into that
// arena rather than pointers, so there is no cyclic reference graph to
// manage lifetimes for.
type extendedEvent struct {
	refOffset int // the originating crude reference event's offset
	offset    int // refined offset: argmax of E within the lookaround window
	change    int // offset - refOffset
	energy    float64

	signal []float64 // length-N correlation signal; released after clustering

	p        float64 // average self/peer correlation once scored
	assigned bool
	stack    []int // indices into engine.events of accepted peers
	corr     correlation
}

// ErrUnpaired is returned by S1Events/S2Events when the engine produced
// only a single primary cluster.
var ErrUnpaired = fmt.Errorf("retrigger: no paired s1/s2 clusters available")

// errClusterInfeasible is the recoverable condition raised by
// form-cluster when fewer than Config.MinClusterSize events survive
// threshold descent down to Config.ThresholdFloor; callers skip the
// candidate template and continue with the next.
var errClusterInfeasible = fmt.Errorf("retrigger: cluster formation infeasible")
