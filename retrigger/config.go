package retrigger

// Config collects the retrigger engine's tunable constants. Defaults
// match the literal values the original implementation hardcodes;
// overriding them is mainly useful for tests exercising edge cases at
// smaller scales, or in the field via LoadJSON.
type Config struct {
	// RefEvLimit caps the number of crude reference events the engine
	// will ingest; excess events are truncated to the middlemost
	// RefEvLimit and re-sorted by offset.
	RefEvLimit int `json:"ref_ev_limit"`

	// LookaroundLenSeconds/LookaroundOffsetSeconds define the window
	// used to refine a crude reference event's offset to the nearest
	// energy peak, and later to re-locate a template's correlation
	// peak against a trunk event.
	LookaroundLenSeconds    float64 `json:"lookaround_len_seconds"`
	LookaroundOffsetSeconds float64 `json:"lookaround_offset_seconds"`

	// CorrelationLenSeconds/CorrelationOffsetSeconds define the window
	// each extended event's correlation signal is evaluated and merged
	// over.
	CorrelationLenSeconds    float64 `json:"correlation_len_seconds"`
	CorrelationOffsetSeconds float64 `json:"correlation_offset_seconds"`

	// ThresholdStart/ThresholdFloor/ThresholdStep describe the
	// peak-sharpening threshold descent in form-cluster: start at
	// ThresholdStart, step down by ThresholdStep until at least
	// MinClusterSize events emerge or ThresholdFloor is passed.
	ThresholdStart float64 `json:"threshold_start"`
	ThresholdFloor float64 `json:"threshold_floor"`
	ThresholdStep  float64 `json:"threshold_step"`

	// PeakRelocationMin is the minimum correlation accepted when
	// re-locating a stack member's peak against the trunk offset.
	PeakRelocationMin float64 `json:"peak_relocation_min"`

	// MergeJitterSamples merges raw events within this many samples of
	// each other into a single averaged event.
	MergeJitterSamples int `json:"merge_jitter_samples"`

	// MinClusterSize is the minimum number of accepted peers (not
	// counting the template itself) required for a template to be
	// eligible as a cluster center, and the minimum number of events
	// form-cluster must produce.
	MinClusterSize int `json:"min_cluster_size"`

	// S1S2MinDistanceSeconds/S1S2MaxDistanceSeconds bound the plausible
	// separation between a primary cluster and its candidate sibling.
	S1S2MinDistanceSeconds float64 `json:"s1s2_min_distance_seconds"`
	S1S2MaxDistanceSeconds float64 `json:"s1s2_max_distance_seconds"`

	// S1S2MaxRRFraction bounds the sibling distance relative to the
	// primary cluster's own minimum inter-event interval.
	S1S2MaxRRFraction float64 `json:"s1s2_max_rr_fraction"`

	// S1PurgeRRFraction: an S1 event is purged when it lies closer to
	// the last kept S1 event before it than this multiple of the S1/S2
	// distance.
	S1PurgeRRFraction float64 `json:"s1_purge_rr_fraction"`

	// BandpassLowHz/BandpassHighHz/BandpassRipplePercent/BandpassPoles
	// parameterize the fixed 10-500 Hz bandpass applied before energy
	// estimation.
	BandpassLowHz         float64 `json:"bandpass_low_hz"`
	BandpassHighHz        float64 `json:"bandpass_high_hz"`
	BandpassRipplePercent float64 `json:"bandpass_ripple_percent"`
	BandpassPoles         int     `json:"bandpass_poles"`

	// EnergyWindowFraction is the Blackman smoothing window length, in
	// fractions of a second, used by the energy estimator.
	EnergyWindowFraction float64 `json:"energy_window_fraction"`
}

// DefaultConfig returns the engine's literal default tunables.
func DefaultConfig() Config {
	return Config{
		RefEvLimit: 100,

		LookaroundLenSeconds:    0.05,
		LookaroundOffsetSeconds: 0.025,

		CorrelationLenSeconds:    0.4,
		CorrelationOffsetSeconds: 0.2,

		ThresholdStart: 0.95,
		ThresholdFloor: 0.80,
		ThresholdStep:  0.025,

		PeakRelocationMin: 0.6,

		MergeJitterSamples: 100,
		MinClusterSize:     3,

		S1S2MinDistanceSeconds: 0.2,
		S1S2MaxDistanceSeconds: 0.5,
		S1S2MaxRRFraction:      0.8,

		S1PurgeRRFraction: 1.25,

		BandpassLowHz:         10.0,
		BandpassHighHz:        500.0,
		BandpassRipplePercent: 0.5,
		BandpassPoles:         4,

		EnergyWindowFraction: 0.25,
	}
}
