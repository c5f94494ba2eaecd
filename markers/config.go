package markers

// Config collects the marker engine's region-window tunables (§4.3.1).
// Defaults match the original's literal constants; overriding them in
// the field goes through LoadJSON.
type Config struct {
	SStart          float64 `json:"s_start"`           // S_start, seconds
	SEnd            float64 `json:"s_end"`             // S_end, seconds
	Margin          float64 `json:"margin"`            // M, seconds
	MovingStdLen    float64 `json:"moving_std_len"`    // moving-std window, seconds
	DefaultRR       float64 `json:"default_rr"`        // RR_default, seconds
	DefaultS1S2Dur  float64 `json:"default_s1s2_dur"`  // S1S2_default, seconds
	UntriggedWinLen float64 `json:"untrigged_win_len"` // untrigged stride, seconds
	IgnoreFromStart float64 `json:"ignore_from_start"` // untrigged lead-in, seconds

	BandpassRipplePercent float64 `json:"bandpass_ripple_percent"`
	BandpassPoles         int     `json:"bandpass_poles"`
}

// DefaultConfig returns the marker engine's literal default tunables.
func DefaultConfig() Config {
	return Config{
		SStart:          -0.100,
		SEnd:            0.100,
		Margin:          0.050,
		MovingStdLen:    0.100,
		DefaultRR:       0.800,
		DefaultS1S2Dur:  0.400,
		UntriggedWinLen: 3.0,
		IgnoreFromStart: 1.0,

		BandpassRipplePercent: 0.5,
		BandpassPoles:         4,
	}
}
