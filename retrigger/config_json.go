package retrigger

import (
	"encoding/json"
	"fmt"
	"os"
)

// ConfigFile is the JSON schema for overriding retrigger Config
// fields; every field is optional, so a file only needs to name the
// tunables it wants to change.
type ConfigFile struct {
	RefEvLimit *int `json:"ref_ev_limit"`

	LookaroundLenSeconds    *float64 `json:"lookaround_len_seconds"`
	LookaroundOffsetSeconds *float64 `json:"lookaround_offset_seconds"`

	CorrelationLenSeconds    *float64 `json:"correlation_len_seconds"`
	CorrelationOffsetSeconds *float64 `json:"correlation_offset_seconds"`

	ThresholdStart *float64 `json:"threshold_start"`
	ThresholdFloor *float64 `json:"threshold_floor"`
	ThresholdStep  *float64 `json:"threshold_step"`

	PeakRelocationMin *float64 `json:"peak_relocation_min"`

	MergeJitterSamples *int `json:"merge_jitter_samples"`
	MinClusterSize     *int `json:"min_cluster_size"`

	S1S2MinDistanceSeconds *float64 `json:"s1s2_min_distance_seconds"`
	S1S2MaxDistanceSeconds *float64 `json:"s1s2_max_distance_seconds"`
	S1S2MaxRRFraction      *float64 `json:"s1s2_max_rr_fraction"`

	S1PurgeRRFraction *float64 `json:"s1_purge_rr_fraction"`

	BandpassLowHz         *float64 `json:"bandpass_low_hz"`
	BandpassHighHz        *float64 `json:"bandpass_high_hz"`
	BandpassRipplePercent *float64 `json:"bandpass_ripple_percent"`
	BandpassPoles         *int     `json:"bandpass_poles"`

	EnergyWindowFraction *float64 `json:"energy_window_fraction"`
}

// ApplyFile applies a parsed ConfigFile onto an existing Config,
// leaving fields the file omits untouched.
func ApplyFile(dst *Config, f *ConfigFile) error {
	if dst == nil {
		return fmt.Errorf("retrigger: nil destination config")
	}
	if f == nil {
		return nil
	}

	if f.RefEvLimit != nil {
		if *f.RefEvLimit <= 0 {
			return fmt.Errorf("ref_ev_limit must be > 0")
		}
		dst.RefEvLimit = *f.RefEvLimit
	}
	if f.LookaroundLenSeconds != nil {
		if *f.LookaroundLenSeconds <= 0 {
			return fmt.Errorf("lookaround_len_seconds must be > 0")
		}
		dst.LookaroundLenSeconds = *f.LookaroundLenSeconds
	}
	if f.LookaroundOffsetSeconds != nil {
		if *f.LookaroundOffsetSeconds < 0 {
			return fmt.Errorf("lookaround_offset_seconds must be >= 0")
		}
		dst.LookaroundOffsetSeconds = *f.LookaroundOffsetSeconds
	}
	if f.CorrelationLenSeconds != nil {
		if *f.CorrelationLenSeconds <= 0 {
			return fmt.Errorf("correlation_len_seconds must be > 0")
		}
		dst.CorrelationLenSeconds = *f.CorrelationLenSeconds
	}
	if f.CorrelationOffsetSeconds != nil {
		if *f.CorrelationOffsetSeconds < 0 {
			return fmt.Errorf("correlation_offset_seconds must be >= 0")
		}
		dst.CorrelationOffsetSeconds = *f.CorrelationOffsetSeconds
	}
	if f.ThresholdStart != nil {
		if *f.ThresholdStart <= 0 || *f.ThresholdStart > 1 {
			return fmt.Errorf("threshold_start must be in (0,1]")
		}
		dst.ThresholdStart = *f.ThresholdStart
	}
	if f.ThresholdFloor != nil {
		if *f.ThresholdFloor < 0 || *f.ThresholdFloor > 1 {
			return fmt.Errorf("threshold_floor must be in [0,1]")
		}
		dst.ThresholdFloor = *f.ThresholdFloor
	}
	if f.ThresholdStep != nil {
		if *f.ThresholdStep <= 0 {
			return fmt.Errorf("threshold_step must be > 0")
		}
		dst.ThresholdStep = *f.ThresholdStep
	}
	if f.PeakRelocationMin != nil {
		if *f.PeakRelocationMin < 0 || *f.PeakRelocationMin > 1 {
			return fmt.Errorf("peak_relocation_min must be in [0,1]")
		}
		dst.PeakRelocationMin = *f.PeakRelocationMin
	}
	if f.MergeJitterSamples != nil {
		if *f.MergeJitterSamples < 0 {
			return fmt.Errorf("merge_jitter_samples must be >= 0")
		}
		dst.MergeJitterSamples = *f.MergeJitterSamples
	}
	if f.MinClusterSize != nil {
		if *f.MinClusterSize < 1 {
			return fmt.Errorf("min_cluster_size must be >= 1")
		}
		dst.MinClusterSize = *f.MinClusterSize
	}
	if f.S1S2MinDistanceSeconds != nil {
		if *f.S1S2MinDistanceSeconds < 0 {
			return fmt.Errorf("s1s2_min_distance_seconds must be >= 0")
		}
		dst.S1S2MinDistanceSeconds = *f.S1S2MinDistanceSeconds
	}
	if f.S1S2MaxDistanceSeconds != nil {
		if *f.S1S2MaxDistanceSeconds <= 0 {
			return fmt.Errorf("s1s2_max_distance_seconds must be > 0")
		}
		dst.S1S2MaxDistanceSeconds = *f.S1S2MaxDistanceSeconds
	}
	if f.S1S2MaxRRFraction != nil {
		if *f.S1S2MaxRRFraction <= 0 {
			return fmt.Errorf("s1s2_max_rr_fraction must be > 0")
		}
		dst.S1S2MaxRRFraction = *f.S1S2MaxRRFraction
	}
	if f.S1PurgeRRFraction != nil {
		if *f.S1PurgeRRFraction <= 0 {
			return fmt.Errorf("s1_purge_rr_fraction must be > 0")
		}
		dst.S1PurgeRRFraction = *f.S1PurgeRRFraction
	}
	if f.BandpassLowHz != nil {
		if *f.BandpassLowHz < 0 {
			return fmt.Errorf("bandpass_low_hz must be >= 0")
		}
		dst.BandpassLowHz = *f.BandpassLowHz
	}
	if f.BandpassHighHz != nil {
		if *f.BandpassHighHz <= 0 {
			return fmt.Errorf("bandpass_high_hz must be > 0")
		}
		dst.BandpassHighHz = *f.BandpassHighHz
	}
	if f.BandpassRipplePercent != nil {
		if *f.BandpassRipplePercent < 0 {
			return fmt.Errorf("bandpass_ripple_percent must be >= 0")
		}
		dst.BandpassRipplePercent = *f.BandpassRipplePercent
	}
	if f.BandpassPoles != nil {
		if *f.BandpassPoles < 1 {
			return fmt.Errorf("bandpass_poles must be >= 1")
		}
		dst.BandpassPoles = *f.BandpassPoles
	}
	if f.EnergyWindowFraction != nil {
		if *f.EnergyWindowFraction <= 0 {
			return fmt.Errorf("energy_window_fraction must be > 0")
		}
		dst.EnergyWindowFraction = *f.EnergyWindowFraction
	}

	if dst.BandpassHighHz <= dst.BandpassLowHz {
		return fmt.Errorf("bandpass_high_hz must be greater than bandpass_low_hz")
	}
	return nil
}

// LoadJSON reads a JSON file at path and applies its overrides on top
// of cfg, returning the resulting Config. cfg is typically
// DefaultConfig(); the file need only name the tunables it changes.
func (cfg Config) LoadJSON(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	var f ConfigFile
	if err := json.Unmarshal(b, &f); err != nil {
		return cfg, err
	}
	if err := ApplyFile(&cfg, &f); err != nil {
		return cfg, err
	}
	return cfg, nil
}
