package markers

import (
	"encoding/json"
	"fmt"
	"os"
)

// ConfigFile is the JSON schema for overriding marker Config fields;
// every field is optional, so a file only needs to name the tunables
// it wants to change.
type ConfigFile struct {
	SStart          *float64 `json:"s_start"`
	SEnd            *float64 `json:"s_end"`
	Margin          *float64 `json:"margin"`
	MovingStdLen    *float64 `json:"moving_std_len"`
	DefaultRR       *float64 `json:"default_rr"`
	DefaultS1S2Dur  *float64 `json:"default_s1s2_dur"`
	UntriggedWinLen *float64 `json:"untrigged_win_len"`
	IgnoreFromStart *float64 `json:"ignore_from_start"`

	BandpassRipplePercent *float64 `json:"bandpass_ripple_percent"`
	BandpassPoles         *int     `json:"bandpass_poles"`
}

// ApplyFile applies a parsed ConfigFile onto an existing Config,
// leaving fields the file omits untouched.
func ApplyFile(dst *Config, f *ConfigFile) error {
	if dst == nil {
		return fmt.Errorf("markers: nil destination config")
	}
	if f == nil {
		return nil
	}

	if f.SStart != nil {
		dst.SStart = *f.SStart
	}
	if f.SEnd != nil {
		dst.SEnd = *f.SEnd
	}
	if f.Margin != nil {
		if *f.Margin < 0 {
			return fmt.Errorf("margin must be >= 0")
		}
		dst.Margin = *f.Margin
	}
	if f.MovingStdLen != nil {
		if *f.MovingStdLen <= 0 {
			return fmt.Errorf("moving_std_len must be > 0")
		}
		dst.MovingStdLen = *f.MovingStdLen
	}
	if f.DefaultRR != nil {
		if *f.DefaultRR <= 0 {
			return fmt.Errorf("default_rr must be > 0")
		}
		dst.DefaultRR = *f.DefaultRR
	}
	if f.DefaultS1S2Dur != nil {
		if *f.DefaultS1S2Dur <= 0 {
			return fmt.Errorf("default_s1s2_dur must be > 0")
		}
		dst.DefaultS1S2Dur = *f.DefaultS1S2Dur
	}
	if f.UntriggedWinLen != nil {
		if *f.UntriggedWinLen <= 0 {
			return fmt.Errorf("untrigged_win_len must be > 0")
		}
		dst.UntriggedWinLen = *f.UntriggedWinLen
	}
	if f.IgnoreFromStart != nil {
		if *f.IgnoreFromStart < 0 {
			return fmt.Errorf("ignore_from_start must be >= 0")
		}
		dst.IgnoreFromStart = *f.IgnoreFromStart
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
	if dst.SEnd <= dst.SStart {
		return fmt.Errorf("s_end must be greater than s_start")
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
