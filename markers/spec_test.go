package markers

import "testing"

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		what  What
		where Where
		to    string
		how   How
		fLo   float64
		fHi   float64
	}{
		{"abs_s1_-_all_0_0", WhatAbs, WhereS1, "-", HowAll, 0, 0},
		{"rel_s2_base_all_30_90", WhatRel, WhereS2, "base", HowAll, 30, 90},
		{"norm_s1s2_-_min_0_0", WhatNorm, WhereS1S2, "-", HowMin, 0, 0},
		{"dur_s1s2_-_all_0_0", WhatDur, WhereS1S2, "-", HowAll, 0, 0},
		{"width_s1_50_all_0_0", WhatWidth, WhereS1, "50", HowAll, 0, 0},
		{"corr_s_-_max_20_100", WhatCorr, WhereS, "-", HowMax, 20, 100},
		{"relcorr_ss_s1_minmax_0_0", WhatRelCorr, WhereSS, "s1", HowMinMax, 0, 0},
		{"abs_untrigged_-_min_0_0", WhatAbs, WhereUntrigged, "-", HowMin, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Parse(tt.name)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.name, err)
			}
			if spec.What != tt.what {
				t.Errorf("What = %v, want %v", spec.What, tt.what)
			}
			if spec.Where != tt.where {
				t.Errorf("Where = %v, want %v", spec.Where, tt.where)
			}
			if spec.To != tt.to {
				t.Errorf("To = %q, want %q", spec.To, tt.to)
			}
			if spec.How != tt.how {
				t.Errorf("How = %v, want %v", spec.How, tt.how)
			}
			if spec.FLo != tt.fLo || spec.FHi != tt.fHi {
				t.Errorf("FLo/FHi = %v/%v, want %v/%v", spec.FLo, spec.FHi, tt.fLo, tt.fHi)
			}
		})
	}
}

func TestParseRejectsMalformedNames(t *testing.T) {
	bad := []string{
		"",
		"abs_s1_-_all_0",              // too few fields
		"bogus_s1_-_all_0_0",          // unknown what
		"abs_bogus_-_all_0_0",         // unknown where
		"abs_s1_-_bogus_0_0",          // unknown how
		"abs_s1_-_all_notanumber_0",   // bad f_lo
		"abs_s1_-_all_0_notanumber",   // bad f_hi
	}
	for _, name := range bad {
		if _, err := Parse(name); err == nil {
			t.Errorf("Parse(%q): expected error, got nil", name)
		}
	}
}

func TestWhatWhereHowString(t *testing.T) {
	if got := WhatAbs.String(); got != "abs" {
		t.Errorf("WhatAbs.String() = %q", got)
	}
	if got := WhereUntrigged.String(); got != "untrigged" {
		t.Errorf("WhereUntrigged.String() = %q", got)
	}
	if got := HowMinMax.String(); got != "minmax" {
		t.Errorf("HowMinMax.String() = %q", got)
	}
	if got := What(99).String(); got != "?" {
		t.Errorf("unknown What.String() = %q, want \"?\"", got)
	}
}
