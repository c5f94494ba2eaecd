// Package markers evaluates named scalar acoustic features from a
// filtered waveform conditioned on the S1/S2 event clusters the
// retrigger engine produces.
package markers

import (
	"fmt"
	"strconv"
	"strings"
)

// What is the statistic composition a marker applies to its primary
// reduction.
type What int

const (
	WhatAbs What = iota
	WhatRel
	WhatCorr
	WhatRelCorr
	WhatNorm
	WhatDur
	WhatWidth
	WhatExt
)

func (w What) String() string {
	switch w {
	case WhatAbs:
		return "abs"
	case WhatRel:
		return "rel"
	case WhatCorr:
		return "corr"
	case WhatRelCorr:
		return "relcorr"
	case WhatNorm:
		return "norm"
	case WhatDur:
		return "dur"
	case WhatWidth:
		return "width"
	case WhatExt:
		return "ext"
	default:
		return "?"
	}
}

// Where is the temporal region a marker's reduction is evaluated over.
type Where int

const (
	WhereS1 Where = iota
	WhereS2
	WhereS
	WhereS1S2
	WhereS2S1
	WhereSS
	WhereBase
	WhereQ1
	WhereQ2
	WhereQ3
	WhereQ5
	WhereQ6
	WhereUntrigged
	WhereNone
)

func (w Where) String() string {
	switch w {
	case WhereS1:
		return "s1"
	case WhereS2:
		return "s2"
	case WhereS:
		return "s"
	case WhereS1S2:
		return "s1s2"
	case WhereS2S1:
		return "s2s1"
	case WhereSS:
		return "ss"
	case WhereBase:
		return "base"
	case WhereQ1:
		return "q1"
	case WhereQ2:
		return "q2"
	case WhereQ3:
		return "q3"
	case WhereQ5:
		return "q5"
	case WhereQ6:
		return "q6"
	case WhereUntrigged:
		return "untrigged"
	case WhereNone:
		return "-"
	default:
		return "?"
	}
}

// How is the reduction mode: the full-window median standard deviation,
// or a moving-standard-deviation min/max/peak-to-peak.
type How int

const (
	HowAll How = iota
	HowMin
	HowMax
	HowMinMax
)

func (h How) String() string {
	switch h {
	case HowAll:
		return "all"
	case HowMin:
		return "min"
	case HowMax:
		return "max"
	case HowMinMax:
		return "minmax"
	default:
		return "?"
	}
}

// Spec is a marker name parsed into its structured six-field form:
// what_where_to_how_f_lo_f_hi.
type Spec struct {
	Name string

	What  What
	Where Where
	// To is the normalization target: either another marker's Where
	// region name (rel/relcorr) or a numeric percentage level
	// (width). Kept as raw text; callers interpret it per What.
	To   string
	How  How
	FLo  float64
	FHi  float64 // FHi <= 0 means "no filter"
}

// Parse decodes a marker name into a Spec. It mirrors the original's
// sscanf("%[^_]_%[^_]_%[^_]_%[^_]_%lf_%lf") contract but fails fast and
// names the unrecognized field instead of silently leaving it zero.
func Parse(name string) (Spec, error) {
	parts := strings.SplitN(name, "_", 6)
	if len(parts) != 6 {
		return Spec{}, fmt.Errorf("markers: %q: expected 6 underscore-joined fields, got %d", name, len(parts))
	}

	what, err := parseWhat(parts[0])
	if err != nil {
		return Spec{}, fmt.Errorf("markers: %q: %w", name, err)
	}
	where, err := parseWhere(parts[1])
	if err != nil {
		return Spec{}, fmt.Errorf("markers: %q: %w", name, err)
	}
	how, err := parseHow(parts[3])
	if err != nil {
		return Spec{}, fmt.Errorf("markers: %q: %w", name, err)
	}
	fLo, err := strconv.ParseFloat(parts[4], 64)
	if err != nil {
		return Spec{}, fmt.Errorf("markers: %q: bad f_lo %q: %w", name, parts[4], err)
	}
	fHi, err := strconv.ParseFloat(parts[5], 64)
	if err != nil {
		return Spec{}, fmt.Errorf("markers: %q: bad f_hi %q: %w", name, parts[5], err)
	}

	return Spec{
		Name:  name,
		What:  what,
		Where: where,
		To:    parts[2],
		How:   how,
		FLo:   fLo,
		FHi:   fHi,
	}, nil
}

func parseWhat(s string) (What, error) {
	switch s {
	case "abs":
		return WhatAbs, nil
	case "rel":
		return WhatRel, nil
	case "corr":
		return WhatCorr, nil
	case "relcorr":
		return WhatRelCorr, nil
	case "norm":
		return WhatNorm, nil
	case "dur":
		return WhatDur, nil
	case "width":
		return WhatWidth, nil
	case "ext":
		return WhatExt, nil
	default:
		return 0, fmt.Errorf("unknown what %q", s)
	}
}

func parseWhere(s string) (Where, error) {
	switch s {
	case "s1":
		return WhereS1, nil
	case "s2":
		return WhereS2, nil
	case "s":
		return WhereS, nil
	case "s1s2":
		return WhereS1S2, nil
	case "s2s1":
		return WhereS2S1, nil
	case "ss":
		return WhereSS, nil
	case "base":
		return WhereBase, nil
	case "q1":
		return WhereQ1, nil
	case "q2":
		return WhereQ2, nil
	case "q3":
		return WhereQ3, nil
	case "q5":
		return WhereQ5, nil
	case "q6":
		return WhereQ6, nil
	case "untrigged":
		return WhereUntrigged, nil
	case "-":
		return WhereNone, nil
	default:
		return 0, fmt.Errorf("unknown where %q", s)
	}
}

func parseHow(s string) (How, error) {
	switch s {
	case "all":
		return HowAll, nil
	case "min":
		return HowMin, nil
	case "max":
		return HowMax, nil
	case "minmax":
		return HowMinMax, nil
	default:
		return 0, fmt.Errorf("unknown how %q", s)
	}
}
