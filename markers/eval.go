package markers

import (
	"fmt"
	"log"
	"strconv"

	"github.com/sonolab/phonotrig/internal/filterbank"
	"github.com/sonolab/phonotrig/retrigger"
)

// Context bundles the inputs a marker evaluation needs: the raw
// (unfiltered) signal, the sample rate, the event clusters produced by
// the retrigger engine, and region-window tunables. SourcePath, when
// non-empty, keys the bandpass filter coefficient cache.
type Context struct {
	Raw        []float64
	SampleFreq float64
	S1, S2     retrigger.Cluster
	Cfg        Config
	SourcePath string

	bandpassCache map[[2]float64][]float64
}

// Evaluate computes the named marker's scalar value against ctx,
// mirroring the original's create_named/get_named_value dispatch but
// working from a pre-parsed Spec instead of repeated sscanf/strcmp.
func (ctx *Context) Evaluate(name string) (float64, error) {
	spec, err := Parse(name)
	if err != nil {
		return 0, err
	}
	return ctx.evaluate(spec)
}

func (ctx *Context) evaluate(spec Spec) (float64, error) {
	filtered, err := ctx.filtered(spec.FLo, spec.FHi)
	if err != nil {
		return 0, fmt.Errorf("markers: %s: %w", spec.Name, err)
	}

	switch spec.What {
	case WhatAbs:
		return ctx.reduce(spec.Where, spec.How, filtered)

	case WhatRel:
		primary, err := ctx.reduce(spec.Where, spec.How, filtered)
		if err != nil {
			return 0, err
		}
		return ctx.divideByNamed(spec, primary, filtered)

	case WhatCorr:
		primary, err := ctx.reduce(spec.Where, spec.How, filtered)
		if err != nil {
			return 0, err
		}
		base, err := ctx.reduce(WhereBase, HowAll, filtered)
		if err != nil {
			return 0, err
		}
		return primary - base, nil

	case WhatRelCorr:
		primary, err := ctx.reduce(spec.Where, spec.How, filtered)
		if err != nil {
			return 0, err
		}
		base, err := ctx.reduce(WhereBase, HowAll, filtered)
		if err != nil {
			return 0, err
		}
		return ctx.divideByNamed(spec, primary-base, filtered)

	case WhatNorm:
		primaryFiltered, err := ctx.reduce(spec.Where, spec.How, filtered)
		if err != nil {
			return 0, err
		}
		primaryRaw, err := ctx.reduce(spec.Where, spec.How, ctx.Raw)
		if err != nil {
			return 0, err
		}
		if primaryRaw == 0.0 {
			log.Printf("phonotrig: markers: dividing by zero defining %s", spec.Name)
			return primaryFiltered * 1e10, nil
		}
		return primaryFiltered / primaryRaw, nil

	case WhatDur:
		switch spec.Where {
		case WhereS1S2:
			return s1s2Duration(ctx.S1, ctx.S2, ctx.SampleFreq, ctx.Cfg), nil
		case WhereSS:
			return ssDuration(ctx.S1, ctx.SampleFreq, ctx.Cfg), nil
		default:
			return 0, fmt.Errorf("markers: %s: dur is defined only for s1s2 or ss", spec.Name)
		}

	case WhatWidth:
		return ctx.width(spec, filtered)

	case WhatExt:
		return 0, fmt.Errorf("markers: %s: external markers are not implemented", spec.Name)

	default:
		return 0, fmt.Errorf("markers: %s: unsupported what", spec.Name)
	}
}

// divideByNamed evaluates spec.To as a region name (how=all) and
// divides numerator by it, substituting 1e10*numerator on division by
// zero (a logged, non-fatal condition per §4.3).
func (ctx *Context) divideByNamed(spec Spec, numerator float64, filtered []float64) (float64, error) {
	toWhere, err := parseWhere(spec.To)
	if err != nil {
		return 0, fmt.Errorf("markers: %s: bad normalization target %q: %w", spec.Name, spec.To, err)
	}
	denom, err := ctx.reduce(toWhere, HowAll, filtered)
	if err != nil {
		return 0, err
	}
	if denom == 0.0 {
		log.Printf("phonotrig: markers: dividing by zero defining %s", spec.Name)
		return numerator * 1e10, nil
	}
	return numerator / denom, nil
}

// width implements what=width: the median time width of S1/S2 events
// above a percentage level (spec.To) of the median absolute max.
func (ctx *Context) width(spec Spec, filtered []float64) (float64, error) {
	var events retrigger.Cluster
	switch spec.Where {
	case WhereS1, WhereS:
		events = ctx.S1
	case WhereS2:
		events = ctx.S2
	default:
		return 0, fmt.Errorf("markers: %s: width is defined only for s1, s2 and s", spec.Name)
	}

	percLevel, err := strconv.ParseFloat(spec.To, 64)
	if err != nil {
		return 0, fmt.Errorf("markers: %s: bad width level %q: %w", spec.Name, spec.To, err)
	}

	sStart := secSamples(ctx.Cfg.SStart, ctx.SampleFreq)
	sEnd := secSamples(ctx.Cfg.SEnd, ctx.SampleFreq)
	margin := secSamples(ctx.Cfg.Margin, ctx.SampleFreq)

	absmax, ok := eventAbsMax(filtered, events, sStart, sEnd)
	if !ok {
		return 0, fmt.Errorf("markers: %s: empty absmax reduction", spec.Name)
	}
	absmaxMedian, _ := median(absmax)
	limit := percLevel / 100.0 * absmaxMedian

	widths, ok := eventWidth(filtered, events, sStart-margin, sEnd+margin, limit, ctx.SampleFreq)
	if !ok {
		return 0, fmt.Errorf("markers: %s: empty width reduction", spec.Name)
	}
	m, _ := median(widths)
	return m, nil
}

// reduce implements get_named_value: how==all reduces to the median of
// per-event windowed standard deviations; otherwise it reduces a
// length-N moving standard deviation via per-event (or per-window, for
// "untrigged") min/max/peak-to-peak.
func (ctx *Context) reduce(where Where, how How, data []float64) (float64, error) {
	if how == HowAll {
		return ctx.reduceAll(where, data)
	}
	return ctx.reduceMoving(where, how, data)
}

func (ctx *Context) reduceAll(where Where, data []float64) (float64, error) {
	f := ctx.SampleFreq
	cfg := ctx.Cfg

	switch where {
	case WhereS1:
		return ctx.medianStd(data, ctx.S1, cfg.SStart, cfg.SEnd, f, where)
	case WhereS2:
		return ctx.medianStd(data, ctx.S2, cfg.SStart, cfg.SEnd, f, where)
	case WhereS:
		v1, err := ctx.medianStd(data, ctx.S1, cfg.SStart, cfg.SEnd, f, where)
		if err != nil {
			return 0, err
		}
		if ctx.S2 == nil {
			return v1, nil
		}
		v2, err := ctx.medianStd(data, ctx.S2, cfg.SStart, cfg.SEnd, f, where)
		if err != nil {
			return 0, err
		}
		return (v1 + v2) / 2.0, nil
	case WhereS1S2:
		dur := s1s2Duration(ctx.S1, ctx.S2, f, cfg)
		return ctx.medianStd(data, ctx.S1, cfg.SEnd+cfg.Margin, dur-cfg.Margin, f, where)
	case WhereS2S1:
		dur := s1s2Duration(ctx.S1, ctx.S2, f, cfg)
		ss := ssDuration(ctx.S1, f, cfg)
		return ctx.medianStd(data, ctx.S2, -cfg.Margin-ss+dur, -cfg.Margin, f, where)
	case WhereSS:
		ss := ssDuration(ctx.S1, f, cfg)
		return ctx.medianStd(data, ctx.S1, cfg.SEnd+cfg.Margin, ss-cfg.Margin, f, where)
	case WhereBase:
		return ctx.medianStd(data, ctx.S1, -0.125, -0.075, f, where)
	case WhereQ1, WhereQ2, WhereQ3:
		return ctx.quarterMarker(data, ctx.S1, where)
	case WhereQ5, WhereQ6:
		return ctx.quarterMarker(data, ctx.S2, where)
	case WhereNone:
		return 0, nil
	default:
		return 0, fmt.Errorf("unsupported where %q for how=all", where)
	}
}

// quarterMarker computes the base-subtracted median std of the k/4
// fraction of s1s2_dur window around events (q1..q3 anchored at S1,
// q5/q6 anchored at S2).
func (ctx *Context) quarterMarker(data []float64, events retrigger.Cluster, where Where) (float64, error) {
	f := ctx.SampleFreq
	cfg := ctx.Cfg

	baseVal, err := ctx.medianStd(data, ctx.S1, -0.125, -0.075, f, WhereBase)
	if err != nil {
		return 0, err
	}

	dur := s1s2Duration(ctx.S1, ctx.S2, f, cfg)
	var k float64
	switch where {
	case WhereQ1, WhereQ5:
		k = 1
	case WhereQ2, WhereQ6:
		k = 2
	case WhereQ3:
		k = 3
	}

	center := k / 4.0 * dur
	v, err := ctx.medianStd(data, events, center-0.025, center+0.025, f, where)
	if err != nil {
		return 0, err
	}
	return v - baseVal, nil
}

func (ctx *Context) medianStd(data []float64, events retrigger.Cluster, startSeconds, endSeconds, sampleFreq float64, where Where) (float64, error) {
	winStart := int(startSeconds * sampleFreq)
	winEnd := int(endSeconds * sampleFreq)
	stds, ok := eventStds(data, events, winStart, winEnd)
	if !ok {
		return 0, fmt.Errorf("empty std reduction for where=%s", where)
	}
	v, _ := median(stds)
	return v, nil
}

func (ctx *Context) reduceMoving(where Where, how How, data []float64) (float64, error) {
	f := ctx.SampleFreq
	cfg := ctx.Cfg

	stdLen := int(cfg.MovingStdLen * f)
	std := movingStd(data, stdLen)

	var min, max, minMax []float64
	var ok bool

	switch where {
	case WhereS1S2:
		dur := s1s2Duration(ctx.S1, ctx.S2, f, cfg)
		min, max, minMax, ok = eventExtremes(std, ctx.S1, secSamples(cfg.SEnd+cfg.Margin, f), secSamples(dur-cfg.Margin, f))
	case WhereS2S1:
		dur := s1s2Duration(ctx.S1, ctx.S2, f, cfg)
		ss := ssDuration(ctx.S1, f, cfg)
		min, max, minMax, ok = eventExtremes(std, ctx.S2, secSamples(-cfg.Margin-ss+dur, f), secSamples(-cfg.Margin, f))
	case WhereSS:
		ss := ssDuration(ctx.S1, f, cfg)
		min, max, minMax, ok = eventExtremes(std, ctx.S1, secSamples(cfg.SEnd+cfg.Margin, f), secSamples(ss-cfg.Margin, f))
	case WhereUntrigged:
		min, max, minMax = repeatingExtremes(std, secSamples(cfg.IgnoreFromStart, f), secSamples(cfg.UntriggedWinLen, f))
		ok = len(min) > 0
	default:
		return 0, fmt.Errorf("unsupported where %q for how=%s", where, how)
	}

	if !ok {
		return 0, fmt.Errorf("empty extreme-value reduction for where=%s", where)
	}

	var values []float64
	switch how {
	case HowMin:
		values = min
	case HowMax:
		values = max
	case HowMinMax:
		values = minMax
	default:
		return 0, fmt.Errorf("unsupported how %q for where=%s", how, where)
	}
	v, _ := median(values)
	return v, nil
}

func secSamples(seconds, sampleFreq float64) int {
	return int(seconds * sampleFreq)
}

// filtered returns ctx.Raw bandpassed to [fLo, fHi], caching results by
// band within this Context. fHi<=0 means "no filter": the raw signal is
// returned directly.
func (ctx *Context) filtered(fLo, fHi float64) ([]float64, error) {
	if fHi <= 0.0 {
		return ctx.Raw, nil
	}

	if ctx.bandpassCache == nil {
		ctx.bandpassCache = make(map[[2]float64][]float64)
	}
	key := [2]float64{fLo, fHi}
	if cached, ok := ctx.bandpassCache[key]; ok {
		return cached, nil
	}

	out, err := filterbank.Bandpass(ctx.SourcePath, ctx.Raw, fLo, fHi,
		ctx.Cfg.BandpassRipplePercent, ctx.Cfg.BandpassPoles, ctx.SampleFreq)
	if err != nil {
		return nil, err
	}
	ctx.bandpassCache[key] = out
	return out, nil
}
