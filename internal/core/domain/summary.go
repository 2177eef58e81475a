package domain

import (
	"errors"
	"math"
)

// ErrSummaryOutOfRange is returned by callers that refuse to display a summary
// whose fractions overflowed, e.g. a huge intake against a tiny target.
var ErrSummaryOutOfRange = errors.New("intake is too large relative to the target to summarize")

const (
	// MinAxisMax keeps the 100% target line away from the chart edge.
	MinAxisMax = 1.2

	axisStepsPerUnit = 10
	axisEps          = 1e-9
)

// SegmentSet holds the stacked-bar portions for one nutrient. Percentages are
// fractions of the target; absolute values are in the nutrient's unit.
type SegmentSet struct {
	Nutrient      Nutrient `json:"nutrient"`
	PriorPct      float64  `json:"prior_pct"`
	CurrentPct    float64  `json:"current_pct"`
	RemainingPct  float64  `json:"remaining_pct"`
	CumulativePct float64  `json:"cumulative_pct"`
	PriorAbs      float64  `json:"prior"`
	CurrentAbs    float64  `json:"current"`
	RemainingAbs  float64  `json:"remaining"`
	TargetAbs     float64  `json:"target"`
}

type IntakeSummary struct {
	Segments []SegmentSet `json:"segments"`
	AxisMax  float64      `json:"axis_max"`
}

// Summarize splits prior and current intake into fractions of target for every
// nutrient. A zero target yields zero fractions. RemainingAbs is left unclamped
// so tooltips can show how far over target the day went.
func Summarize(current, prior, target NutrientIntake) IntakeSummary {
	summary := IntakeSummary{
		Segments: make([]SegmentSet, 0, len(Nutrients)),
	}

	peak := MinAxisMax
	for _, n := range Nutrients {
		t := target.Value(n)
		p := prior.Value(n)
		c := current.Value(n)

		seg := SegmentSet{
			Nutrient:   n,
			PriorPct:   fractionOf(p, t),
			CurrentPct: fractionOf(c, t),
			PriorAbs:   p,
			CurrentAbs: c,
			TargetAbs:  t,
		}
		seg.CumulativePct = seg.PriorPct + seg.CurrentPct
		seg.RemainingPct = math.Max(0, 1-seg.CumulativePct)
		seg.RemainingAbs = t - (p + c)

		if seg.CumulativePct > peak {
			peak = seg.CumulativePct
		}
		summary.Segments = append(summary.Segments, seg)
	}

	summary.AxisMax = roundUpToStep(peak)
	return summary
}

func (s IntakeSummary) Segment(n Nutrient) (SegmentSet, bool) {
	for _, seg := range s.Segments {
		if seg.Nutrient == n {
			return seg, true
		}
	}
	return SegmentSet{}, false
}

// Overshoot returns the nutrients whose logged intake exceeds the target.
func (s IntakeSummary) Overshoot() []Nutrient {
	var over []Nutrient
	for _, seg := range s.Segments {
		if seg.CumulativePct > 1 {
			over = append(over, seg.Nutrient)
		}
	}
	return over
}

// Finite reports whether every fraction, amount and the axis maximum are
// finite numbers.
func (s IntakeSummary) Finite() bool {
	if !isFinite(s.AxisMax) {
		return false
	}
	for _, seg := range s.Segments {
		for _, v := range []float64{
			seg.PriorPct, seg.CurrentPct, seg.RemainingPct, seg.CumulativePct,
			seg.PriorAbs, seg.CurrentAbs, seg.RemainingAbs, seg.TargetAbs,
		} {
			if !isFinite(v) {
				return false
			}
		}
	}
	return true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func fractionOf(part, total float64) float64 {
	if total > 0 {
		return part / total
	}
	return 0
}

// roundUpToStep returns the smallest multiple of 0.1 >= v. The epsilon absorbs
// float noise such as 1.1*10 == 11.000000000000002.
func roundUpToStep(v float64) float64 {
	return math.Ceil(v*axisStepsPerUnit-axisEps) / axisStepsPerUnit
}
