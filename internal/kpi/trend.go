// Package kpi computes trend summaries for metric history: direction,
// percent change, and a normalized sparkline vector for the panel UI.
package kpi

import (
	"math"

	"github.com/crewdeck/crewdeck/internal/types"
)

// Direction of a trend over the analyzed window
type Direction string

const (
	TrendUp   Direction = "up"
	TrendDown Direction = "down"
	TrendFlat Direction = "flat"
)

// flatSlopeThreshold is the relative per-sample slope below which a series
// counts as flat. Tuned so day-to-day noise on a stable metric doesn't
// flip the arrow.
const flatSlopeThreshold = 0.01

// Trend summarizes one KPI series
type Trend struct {
	Direction Direction `json:"direction"`
	// PercentChange is (last-first)/|first|*100 over the window;
	// 0 when the series has fewer than two points or starts at zero.
	PercentChange float64 `json:"percent_change"`
	// Improving interprets Direction against the KPI's good direction.
	Improving bool `json:"improving"`
	// Sparkline is the series values scaled to [0,1] for rendering.
	Sparkline []float64 `json:"sparkline"`
}

// Compute analyzes a series (oldest first) for a KPI. An empty or
// single-point series is flat with an empty-or-single sparkline.
func Compute(kpi *types.KPI, series []*types.KPIPoint) Trend {
	values := make([]float64, len(series))
	for i, p := range series {
		values[i] = p.Value
	}

	t := Trend{
		Direction: TrendFlat,
		Sparkline: normalize(values),
	}
	if len(values) < 2 {
		t.Improving = true // nothing moved, nothing got worse
		return t
	}

	first, last := values[0], values[len(values)-1]
	if first != 0 {
		t.PercentChange = (last - first) / math.Abs(first) * 100
	}

	slope := linearSlope(values)
	// Scale the flat threshold by the series' magnitude so the check is
	// unit-independent
	scale := math.Abs(first)
	if scale == 0 {
		scale = math.Abs(last)
	}
	if scale == 0 {
		scale = 1
	}

	switch {
	case slope > flatSlopeThreshold*scale:
		t.Direction = TrendUp
	case slope < -flatSlopeThreshold*scale:
		t.Direction = TrendDown
	}

	switch t.Direction {
	case TrendFlat:
		t.Improving = true
	case TrendUp:
		t.Improving = kpi.Direction == types.UpGood
	case TrendDown:
		t.Improving = kpi.Direction == types.DownGood
	}
	return t
}

// linearSlope is the least-squares slope of values against their indices
func linearSlope(values []float64) float64 {
	n := float64(len(values))
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

// normalize scales values into [0,1]. A constant series maps to 0.5 so the
// sparkline renders as a centered line rather than hugging an edge.
func normalize(values []float64) []float64 {
	if len(values) == 0 {
		return []float64{}
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	out := make([]float64, len(values))
	if max == min {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}
	for i, v := range values {
		out[i] = (v - min) / (max - min)
	}
	return out
}
