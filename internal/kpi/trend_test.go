package kpi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/crewdeck/crewdeck/internal/types"
)

func series(values ...float64) []*types.KPIPoint {
	points := make([]*types.KPIPoint, len(values))
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range values {
		points[i] = &types.KPIPoint{KPIID: "k1", ObservedAt: base.AddDate(0, 0, i), Value: v}
	}
	return points
}

func TestComputeDirections(t *testing.T) {
	upGood := &types.KPI{Direction: types.UpGood}
	downGood := &types.KPI{Direction: types.DownGood}

	rising := Compute(upGood, series(10, 12, 14, 18, 22))
	assert.Equal(t, TrendUp, rising.Direction)
	assert.True(t, rising.Improving)
	assert.InDelta(t, 120.0, rising.PercentChange, 0.01)

	// Same data, but for a bug-inflow style metric rising is bad
	worse := Compute(downGood, series(10, 12, 14, 18, 22))
	assert.Equal(t, TrendUp, worse.Direction)
	assert.False(t, worse.Improving)

	falling := Compute(downGood, series(22, 18, 14, 12, 10))
	assert.Equal(t, TrendDown, falling.Direction)
	assert.True(t, falling.Improving)

	flat := Compute(upGood, series(50, 50.1, 49.9, 50, 50.05))
	assert.Equal(t, TrendFlat, flat.Direction)
	assert.True(t, flat.Improving)
}

func TestComputeShortSeries(t *testing.T) {
	kpi := &types.KPI{Direction: types.UpGood}

	empty := Compute(kpi, nil)
	assert.Equal(t, TrendFlat, empty.Direction)
	assert.Empty(t, empty.Sparkline)
	assert.Zero(t, empty.PercentChange)

	single := Compute(kpi, series(42))
	assert.Equal(t, TrendFlat, single.Direction)
	assert.Equal(t, []float64{0.5}, single.Sparkline)
}

func TestComputeZeroStart(t *testing.T) {
	kpi := &types.KPI{Direction: types.UpGood}

	// Starting from zero: no percent change reported, direction still up
	trend := Compute(kpi, series(0, 5, 10, 15))
	assert.Equal(t, TrendUp, trend.Direction)
	assert.Zero(t, trend.PercentChange)
}

func TestSparklineNormalization(t *testing.T) {
	kpi := &types.KPI{Direction: types.UpGood}

	trend := Compute(kpi, series(10, 20, 15, 30))
	assert.Equal(t, []float64{0, 0.5, 0.25, 1}, trend.Sparkline)

	constant := Compute(kpi, series(7, 7, 7))
	assert.Equal(t, []float64{0.5, 0.5, 0.5}, constant.Sparkline)
}
