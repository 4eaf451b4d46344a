package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputePriceTrend(t *testing.T) {
	tests := []struct {
		name       string
		prices     []float64
		wantTrend  string
		wantChange *float64
		wantAvg    *float64
	}{
		{
			name:      "no data",
			prices:    nil,
			wantTrend: TrendInsufficientData,
		},
		{
			name:      "single price is stable",
			prices:    []float64{2000},
			wantTrend: TrendStable,
			wantAvg:   ptr(2000),
		},
		{
			name:       "rising",
			prices:     []float64{2200, 2100, 2000},
			wantTrend:  TrendRising,
			wantChange: ptr(10),
			wantAvg:    ptr(2100),
		},
		{
			name:       "falling",
			prices:     []float64{1800, 2000},
			wantTrend:  TrendFalling,
			wantChange: ptr(-10),
			wantAvg:    ptr(1900),
		},
		{
			name:       "flat counts as falling",
			prices:     []float64{2000, 2000},
			wantTrend:  TrendFalling,
			wantChange: ptr(0),
			wantAvg:    ptr(2000),
		},
		{
			name:      "zero oldest price has no change",
			prices:    []float64{100, 0},
			wantTrend: TrendStable,
			wantAvg:   ptr(50),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prices := make([]MarketPrice, 0, len(tt.prices))
			for _, p := range tt.prices {
				prices = append(prices, MarketPrice{Price: p})
			}

			got := ComputePriceTrend(prices)
			assert.Equal(t, tt.wantTrend, got.Trend)
			assert.Nil(t, got.Forecast)

			if tt.wantChange == nil {
				assert.Nil(t, got.PriceChange)
			} else {
				require.NotNil(t, got.PriceChange)
				assert.InDelta(t, *tt.wantChange, *got.PriceChange, 1e-9)
			}

			if tt.wantAvg == nil {
				assert.Nil(t, got.AveragePrice)
				assert.Nil(t, got.CurrentPrice)
			} else {
				require.NotNil(t, got.AveragePrice)
				assert.InDelta(t, *tt.wantAvg, *got.AveragePrice, 1e-9)
				require.NotNil(t, got.CurrentPrice)
				assert.InDelta(t, tt.prices[0], *got.CurrentPrice, 1e-9)
			}
		})
	}
}

func ptr(v float64) *float64 {
	return &v
}
