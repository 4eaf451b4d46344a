package models

import "time"

// MarketPrice is a single mandi price observation for a crop.
type MarketPrice struct {
	Date       time.Time `json:"date"`
	CreatedAt  time.Time `json:"created_at"`
	ID         string    `json:"id"`
	CropID     string    `json:"crop_id"`
	MarketName string    `json:"market_name"`
	Price      float64   `json:"price"` // rupees per quintal
}

// Trend values reported by PriceTrend.
const (
	TrendRising           = "rising"
	TrendFalling          = "falling"
	TrendStable           = "stable"
	TrendInsufficientData = "insufficient_data"
)

// PriceTrend summarizes recent price movement for a crop.
type PriceTrend struct {
	CurrentPrice *float64 `json:"current_price"`
	AveragePrice *float64 `json:"average_price"`
	PriceChange  *float64 `json:"price_change"` // percent, newest vs oldest
	Forecast     *float64 `json:"forecast"`
	Trend        string   `json:"trend"`
}

// ComputePriceTrend derives a PriceTrend from prices ordered newest first.
func ComputePriceTrend(prices []MarketPrice) PriceTrend {
	if len(prices) == 0 {
		return PriceTrend{Trend: TrendInsufficientData}
	}

	current := prices[0].Price
	var sum float64
	for _, p := range prices {
		sum += p.Price
	}
	avg := sum / float64(len(prices))

	trend := PriceTrend{
		CurrentPrice: &current,
		AveragePrice: &avg,
		Trend:        TrendStable,
	}
	if len(prices) < 2 {
		return trend
	}

	oldest := prices[len(prices)-1].Price
	if oldest == 0 {
		return trend
	}
	change := (current - oldest) / oldest * 100
	trend.PriceChange = &change
	if change > 0 {
		trend.Trend = TrendRising
	} else {
		trend.Trend = TrendFalling
	}
	return trend
}
