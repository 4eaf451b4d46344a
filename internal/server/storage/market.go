package storage

import (
	"context"
	"time"

	"github.com/iudanet/fasalsaathi/internal/models"
)

// PriceFilter narrows price listings. Zero values are ignored.
type PriceFilter struct {
	Since      time.Time
	MarketName string
	CropID     string
}

// MarketStorage persists market price observations.
type MarketStorage interface {
	CreatePrice(ctx context.Context, price *models.MarketPrice) error
	// CurrentPrices returns prices matching filter ordered by market name.
	CurrentPrices(ctx context.Context, filter PriceFilter, limit int) ([]models.MarketPrice, error)
	// PriceHistory returns the latest prices of a crop, newest first.
	PriceHistory(ctx context.Context, cropID string, limit int) ([]models.MarketPrice, error)
	ListMarkets(ctx context.Context) ([]string, error)
}
