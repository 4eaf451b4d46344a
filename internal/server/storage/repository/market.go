package repository

import (
	"context"
	"fmt"

	"github.com/iudanet/fasalsaathi/internal/models"
	"github.com/iudanet/fasalsaathi/internal/server/storage"
	"github.com/iudanet/fasalsaathi/internal/server/storage/docstore"
)

// Market implements storage.MarketStorage.
type Market struct {
	store docstore.Store
}

var _ storage.MarketStorage = (*Market)(nil)

// CreatePrice stores price and sets its ID.
func (r *Market) CreatePrice(ctx context.Context, price *models.MarketPrice) error {
	key, err := r.store.Insert(ctx, collMarketPrices, docstore.Document{
		"crop_id":     price.CropID,
		"market_name": price.MarketName,
		"price":       price.Price,
		"date":        price.Date,
		"created_at":  price.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert market price: %w", err)
	}
	price.ID = key.String()
	return nil
}

// CurrentPrices returns prices matching filter ordered by market name.
func (r *Market) CurrentPrices(ctx context.Context, pf storage.PriceFilter, limit int) ([]models.MarketPrice, error) {
	filter := docstore.Filter{}
	if !pf.Since.IsZero() {
		filter["date"] = docstore.Range{Gte: pf.Since}
	}
	if pf.MarketName != "" {
		filter["market_name"] = pf.MarketName
	}
	if pf.CropID != "" {
		filter["crop_id"] = pf.CropID
	}

	return r.find(ctx, filter, docstore.FindOptions{Sort: "market_name", Limit: limit})
}

// PriceHistory returns the latest prices of a crop, newest first.
func (r *Market) PriceHistory(ctx context.Context, cropID string, limit int) ([]models.MarketPrice, error) {
	return r.find(ctx, docstore.Filter{"crop_id": cropID}, docstore.FindOptions{
		Sort:  "date",
		Desc:  true,
		Limit: limit,
	})
}

// ListMarkets returns every market name that has at least one price.
func (r *Market) ListMarkets(ctx context.Context) ([]string, error) {
	values, err := r.store.Distinct(ctx, collMarketPrices, "market_name", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list markets: %w", err)
	}

	markets := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			markets = append(markets, s)
		}
	}
	return markets, nil
}

func (r *Market) find(ctx context.Context, filter docstore.Filter, opts docstore.FindOptions) ([]models.MarketPrice, error) {
	recs, err := r.store.Find(ctx, collMarketPrices, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query market prices: %w", err)
	}

	prices := make([]models.MarketPrice, 0, len(recs))
	for _, rec := range recs {
		d := rec.Doc
		prices = append(prices, models.MarketPrice{
			ID:         rec.Key.String(),
			CropID:     d.String("crop_id"),
			MarketName: d.String("market_name"),
			Price:      d.Float("price"),
			Date:       d.Time("date"),
			CreatedAt:  d.Time("created_at"),
		})
	}
	return prices, nil
}
