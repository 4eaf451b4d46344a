package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/fasalsaathi/internal/models"
	"github.com/iudanet/fasalsaathi/internal/server/storage"
	"github.com/iudanet/fasalsaathi/internal/server/storage/docstore"
)

// Weather implements storage.WeatherStorage.
type Weather struct {
	store docstore.Store
}

var _ storage.WeatherStorage = (*Weather)(nil)

// CreateWeatherRecord stores record and sets its ID.
func (r *Weather) CreateWeatherRecord(ctx context.Context, record *models.WeatherRecord) error {
	key, err := r.store.Insert(ctx, collWeather, docstore.Document{
		"location":    record.Location,
		"temperature": record.Temperature,
		"humidity":    record.Humidity,
		"rainfall":    record.Rainfall,
		"wind_speed":  record.WindSpeed,
		"date":        record.Date,
		"created_at":  record.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert weather record: %w", err)
	}
	record.ID = key.String()
	return nil
}

// WeatherHistory returns records for location since the given instant, newest first.
func (r *Weather) WeatherHistory(ctx context.Context, location string, since time.Time, limit int) ([]models.WeatherRecord, error) {
	recs, err := r.store.Find(ctx, collWeather,
		docstore.Filter{
			"location": location,
			"date":     docstore.Range{Gte: since},
		},
		docstore.FindOptions{Sort: "date", Desc: true, Limit: limit},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query weather history: %w", err)
	}

	records := make([]models.WeatherRecord, 0, len(recs))
	for _, rec := range recs {
		d := rec.Doc
		records = append(records, models.WeatherRecord{
			ID:          rec.Key.String(),
			Location:    d.String("location"),
			Temperature: d.Float("temperature"),
			Humidity:    d.Float("humidity"),
			Rainfall:    d.Float("rainfall"),
			WindSpeed:   d.Float("wind_speed"),
			Date:        d.Time("date"),
			CreatedAt:   d.Time("created_at"),
		})
	}
	return records, nil
}
