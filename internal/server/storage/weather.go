package storage

import (
	"context"
	"time"

	"github.com/iudanet/fasalsaathi/internal/models"
)

// WeatherStorage persists weather observations.
type WeatherStorage interface {
	CreateWeatherRecord(ctx context.Context, record *models.WeatherRecord) error
	// WeatherHistory returns records for location dated at or after since, newest first.
	WeatherHistory(ctx context.Context, location string, since time.Time, limit int) ([]models.WeatherRecord, error)
}
