package storage

import (
	"context"

	"github.com/iudanet/fasalsaathi/internal/models"
)

// CropStorage persists crops and their diseases.
type CropStorage interface {
	CreateCrop(ctx context.Context, crop *models.Crop) error
	GetCrop(ctx context.Context, id string) (*models.Crop, error)
	// ListCrops returns all crops, or those of one season when season is set.
	ListCrops(ctx context.Context, season string) ([]models.Crop, error)

	CreateDisease(ctx context.Context, disease *models.Disease) error
	ListDiseases(ctx context.Context, cropID string) ([]models.Disease, error)
}
