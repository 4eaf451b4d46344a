package storage

import (
	"context"

	"github.com/iudanet/fasalsaathi/internal/models"
)

// FarmStorage persists farms. Every read and write is scoped to an owner;
// farms of other owners behave as missing.
type FarmStorage interface {
	CreateFarm(ctx context.Context, farm *models.Farm) error
	GetFarm(ctx context.Context, ownerID, farmID string) (*models.Farm, error)
	ListFarms(ctx context.Context, ownerID string, skip, limit int) ([]models.Farm, error)
	UpdateFarm(ctx context.Context, farm *models.Farm) error
	DeleteFarm(ctx context.Context, ownerID, farmID string) error
}
