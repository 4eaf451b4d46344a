package repository

import (
	"context"
	"fmt"

	"github.com/iudanet/fasalsaathi/internal/models"
	"github.com/iudanet/fasalsaathi/internal/server/storage"
	"github.com/iudanet/fasalsaathi/internal/server/storage/docstore"
)

// Farms implements storage.FarmStorage.
type Farms struct {
	store docstore.Store
}

var _ storage.FarmStorage = (*Farms)(nil)

// CreateFarm stores farm and sets its ID.
func (r *Farms) CreateFarm(ctx context.Context, farm *models.Farm) error {
	key, err := r.store.Insert(ctx, collFarms, farmToDocument(farm))
	if err != nil {
		return fmt.Errorf("failed to insert farm: %w", err)
	}
	farm.ID = key.String()
	return nil
}

// GetFarm returns the farm if it exists and belongs to ownerID.
func (r *Farms) GetFarm(ctx context.Context, ownerID, farmID string) (*models.Farm, error) {
	key, err := parseID(farmID)
	if err != nil {
		return nil, err
	}

	doc, err := r.store.Get(ctx, collFarms, key)
	if err != nil {
		return nil, notFound(err)
	}
	if doc.String("owner_id") != ownerID {
		return nil, storage.ErrNotFound
	}
	return farmFromDocument(key, doc), nil
}

// ListFarms pages through the owner's farms in creation order.
func (r *Farms) ListFarms(ctx context.Context, ownerID string, skip, limit int) ([]models.Farm, error) {
	recs, err := r.store.Find(ctx, collFarms, docstore.Filter{"owner_id": ownerID}, docstore.FindOptions{
		Skip:  skip,
		Limit: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list farms: %w", err)
	}

	farms := make([]models.Farm, 0, len(recs))
	for _, rec := range recs {
		farms = append(farms, *farmFromDocument(rec.Key, rec.Doc))
	}
	return farms, nil
}

// UpdateFarm writes the editable fields of farm. Ownership is checked first.
func (r *Farms) UpdateFarm(ctx context.Context, farm *models.Farm) error {
	existing, err := r.GetFarm(ctx, farm.OwnerID, farm.ID)
	if err != nil {
		return err
	}
	key, err := parseID(existing.ID)
	if err != nil {
		return err
	}

	err = r.store.Update(ctx, collFarms, key, docstore.Document{
		"name":            farm.Name,
		"location":        farm.Location,
		"area":            farm.Area,
		"soil_type":       farm.SoilType,
		"irrigation_type": farm.IrrigationType,
		"updated_at":      farm.UpdatedAt,
	})
	if err != nil {
		return notFound(err)
	}
	farm.CreatedAt = existing.CreatedAt
	return nil
}

// DeleteFarm removes the owner's farm.
func (r *Farms) DeleteFarm(ctx context.Context, ownerID, farmID string) error {
	if _, err := r.GetFarm(ctx, ownerID, farmID); err != nil {
		return err
	}
	key, err := parseID(farmID)
	if err != nil {
		return err
	}
	return notFound(r.store.Delete(ctx, collFarms, key))
}

func farmToDocument(f *models.Farm) docstore.Document {
	return docstore.Document{
		"owner_id":        f.OwnerID,
		"name":            f.Name,
		"location":        f.Location,
		"area":            f.Area,
		"soil_type":       f.SoilType,
		"irrigation_type": f.IrrigationType,
		"created_at":      f.CreatedAt,
		"updated_at":      f.UpdatedAt,
	}
}

func farmFromDocument(key docstore.Key, d docstore.Document) *models.Farm {
	return &models.Farm{
		ID:             key.String(),
		OwnerID:        d.String("owner_id"),
		Name:           d.String("name"),
		Location:       d.String("location"),
		Area:           d.Float("area"),
		SoilType:       d.String("soil_type"),
		IrrigationType: d.String("irrigation_type"),
		CreatedAt:      d.Time("created_at"),
		UpdatedAt:      d.Time("updated_at"),
	}
}
