package repository

import (
	"context"
	"fmt"

	"github.com/iudanet/fasalsaathi/internal/models"
	"github.com/iudanet/fasalsaathi/internal/server/storage"
	"github.com/iudanet/fasalsaathi/internal/server/storage/docstore"
)

// Crops implements storage.CropStorage.
type Crops struct {
	store docstore.Store
}

var _ storage.CropStorage = (*Crops)(nil)

// CreateCrop stores crop and sets its ID.
func (r *Crops) CreateCrop(ctx context.Context, crop *models.Crop) error {
	key, err := r.store.Insert(ctx, collCrops, docstore.Document{
		"name":              crop.Name,
		"name_hindi":        crop.NameHindi,
		"scientific_name":   crop.ScientificName,
		"season":            crop.Season,
		"duration":          crop.Duration,
		"water_requirement": crop.WaterRequirement,
	})
	if err != nil {
		return fmt.Errorf("failed to insert crop: %w", err)
	}
	crop.ID = key.String()
	return nil
}

// GetCrop returns a crop by id.
func (r *Crops) GetCrop(ctx context.Context, id string) (*models.Crop, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}

	doc, err := r.store.Get(ctx, collCrops, key)
	if err != nil {
		return nil, notFound(err)
	}
	return cropFromDocument(key, doc), nil
}

// ListCrops returns crops, optionally restricted to one season.
func (r *Crops) ListCrops(ctx context.Context, season string) ([]models.Crop, error) {
	filter := docstore.Filter{}
	if season != "" {
		filter["season"] = season
	}

	recs, err := r.store.Find(ctx, collCrops, filter, docstore.FindOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list crops: %w", err)
	}

	crops := make([]models.Crop, 0, len(recs))
	for _, rec := range recs {
		crops = append(crops, *cropFromDocument(rec.Key, rec.Doc))
	}
	return crops, nil
}

// CreateDisease stores disease and sets its ID.
func (r *Crops) CreateDisease(ctx context.Context, disease *models.Disease) error {
	key, err := r.store.Insert(ctx, collDiseases, docstore.Document{
		"crop_id":    disease.CropID,
		"name":       disease.Name,
		"name_hindi": disease.NameHindi,
		"symptoms":   disease.Symptoms,
		"prevention": disease.Prevention,
		"treatment":  disease.Treatment,
	})
	if err != nil {
		return fmt.Errorf("failed to insert disease: %w", err)
	}
	disease.ID = key.String()
	return nil
}

// ListDiseases returns the diseases recorded for a crop.
func (r *Crops) ListDiseases(ctx context.Context, cropID string) ([]models.Disease, error) {
	recs, err := r.store.Find(ctx, collDiseases, docstore.Filter{"crop_id": cropID}, docstore.FindOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list diseases: %w", err)
	}

	diseases := make([]models.Disease, 0, len(recs))
	for _, rec := range recs {
		d := rec.Doc
		diseases = append(diseases, models.Disease{
			ID:         rec.Key.String(),
			CropID:     d.String("crop_id"),
			Name:       d.String("name"),
			NameHindi:  d.String("name_hindi"),
			Symptoms:   d.String("symptoms"),
			Prevention: d.String("prevention"),
			Treatment:  d.String("treatment"),
		})
	}
	return diseases, nil
}

func cropFromDocument(key docstore.Key, d docstore.Document) *models.Crop {
	return &models.Crop{
		ID:               key.String(),
		Name:             d.String("name"),
		NameHindi:        d.String("name_hindi"),
		ScientificName:   d.String("scientific_name"),
		Season:           d.String("season"),
		Duration:         d.Int("duration"),
		WaterRequirement: d.String("water_requirement"),
	}
}
