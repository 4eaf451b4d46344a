package handlers

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/fasalsaathi/internal/agronomy"
	"github.com/iudanet/fasalsaathi/internal/models"
	"github.com/iudanet/fasalsaathi/internal/server/storage"
	"github.com/iudanet/fasalsaathi/pkg/api"
)

const cropNotFound = "Crop not found"

// CropHandler обрабатывает запросы каталога культур и болезней
type CropHandler struct {
	base
	crops storage.CropStorage
}

// NewCropHandler создает новый handler для культур
func NewCropHandler(logger *slog.Logger, crops storage.CropStorage, storeTimeout time.Duration) *CropHandler {
	return &CropHandler{base: base{logger: logger, storeTimeout: storeTimeout}, crops: crops}
}

// List обрабатывает GET /api/v1/crops?season=
func (h *CropHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.storeContext(r)
	defer cancel()

	crops, err := h.crops.ListCrops(ctx, r.URL.Query().Get("season"))
	if err != nil {
		h.sendInternalError(w, r, "failed to list crops", err)
		return
	}
	h.sendJSON(w, r, nonNil(crops), http.StatusOK)
}

// Get обрабатывает GET /api/v1/crops/{id}
func (h *CropHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.storeContext(r)
	defer cancel()

	crop, err := h.crops.GetCrop(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.cropError(w, r, err)
		return
	}
	h.sendJSON(w, r, crop, http.StatusOK)
}

// Diseases обрабатывает GET /api/v1/crops/{id}/diseases
func (h *CropHandler) Diseases(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.storeContext(r)
	defer cancel()

	diseases, err := h.crops.ListDiseases(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.sendInternalError(w, r, "failed to list diseases", err)
		return
	}
	h.sendJSON(w, r, nonNil(diseases), http.StatusOK)
}

// Create обрабатывает POST /api/v1/crops
func (h *CropHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req api.CropRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	crop := &models.Crop{
		Name:             strings.TrimSpace(req.Name),
		NameHindi:        strings.TrimSpace(req.NameHindi),
		ScientificName:   strings.TrimSpace(req.ScientificName),
		Season:           strings.TrimSpace(req.Season),
		Duration:         req.Duration,
		WaterRequirement: strings.TrimSpace(req.WaterRequirement),
	}

	ctx, cancel := h.storeContext(r)
	defer cancel()

	if err := h.crops.CreateCrop(ctx, crop); err != nil {
		h.sendInternalError(w, r, "failed to create crop", err)
		return
	}
	h.sendJSON(w, r, crop, http.StatusCreated)
}

// CreateDisease обрабатывает POST /api/v1/crops/diseases
// Культура должна существовать
func (h *CropHandler) CreateDisease(w http.ResponseWriter, r *http.Request) {
	var req api.DiseaseRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	ctx, cancel := h.storeContext(r)
	defer cancel()

	if _, err := h.crops.GetCrop(ctx, req.CropID); err != nil {
		h.cropError(w, r, err)
		return
	}

	disease := &models.Disease{
		CropID:     req.CropID,
		Name:       strings.TrimSpace(req.Name),
		NameHindi:  strings.TrimSpace(req.NameHindi),
		Symptoms:   req.Symptoms,
		Prevention: req.Prevention,
		Treatment:  req.Treatment,
	}
	if err := h.crops.CreateDisease(ctx, disease); err != nil {
		h.sendInternalError(w, r, "failed to create disease", err)
		return
	}
	h.sendJSON(w, r, disease, http.StatusCreated)
}

// DetectDisease обрабатывает POST /api/v1/crops/disease-detection
// Изображение загружается multipart в поле "image" (или "file")
func (h *CropHandler) DetectDisease(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, agronomy.MaxImageBytes+maxBodyBytes)
	if err := r.ParseMultipartForm(agronomy.MaxImageBytes); err != nil {
		h.sendError(w, "Invalid multipart upload", http.StatusBadRequest)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := uploadedImage(r)
	if err != nil {
		h.sendError(w, "Image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		h.sendError(w, "File must be an image", http.StatusBadRequest)
		return
	}

	result, err := agronomy.DetectDisease(file)
	if err != nil {
		if errors.Is(err, agronomy.ErrInvalidImage) {
			h.sendError(w, "Error processing image", http.StatusBadRequest)
			return
		}
		h.sendInternalError(w, r, "disease detection failed", err)
		return
	}

	h.sendJSON(w, r, api.DiseaseDetectionResponse{
		DiseaseDetected: result.Detected,
		DiseaseName:     result.DiseaseName,
		Confidence:      result.Confidence,
		Recommendations: result.Recommendations,
	}, http.StatusOK)
}

func uploadedImage(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return r.FormFile("file")
	}
	return file, header, err
}

// Recommend обрабатывает POST /api/v1/crops/recommendation
func (h *CropHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req api.SoilData
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	rec := agronomy.Recommend(agronomy.Soil{
		Type:       req.SoilType,
		PH:         req.PH,
		Nitrogen:   req.Nitrogen,
		Phosphorus: req.Phosphorus,
		Potassium:  req.Potassium,
		Moisture:   req.Moisture,
	})

	resp := api.CropRecommendationResponse{
		RecommendedCrops: make([]api.CropSuggestion, 0, len(rec.Crops)),
		SoilHealth:       api.SoilHealth{Status: rec.SoilStatus, Recommendations: rec.SoilSuggestions},
	}
	for _, c := range rec.Crops {
		resp.RecommendedCrops = append(resp.RecommendedCrops, api.CropSuggestion{
			CropName:   c.CropName,
			Confidence: c.Confidence,
			Reason:     c.Reason,
		})
	}
	h.sendJSON(w, r, resp, http.StatusOK)
}

func (h *CropHandler) cropError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		h.sendError(w, cropNotFound, http.StatusNotFound)
		return
	}
	h.sendInternalError(w, r, "crop store operation failed", err)
}
