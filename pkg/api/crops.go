package api

// CropRequest is the body of POST /crops.
type CropRequest struct {
	Name             string `json:"name" validate:"required,max=100"`
	NameHindi        string `json:"name_hindi" validate:"required,max=100"`
	ScientificName   string `json:"scientific_name" validate:"required,max=200"`
	Season           string `json:"season" validate:"required,max=50"`
	WaterRequirement string `json:"water_requirement" validate:"required,max=100"`
	Duration         int    `json:"duration" validate:"gt=0"`
}

// DiseaseRequest is the body of POST /crops/diseases.
type DiseaseRequest struct {
	CropID     string `json:"crop_id" validate:"required"`
	Name       string `json:"name" validate:"required,max=200"`
	NameHindi  string `json:"name_hindi" validate:"required,max=200"`
	Symptoms   string `json:"symptoms" validate:"required"`
	Prevention string `json:"prevention" validate:"required"`
	Treatment  string `json:"treatment" validate:"required"`
}

// DiseaseDetectionResponse is the result of an image analysis.
type DiseaseDetectionResponse struct {
	DiseaseName     string   `json:"disease_name,omitempty"`
	Recommendations []string `json:"recommendations"`
	Confidence      float64  `json:"confidence"`
	DiseaseDetected bool     `json:"disease_detected"`
}

// SoilData is the body of POST /crops/recommendation.
type SoilData struct {
	SoilType   string   `json:"soil_type"`
	PH         *float64 `json:"ph" validate:"omitempty,gte=0,lte=14"`
	Nitrogen   *float64 `json:"nitrogen" validate:"omitempty,gte=0"`
	Phosphorus *float64 `json:"phosphorus" validate:"omitempty,gte=0"`
	Potassium  *float64 `json:"potassium" validate:"omitempty,gte=0"`
	Moisture   *float64 `json:"moisture" validate:"omitempty,gte=0,lte=100"`
}

// CropSuggestion is one recommended crop with its suitability.
type CropSuggestion struct {
	CropName   string  `json:"crop_name"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}

// SoilHealth summarizes the analyzed soil.
type SoilHealth struct {
	Status          string   `json:"status"`
	Recommendations []string `json:"recommendations"`
}

// CropRecommendationResponse is the result of POST /crops/recommendation.
type CropRecommendationResponse struct {
	RecommendedCrops []CropSuggestion `json:"recommended_crops"`
	SoilHealth       SoilHealth       `json:"soil_health"`
}
