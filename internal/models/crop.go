package models

// Crop describes a cultivated crop and its growing requirements.
type Crop struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	NameHindi        string `json:"name_hindi"`
	ScientificName   string `json:"scientific_name"`
	Season           string `json:"season"` // kharif, rabi, zaid
	WaterRequirement string `json:"water_requirement"`
	Duration         int    `json:"duration"` // days from sowing to harvest
}

// Disease is a crop disease with its agronomic guidance.
type Disease struct {
	ID         string `json:"id"`
	CropID     string `json:"crop_id"`
	Name       string `json:"name"`
	NameHindi  string `json:"name_hindi"`
	Symptoms   string `json:"symptoms"`
	Prevention string `json:"prevention"`
	Treatment  string `json:"treatment"`
}
