package api

// FarmRequest is the body of POST /farms and PUT /farms/{id}.
type FarmRequest struct {
	Name           string  `json:"name" validate:"required,max=200"`
	Location       string  `json:"location" validate:"required,max=200"`
	SoilType       string  `json:"soil_type" validate:"required,max=100"`
	IrrigationType string  `json:"irrigation_type" validate:"required,max=100"`
	Area           float64 `json:"area" validate:"gt=0"`
}
