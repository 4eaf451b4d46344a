package models

import "time"

// Farm is a plot of land owned by a single account.
type Farm struct {
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	ID             string    `json:"id"`
	OwnerID        string    `json:"owner_id"`
	Name           string    `json:"name"`
	Location       string    `json:"location"`
	SoilType       string    `json:"soil_type"`
	IrrigationType string    `json:"irrigation_type"`
	Area           float64   `json:"area"` // acres
}
