package api

import "time"

// MarketPriceRequest is the body of POST /market/prices.
type MarketPriceRequest struct {
	Date       time.Time `json:"date" validate:"required"`
	CropID     string    `json:"crop_id" validate:"required"`
	MarketName string    `json:"market_name" validate:"required,max=200"`
	Price      float64   `json:"price" validate:"gt=0"`
}
