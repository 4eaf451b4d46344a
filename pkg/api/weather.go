package api

import "time"

// WeatherRecordRequest is the body of POST /weather.
type WeatherRecordRequest struct {
	Date        time.Time `json:"date" validate:"required"`
	Location    string    `json:"location" validate:"required,max=200"`
	Temperature float64   `json:"temperature" validate:"gte=-90,lte=70"`
	Humidity    float64   `json:"humidity" validate:"gte=0,lte=100"`
	Rainfall    float64   `json:"rainfall" validate:"gte=0"`
	WindSpeed   float64   `json:"wind_speed" validate:"gte=0"`
}
