package models

import "time"

// WeatherRecord is a stored weather observation for a named location.
type WeatherRecord struct {
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
	ID          string    `json:"id"`
	Location    string    `json:"location"`
	Temperature float64   `json:"temperature"` // °C
	Humidity    float64   `json:"humidity"`    // percent
	Rainfall    float64   `json:"rainfall"`    // mm
	WindSpeed   float64   `json:"wind_speed"`  // km/h
}
