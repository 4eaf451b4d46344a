// Package agronomy holds the disease detection and crop recommendation
// advisors. Both currently return fixed placeholder results; no model is
// loaded.
package agronomy

import (
	"errors"
	"image"
	// registered decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/samber/oops"
)

// MaxImageBytes bounds uploads accepted by DetectDisease.
const MaxImageBytes = 10 << 20

// ErrInvalidImage is returned when the upload is not a decodable image.
var ErrInvalidImage = errors.New("invalid image")

// Detection is the result of analyzing a leaf image.
type Detection struct {
	DiseaseName     string
	Recommendations []string
	Confidence      float64
	Detected        bool
}

// DetectDisease checks that r holds a JPEG, PNG or GIF image and returns the
// placeholder diagnosis.
// TODO: replace the fixed result with a classifier once a model is available.
func DetectDisease(r io.Reader) (Detection, error) {
	cfg, format, err := image.DecodeConfig(io.LimitReader(r, MaxImageBytes))
	if err != nil {
		return Detection{}, oops.Code("IMAGE_DECODE_FAILED").Wrap(errors.Join(ErrInvalidImage, err))
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return Detection{}, oops.Code("IMAGE_DECODE_FAILED").With("format", format).Wrap(ErrInvalidImage)
	}

	return Detection{
		Detected:    true,
		DiseaseName: "Sample Disease",
		Confidence:  0.95,
		Recommendations: []string{
			"Apply appropriate fungicide",
			"Improve air circulation",
			"Remove affected leaves",
		},
	}, nil
}

// Soil describes a soil sample. Nil measurements were not taken.
type Soil struct {
	Type       string
	PH         *float64
	Nitrogen   *float64
	Phosphorus *float64
	Potassium  *float64
	Moisture   *float64
}

// Suggestion is one recommended crop.
type Suggestion struct {
	CropName   string
	Reason     string
	Confidence float64
}

// Recommendation lists suitable crops and a soil health summary.
type Recommendation struct {
	Crops           []Suggestion
	SoilStatus      string
	SoilSuggestions []string
}

// Recommend returns crop suggestions for soil. The result does not yet
// depend on the sample.
func Recommend(Soil) Recommendation {
	return Recommendation{
		Crops: []Suggestion{
			{CropName: "Wheat", Confidence: 0.85, Reason: "Suitable soil pH and nitrogen levels"},
			{CropName: "Maize", Confidence: 0.75, Reason: "Good water availability and temperature"},
		},
		SoilStatus: "good",
		SoilSuggestions: []string{
			"Add organic matter to improve structure",
			"Maintain current irrigation practices",
		},
	}
}
