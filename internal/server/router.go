package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iudanet/fasalsaathi/internal/metrics"
	"github.com/iudanet/fasalsaathi/internal/server/handlers"
	"github.com/iudanet/fasalsaathi/internal/server/middleware"
)

// Paths kept out of access logs.
const (
	healthPath  = "/api/health"
	metricsPath = "/metrics"
)

// RouterDeps collects what NewRouter wires together.
type RouterDeps struct {
	Authenticator  middleware.Authenticator
	InactiveStatus int
	CORSOrigins    []string
	Metrics        metrics.Recorder
	Gatherer       prometheus.Gatherer

	Health  *handlers.HealthHandler
	Auth    *handlers.AuthHandler
	Farms   *handlers.FarmHandler
	Crops   *handlers.CropHandler
	Market  *handlers.MarketHandler
	Weather *handlers.WeatherHandler
}

// NewRouter builds the HTTP API.
//
// Middleware order, outermost first:
//
//	RequestID → Recovery → Logging → Metrics → SecurityHeaders → CORS
//
// Everything under /api/v1 except register and token sits behind the auth gate.
func NewRouter(deps RouterDeps, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID())
	r.Use(middleware.RecoveryMiddleware(logger))
	r.Use(middleware.LoggingMiddleware(logger, healthPath, metricsPath))
	r.Use(middleware.MetricsMiddleware(deps.Metrics))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(deps.CORSOrigins))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Get("/", deps.Health.Root)
	r.Get(healthPath, deps.Health.Health)
	if deps.Gatherer != nil {
		r.Handle(metricsPath, metrics.Handler(deps.Gatherer))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/register", deps.Auth.Register)
		r.Post("/token", deps.Auth.Token)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(logger, deps.Authenticator, deps.InactiveStatus))

			r.Get("/me", deps.Auth.Me)

			r.Route("/farms", func(r chi.Router) {
				r.Post("/", deps.Farms.Create)
				r.Get("/", deps.Farms.List)
				r.Get("/{id}", deps.Farms.Get)
				r.Put("/{id}", deps.Farms.Update)
				r.Delete("/{id}", deps.Farms.Delete)
			})

			r.Route("/crops", func(r chi.Router) {
				r.Get("/", deps.Crops.List)
				r.Post("/", deps.Crops.Create)
				r.Post("/diseases", deps.Crops.CreateDisease)
				r.Post("/disease-detection", deps.Crops.DetectDisease)
				r.Post("/recommendation", deps.Crops.Recommend)
				r.Get("/{id}", deps.Crops.Get)
				r.Get("/{id}/diseases", deps.Crops.Diseases)
			})

			r.Route("/market", func(r chi.Router) {
				r.Get("/prices/current", deps.Market.CurrentPrices)
				r.Get("/prices/history/{crop_id}", deps.Market.History)
				r.Post("/prices", deps.Market.CreatePrice)
				r.Get("/markets", deps.Market.Markets)
				r.Get("/trends/{crop_id}", deps.Market.Trends)
			})

			r.Route("/weather", func(r chi.Router) {
				r.Get("/current", deps.Weather.Current)
				r.Get("/forecast", deps.Weather.Forecast)
				r.Get("/history/{location}", deps.Weather.History)
				r.Post("/", deps.Weather.Create)
			})
		})
	})

	return r
}
