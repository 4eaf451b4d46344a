// Package metrics collects Prometheus metrics for the API and serves them.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the subset of Collector used by services and middleware.
type Recorder interface {
	RecordRequest(method, route string, status int, duration time.Duration)
	RecordAuth(event string, success bool)
	RecordUpstreamFailure(upstream string)
}

// Auth events.
const (
	EventRegister     = "register"
	EventLogin        = "login"
	EventAuthenticate = "authenticate"
)

// Collector is the Prometheus implementation of Recorder.
type Collector struct {
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	auth            *prometheus.CounterVec
	upstreamFailure *prometheus.CounterVec
}

var _ Recorder = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fasalsaathi_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fasalsaathi_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		auth: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fasalsaathi_auth_events_total",
			Help: "Registration, login and token checks by outcome.",
		}, []string{"event", "outcome"}),
		upstreamFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fasalsaathi_upstream_failures_total",
			Help: "Failed calls to external services.",
		}, []string{"upstream"}),
	}

	reg.MustRegister(c.requests, c.duration, c.auth, c.upstreamFailure)
	return c
}

// RecordRequest records one served request. route is the router pattern,
// not the raw path, so label cardinality stays bounded.
func (c *Collector) RecordRequest(method, route string, status int, duration time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.duration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) RecordAuth(event string, success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	c.auth.WithLabelValues(event, outcome).Inc()
}

func (c *Collector) RecordUpstreamFailure(upstream string) {
	c.upstreamFailure.WithLabelValues(upstream).Inc()
}

// Handler serves the metrics gathered by gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordRequest(string, string, int, time.Duration) {}
func (Nop) RecordAuth(string, bool)                          {}
func (Nop) RecordUpstreamFailure(string)                     {}
