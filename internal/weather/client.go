// Package weather fetches current conditions and forecasts from an
// OpenWeather-compatible HTTP API.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/samber/oops"
)

const (
	// DefaultEndpoint is the OpenWeather 2.5 API base URL.
	DefaultEndpoint = "https://api.openweathermap.org/data/2.5"

	// forecast entries are three hours apart
	entriesPerDay = 8
	maxEntries    = 40
	maxBodyBytes  = 1 << 20
)

// ErrUnavailable is returned for any upstream failure.
var ErrUnavailable = errors.New("weather service unavailable")

// Client is the weather API client.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	endpoint   string
	apiKey     string
}

// NewClient creates a Client. An empty endpoint selects DefaultEndpoint.
func NewClient(httpClient *http.Client, logger *slog.Logger, endpoint, apiKey string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		endpoint:   endpoint,
		apiKey:     apiKey,
	}
}

// Current returns the upstream's current conditions for the coordinates.
func (c *Client) Current(ctx context.Context, lat, lon float64) (map[string]any, error) {
	return c.get(ctx, "weather", coords(lat, lon))
}

// Forecast returns up to days days of three-hourly forecast entries. The
// upstream caps forecasts at five days.
func (c *Client) Forecast(ctx context.Context, lat, lon float64, days int) (map[string]any, error) {
	if days < 1 {
		return nil, oops.Code("WEATHER_INVALID_ARGUMENT").With("days", days).Errorf("days must be positive")
	}
	q := coords(lat, lon)
	q.Set("cnt", strconv.Itoa(min(days*entriesPerDay, maxEntries)))
	return c.get(ctx, "forecast", q)
}

func coords(lat, lon float64) url.Values {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	return q
}

func (c *Client) get(ctx context.Context, resource string, q url.Values) (map[string]any, error) {
	reqURL, err := url.JoinPath(c.endpoint, resource)
	if err != nil {
		return nil, c.fail(ctx, resource, oops.Code("WEATHER_BAD_ENDPOINT").With("endpoint", c.endpoint).Wrap(err))
	}
	q.Set("units", "metric")
	if c.apiKey != "" {
		q.Set("appid", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, c.fail(ctx, resource, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// *url.Error embeds the request URL, which carries the api key
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, c.fail(ctx, resource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.fail(ctx, resource, fmt.Errorf("upstream returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, c.fail(ctx, resource, err)
	}

	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, c.fail(ctx, resource, err)
	}
	return out, nil
}

// fail logs the cause and returns it wrapped around ErrUnavailable. The
// api key is never logged.
func (c *Client) fail(ctx context.Context, resource string, cause error) error {
	c.logger.WarnContext(ctx, "weather request failed",
		slog.String("resource", resource),
		slog.String("error", cause.Error()),
	)
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, resource, cause)
}
