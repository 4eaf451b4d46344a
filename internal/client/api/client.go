// Package api is an HTTP client for the FasalSaathi API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iudanet/fasalsaathi/internal/models"
	"github.com/iudanet/fasalsaathi/pkg/api"
)

const maxResponseBytes = 4 << 20

// Error - ответ сервера со статусом не 2xx
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Detail)
}

// IsUnauthorized проверяет, является ли err ответом 401
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return errors.New("stopped after 10 redirects")
				}
				// Сохраняем bearer токен только при редиректе на тот же хост
				if len(via) > 0 && req.URL.Host == via[0].URL.Host {
					if auth := via[0].Header.Get("Authorization"); auth != "" {
						req.Header.Set("Authorization", auth)
					}
				}
				return nil
			},
		},
	}
}

// Register регистрирует новый аккаунт и возвращает его вместе с токеном
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	var resp api.RegisterResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/register", "", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login выполняет аутентификацию по email и паролю
func (c *Client) Login(ctx context.Context, email, password string) (*api.TokenResponse, error) {
	form := url.Values{"username": {email}, "password": {password}}
	var resp api.TokenResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/token", "",
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()), &resp)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Me возвращает аккаунт владельца токена
func (c *Client) Me(ctx context.Context, token string) (*api.AccountResponse, error) {
	var resp api.AccountResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/me", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("me request failed: %w", err)
	}
	return &resp, nil
}

// ListFarms возвращает фермы текущего аккаунта
func (c *Client) ListFarms(ctx context.Context, token string) ([]models.Farm, error) {
	var farms []models.Farm
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/farms", token, nil, &farms); err != nil {
		return nil, fmt.Errorf("list farms request failed: %w", err)
	}
	return farms, nil
}

// CreateFarm добавляет ферму текущему аккаунту
func (c *Client) CreateFarm(ctx context.Context, token string, req api.FarmRequest) (*models.Farm, error) {
	var farm models.Farm
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/farms", token, req, &farm); err != nil {
		return nil, fmt.Errorf("create farm request failed: %w", err)
	}
	return &farm, nil
}

// CurrentPrices возвращает цены за сегодня
// Можно ограничить рынком и культурой
func (c *Client) CurrentPrices(ctx context.Context, token, market, cropID string) ([]models.MarketPrice, error) {
	q := url.Values{}
	if market != "" {
		q.Set("market", market)
	}
	if cropID != "" {
		q.Set("crop_id", cropID)
	}
	path := "/api/v1/market/prices/current"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var prices []models.MarketPrice
	if err := c.doJSON(ctx, http.MethodGet, path, token, nil, &prices); err != nil {
		return nil, fmt.Errorf("current prices request failed: %w", err)
	}
	return prices, nil
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, body, result any) error {
	if body == nil {
		return c.do(ctx, method, path, token, "", nil, result)
	}
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	return c.do(ctx, method, path, token, "application/json", bytes.NewReader(data), result)
}

// do выполняет HTTP запрос и декодирует 2xx ответ в result
// Остальные статусы превращаются в *Error с detail от сервера
func (c *Client) do(ctx context.Context, method, path, token, contentType string, body io.Reader, result any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Detail != "" {
			return &Error{StatusCode: resp.StatusCode, Detail: errResp.Detail}
		}
		return &Error{StatusCode: resp.StatusCode, Detail: strings.TrimSpace(string(respBody))}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
