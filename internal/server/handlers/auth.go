package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/fasalsaathi/internal/models"
	"github.com/iudanet/fasalsaathi/internal/server/auth"
	"github.com/iudanet/fasalsaathi/internal/server/middleware"
	"github.com/iudanet/fasalsaathi/pkg/api"
)

// AuthService - часть auth.Service, которую использует AuthHandler
type AuthService interface {
	Register(ctx context.Context, req api.RegisterRequest) (*models.Account, string, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	base
	svc AuthService
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, svc AuthService) *AuthHandler {
	return &AuthHandler{base: base{logger: logger}, svc: svc}
}

// Register обрабатывает POST /api/v1/register
// Регистрация нового аккаунта
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	account, token, err := h.svc.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailAlreadyRegistered):
			h.sendError(w, "Email already registered.", http.StatusBadRequest)
		default:
			h.sendValidationError(w, r, err)
		}
		return
	}

	h.sendJSON(w, r, api.RegisterResponse{
		AccountResponse: accountResponse(account),
		AccessToken:     token,
		TokenType:       api.TokenTypeBearer,
	}, http.StatusCreated)
}

// Token обрабатывает POST /api/v1/token (form: username, password)
// Неизвестный email и неверный пароль дают одинаковый ответ
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		h.sendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	token, err := h.svc.Login(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		if errors.Is(err, auth.ErrIncorrectCredentials) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			h.sendError(w, "Incorrect email or password", http.StatusUnauthorized)
			return
		}
		h.sendValidationError(w, r, err)
		return
	}

	h.sendJSON(w, r, api.TokenResponse{AccessToken: token, TokenType: api.TokenTypeBearer}, http.StatusOK)
}

// Me обрабатывает GET /api/v1/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		h.sendInternalError(w, r, "me served without auth gate", errors.New("no account in context"))
		return
	}
	h.sendJSON(w, r, accountResponse(account), http.StatusOK)
}

func accountResponse(a *models.Account) api.AccountResponse {
	return api.AccountResponse{
		ID:                 a.ID,
		Email:              a.Email,
		Phone:              a.Phone,
		FullName:           a.FullName,
		LanguagePreference: a.LanguagePreference,
		IsActive:           a.IsActive,
		CreatedAt:          a.CreatedAt.UTC(),
		UpdatedAt:          a.UpdatedAt.UTC(),
	}
}
