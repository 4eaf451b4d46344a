// Package handlers implements the HTTP endpoints of the API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/iudanet/fasalsaathi/internal/logging"
	"github.com/iudanet/fasalsaathi/internal/server/middleware"
	"github.com/iudanet/fasalsaathi/internal/validation"
)

const maxBodyBytes = 1 << 20

// base содержит общие зависимости handler'ов
type base struct {
	logger       *slog.Logger
	storeTimeout time.Duration
}

// storeContext ограничивает по времени обращения к хранилищу
func (b base) storeContext(r *http.Request) (context.Context, context.CancelFunc) {
	if b.storeTimeout <= 0 {
		return r.Context(), func() {}
	}
	return context.WithTimeout(r.Context(), b.storeTimeout)
}

// sendJSON отправляет JSON ответ
func (b base) sendJSON(w http.ResponseWriter, r *http.Request, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		b.logger.ErrorContext(r.Context(), "failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет {"detail": detail}
func (b base) sendError(w http.ResponseWriter, detail string, statusCode int) {
	middleware.WriteDetail(w, statusCode, detail)
}

// sendInternalError логирует ошибку и отправляет общий ответ 500
func (b base) sendInternalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logging.LogError(r.Context(), b.logger, msg, err)
	b.sendError(w, middleware.InternalErrorDetail, http.StatusInternalServerError)
}

// decodeAndValidate парсит JSON body в dst и проверяет validate теги
// При ошибке сам отправляет 400 и возвращает false
func (b base) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		b.logger.DebugContext(r.Context(), "failed to decode request body", slog.Any("error", err))
		b.sendError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	if err := validation.Struct(dst); err != nil {
		b.sendValidationError(w, r, err)
		return false
	}
	return true
}

// sendValidationError отправляет ошибки полей как 400
// Остальные ошибки считаются внутренними
func (b base) sendValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		b.sendError(w, verr.Error(), http.StatusBadRequest)
		return
	}
	b.sendInternalError(w, r, "request validation failed", err)
}

// intQuery парсит целый query параметр в диапазоне [lo, hi]
// Если параметра нет, возвращает def
func intQuery(r *http.Request, name string, def, lo, hi int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		return 0, &validation.Error{Fields: []validation.FieldError{{
			Field:   name,
			Message: "must be an integer between " + strconv.Itoa(lo) + " and " + strconv.Itoa(hi),
		}}}
	}
	return v, nil
}

// floatQuery парсит дробный query параметр в диапазоне [lo, hi]
// Если параметра нет, возвращает def
func floatQuery(r *http.Request, name string, def, lo, hi float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < lo || v > hi {
		return 0, &validation.Error{Fields: []validation.FieldError{{
			Field:   name,
			Message: "must be a number between " + strconv.FormatFloat(lo, 'f', -1, 64) + " and " + strconv.FormatFloat(hi, 'f', -1, 64),
		}}}
	}
	return v, nil
}

// currentAccountID возвращает id аккаунта из контекста
// Используется только в маршрутах за AuthMiddleware
func currentAccountID(r *http.Request) string {
	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		return ""
	}
	return account.ID
}
