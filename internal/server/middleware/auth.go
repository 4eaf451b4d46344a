package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/fasalsaathi/internal/logging"
	"github.com/iudanet/fasalsaathi/internal/models"
	"github.com/iudanet/fasalsaathi/internal/server/auth"
)

const (
	unauthenticatedDetail = "Could not validate credentials"
	inactiveDetail        = "Inactive user"
)

// Authenticator сопоставляет bearer токен активному аккаунту
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Account, error)
}

type accountKey struct{}

// WithAccount возвращает копию ctx с аккаунтом
func WithAccount(ctx context.Context, account *models.Account) context.Context {
	return context.WithValue(ctx, accountKey{}, account)
}

// AccountFromContext возвращает аккаунт, добавленный AuthMiddleware
func AccountFromContext(ctx context.Context) (*models.Account, bool) {
	account, ok := ctx.Value(accountKey{}).(*models.Account)
	return account, ok && account != nil
}

// AuthMiddleware создает middleware для проверки bearer токена
// Запросы без валидного токена активного аккаунта отклоняются, иначе аккаунт
// добавляется в контекст запроса. inactiveStatus - статус для деактивированных аккаунтов
func AuthMiddleware(logger *slog.Logger, authn Authenticator, inactiveStatus int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				logger.DebugContext(ctx, "missing or malformed Authorization header")
				challenge(w)
				return
			}

			account, err := authn.Authenticate(ctx, token)
			switch {
			case err == nil:
			case errors.Is(err, auth.ErrUnauthenticated):
				challenge(w)
				return
			case errors.Is(err, auth.ErrAccountInactive):
				logger.InfoContext(ctx, "inactive account rejected")
				WriteDetail(w, inactiveStatus, inactiveDetail)
				return
			default:
				logging.LogError(ctx, logger, "authentication failed", err)
				WriteDetail(w, http.StatusInternalServerError, InternalErrorDetail)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAccount(ctx, account)))
		})
	}
}

// bearerToken извлекает токен из "Bearer <token>"
// Схема сравнивается без учета регистра
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

func challenge(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	WriteDetail(w, http.StatusUnauthorized, unauthenticatedDetail)
}
