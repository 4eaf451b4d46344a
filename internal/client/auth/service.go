// Package auth manages the client's login session: it talks to the API for
// register and login and keeps the resulting token in local storage.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/fasalsaathi/internal/client/storage"
	"github.com/iudanet/fasalsaathi/internal/validation"
	pkgapi "github.com/iudanet/fasalsaathi/pkg/api"
)

var (
	// ErrNotLoggedIn is returned when no session is stored for the server.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrSessionExpired is returned when the stored token is past its expiry.
	ErrSessionExpired = errors.New("session expired, please log in again")
)

// API is the part of the HTTP client used for session management.
type API interface {
	Register(ctx context.Context, req pkgapi.RegisterRequest) (*pkgapi.RegisterResponse, error)
	Login(ctx context.Context, email, password string) (*pkgapi.TokenResponse, error)
	Me(ctx context.Context, token string) (*pkgapi.AccountResponse, error)
}

// Service keeps one session per local database.
type Service struct {
	api       API
	store     storage.SessionStorage
	serverURL string
	now       func() time.Time
}

// NewService creates a Service bound to serverURL.
func NewService(api API, store storage.SessionStorage, serverURL string) *Service {
	return &Service{
		api:       api,
		store:     store,
		serverURL: strings.TrimRight(serverURL, "/"),
		now:       time.Now,
	}
}

// Register creates an account and stores its session.
func (s *Service) Register(ctx context.Context, req pkgapi.RegisterRequest) (*pkgapi.RegisterResponse, error) {
	req.Email = validation.NormalizeEmail(req.Email)
	if err := validation.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid registration: %w", err)
	}

	resp, err := s.api.Register(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.save(ctx, resp.Email, resp.ID, resp.AccessToken); err != nil {
		return nil, err
	}
	return resp, nil
}

// Login authenticates and stores the session.
func (s *Service) Login(ctx context.Context, email, password string) (*storage.Session, error) {
	email = validation.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}

	token, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	me, err := s.api.Me(ctx, token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if err := s.save(ctx, me.Email, me.ID, token.AccessToken); err != nil {
		return nil, err
	}
	return s.store.GetSession(ctx)
}

// Logout forgets the stored session.
func (s *Service) Logout(ctx context.Context) error {
	err := s.store.DeleteSession(ctx)
	if errors.Is(err, storage.ErrSessionNotFound) {
		return ErrNotLoggedIn
	}
	return err
}

// Session returns the stored session if it belongs to this server and has
// not expired. Expired sessions are removed.
func (s *Service) Session(ctx context.Context) (*storage.Session, error) {
	session, err := s.store.GetSession(ctx)
	if errors.Is(err, storage.ErrSessionNotFound) {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, err
	}
	if session.ServerURL != s.serverURL {
		return nil, ErrNotLoggedIn
	}
	if session.Expired(s.now()) {
		if err := s.store.DeleteSession(ctx); err != nil && !errors.Is(err, storage.ErrSessionNotFound) {
			return nil, err
		}
		return nil, ErrSessionExpired
	}
	return session, nil
}

// Token returns the bearer token of the current session.
func (s *Service) Token(ctx context.Context) (string, error) {
	session, err := s.Session(ctx)
	if err != nil {
		return "", err
	}
	return session.AccessToken, nil
}

func (s *Service) save(ctx context.Context, email, accountID, token string) error {
	session := &storage.Session{
		ServerURL:   s.serverURL,
		Email:       email,
		AccountID:   accountID,
		AccessToken: token,
		ExpiresAt:   tokenExpiry(token),
	}
	if err := s.store.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// tokenExpiry reads the exp claim without verifying the signature; the
// client never holds the signing key. Unparsable tokens have no known expiry.
func tokenExpiry(token string) time.Time {
	claims := &gojwt.RegisteredClaims{}
	if _, _, err := gojwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.UTC()
}
