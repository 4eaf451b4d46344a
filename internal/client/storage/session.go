// Package storage defines the local persistence used by the client CLI.
package storage

import (
	"context"
	"time"
)

// SessionStorage keeps the current login between CLI invocations.
type SessionStorage interface {
	// SaveSession replaces the stored session.
	SaveSession(ctx context.Context, session *Session) error

	// GetSession returns ErrSessionNotFound when no one is logged in.
	GetSession(ctx context.Context) (*Session, error)

	// DeleteSession removes the stored session (logout).
	// Returns ErrSessionNotFound when there is nothing to remove.
	DeleteSession(ctx context.Context) error
}

// Session is a logged-in identity and its bearer token.
type Session struct {
	ServerURL   string    `json:"server_url"`
	Email       string    `json:"email"`
	AccountID   string    `json:"account_id,omitempty"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"` // zero when the token carries no expiry
}

// Expired reports whether the token is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
