package api

import (
	"strings"
	"time"
)

// RegisterRequest is the body of POST /api/v1/register.
type RegisterRequest struct {
	Email              string `json:"email" validate:"required,email"`
	Phone              string `json:"phone" validate:"required,min=10,max=20"`
	FullName           string `json:"full_name" validate:"required,max=200"`
	Password           string `json:"password" validate:"required,min=6,maxbytes=72"`
	LanguagePreference string `json:"language_preference" validate:"omitempty,max=10"`
}

// Normalize returns a copy of r with surrounding whitespace removed from the
// profile fields. The password is kept as typed.
func (r RegisterRequest) Normalize() RegisterRequest {
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.FullName = strings.TrimSpace(r.FullName)
	r.LanguagePreference = strings.TrimSpace(r.LanguagePreference)
	return r
}

// AccountResponse is the public representation of an account.
type AccountResponse struct {
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone"`
	FullName           string    `json:"full_name"`
	LanguagePreference string    `json:"language_preference"`
	IsActive           bool      `json:"is_active"`
}

// RegisterResponse is the created account with a token for immediate use.
type RegisterResponse struct {
	AccountResponse
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TokenResponse is returned by POST /api/v1/token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TokenTypeBearer is the only token type issued.
const TokenTypeBearer = "bearer"
