package models

import "time"

// DefaultLanguage is assigned when a registration omits language_preference.
const DefaultLanguage = "en"

// Account represents a registered user of the platform.
type Account struct {
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	ID                 string    `json:"id"`                  // external form of the store key
	Email              string    `json:"email"`               // normalized, unique
	Phone              string    `json:"phone"`
	FullName           string    `json:"full_name"`
	LanguagePreference string    `json:"language_preference"` // ISO 639-1 code
	PasswordHash       string    `json:"-"`                   // bcrypt or legacy argon2id PHC string
	IsActive           bool      `json:"is_active"`
}
