package storage

import (
	"context"

	"github.com/iudanet/fasalsaathi/internal/models"
)

// AccountStorage persists accounts.
//
//go:generate moq -out ../auth/account_storage_mock_test.go -pkg auth . AccountStorage
type AccountStorage interface {
	// CreateAccount stores a new account and fills in its ID.
	// Returns ErrDuplicateEmail if the email is taken.
	CreateAccount(ctx context.Context, account *models.Account) error

	// GetAccountByEmail returns ErrNotFound if no account has this email.
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)

	// GetAccountByID returns ErrNotFound for unknown or malformed ids.
	GetAccountByID(ctx context.Context, id string) (*models.Account, error)

	// SetAccountActive flips the active flag.
	SetAccountActive(ctx context.Context, id string, active bool) error

	// UpdatePasswordHash replaces the stored credential hash.
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}
