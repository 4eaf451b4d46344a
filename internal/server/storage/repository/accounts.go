package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/fasalsaathi/internal/models"
	"github.com/iudanet/fasalsaathi/internal/server/storage"
	"github.com/iudanet/fasalsaathi/internal/server/storage/docstore"
	"github.com/iudanet/fasalsaathi/internal/validation"
)

// Accounts implements storage.AccountStorage.
type Accounts struct {
	store docstore.Store
}

var _ storage.AccountStorage = (*Accounts)(nil)

// CreateAccount stores account and sets its ID. The email's uniqueness is
// enforced by the store index, so concurrent registrations cannot both win.
func (r *Accounts) CreateAccount(ctx context.Context, account *models.Account) error {
	account.Email = validation.NormalizeEmail(account.Email)

	key, err := r.store.Insert(ctx, collAccounts, accountToDocument(account))
	if err != nil {
		if errors.Is(err, docstore.ErrDuplicate) {
			return storage.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}

	account.ID = key.String()
	return nil
}

// GetAccountByEmail looks up an account by normalized email.
func (r *Accounts) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	rec, err := r.store.FindOne(ctx, collAccounts, docstore.Filter{"email": validation.NormalizeEmail(email)})
	if err != nil {
		return nil, notFound(err)
	}
	return accountFromDocument(rec.Key, rec.Doc), nil
}

// GetAccountByID looks up an account by its external id.
func (r *Accounts) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}

	doc, err := r.store.Get(ctx, collAccounts, key)
	if err != nil {
		return nil, notFound(err)
	}
	return accountFromDocument(key, doc), nil
}

// SetAccountActive flips the active flag.
func (r *Accounts) SetAccountActive(ctx context.Context, id string, active bool) error {
	return r.update(ctx, id, docstore.Document{"is_active": active})
}

// UpdatePasswordHash replaces the stored credential hash.
func (r *Accounts) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	return r.update(ctx, id, docstore.Document{"hashed_password": hash})
}

func (r *Accounts) update(ctx context.Context, id string, set docstore.Document) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}

	set["updated_at"] = time.Now()
	if err := r.store.Update(ctx, collAccounts, key, set); err != nil {
		return notFound(err)
	}
	return nil
}

func accountToDocument(a *models.Account) docstore.Document {
	return docstore.Document{
		"email":               a.Email,
		"phone":               a.Phone,
		"full_name":           a.FullName,
		"language_preference": a.LanguagePreference,
		"hashed_password":     a.PasswordHash,
		"is_active":           a.IsActive,
		"created_at":          a.CreatedAt,
		"updated_at":          a.UpdatedAt,
	}
}

func accountFromDocument(key docstore.Key, d docstore.Document) *models.Account {
	return &models.Account{
		ID:                 key.String(),
		Email:              d.String("email"),
		Phone:              d.String("phone"),
		FullName:           d.String("full_name"),
		LanguagePreference: d.String("language_preference"),
		PasswordHash:       d.String("hashed_password"),
		IsActive:           d.Bool("is_active"),
		CreatedAt:          d.Time("created_at"),
		UpdatedAt:          d.Time("updated_at"),
	}
}
