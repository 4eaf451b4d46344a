// Package auth implements account registration, password login and bearer
// token authentication.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/oops"

	"github.com/iudanet/fasalsaathi/internal/metrics"
	"github.com/iudanet/fasalsaathi/internal/models"
	"github.com/iudanet/fasalsaathi/internal/server/jwt"
	"github.com/iudanet/fasalsaathi/internal/server/storage"
	"github.com/iudanet/fasalsaathi/internal/validation"
	"github.com/iudanet/fasalsaathi/pkg/api"
)

var (
	// ErrEmailAlreadyRegistered is returned by Register for a taken email.
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	// ErrIncorrectCredentials is returned by Login for an unknown email or a
	// wrong password alike.
	ErrIncorrectCredentials = errors.New("incorrect email or password")
	// ErrUnauthenticated is returned by Authenticate when the token is
	// missing, invalid, expired or names no account.
	ErrUnauthenticated = errors.New("could not validate credentials")
	// ErrAccountInactive is returned by Authenticate for deactivated accounts.
	ErrAccountInactive = errors.New("inactive user")
)

// PasswordHasher hashes and checks account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
	VerifyDummy(password string) bool
	NeedsRehash(hash string) bool
}

// TokenService issues and verifies bearer tokens.
type TokenService interface {
	Issue(subject string) (string, error)
	Verify(token string) (string, error)
}

// Service coordinates the account store, the password hasher and the token
// service.
type Service struct {
	logger       *slog.Logger
	accounts     storage.AccountStorage
	hasher       PasswordHasher
	tokens       TokenService
	metrics      metrics.Recorder
	now          func() time.Time
	storeTimeout time.Duration
}

// Config holds the collaborators of a Service.
type Config struct {
	Logger   *slog.Logger
	Accounts storage.AccountStorage
	Hasher   PasswordHasher
	Tokens   TokenService
	// Metrics defaults to metrics.Nop.
	Metrics metrics.Recorder
	// StoreTimeout bounds every store call. Zero means no extra bound.
	StoreTimeout time.Duration
}

// NewService creates a Service.
func NewService(cfg Config) *Service {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Service{
		logger:       cfg.Logger,
		accounts:     cfg.Accounts,
		hasher:       cfg.Hasher,
		tokens:       cfg.Tokens,
		metrics:      recorder,
		now:          time.Now,
		storeTimeout: cfg.StoreTimeout,
	}
}

func (s *Service) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}

// Register validates req, creates an active account and issues a token for
// it. Validation failures are returned as *validation.Error.
func (s *Service) Register(ctx context.Context, req api.RegisterRequest) (*models.Account, string, error) {
	account, token, err := s.register(ctx, req)
	s.metrics.RecordAuth(metrics.EventRegister, err == nil)
	return account, token, err
}

func (s *Service) register(ctx context.Context, req api.RegisterRequest) (*models.Account, string, error) {
	req = req.Normalize()
	if err := validation.Struct(req); err != nil {
		return nil, "", err
	}

	email := validation.NormalizeEmail(req.Email)
	lang := req.LanguagePreference
	if lang == "" {
		lang = models.DefaultLanguage
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	_, err := s.accounts.GetAccountByEmail(storeCtx, email)
	switch {
	case err == nil:
		return nil, "", ErrEmailAlreadyRegistered
	case !errors.Is(err, storage.ErrNotFound):
		return nil, "", oops.Code("ACCOUNT_LOOKUP_FAILED").Wrap(err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, "", oops.Code("PASSWORD_HASH_FAILED").Wrap(err)
	}

	now := s.now().UTC()
	account := &models.Account{
		Email:              email,
		Phone:              req.Phone,
		FullName:           req.FullName,
		LanguagePreference: lang,
		PasswordHash:       hash,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	// The pre-check above is advisory; the store's unique index decides races.
	if err := s.accounts.CreateAccount(storeCtx, account); err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return nil, "", ErrEmailAlreadyRegistered
		}
		return nil, "", oops.Code("ACCOUNT_CREATE_FAILED").Wrap(err)
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, "", oops.Code("TOKEN_ISSUE_FAILED").With("account_id", account.ID).Wrap(err)
	}

	s.logger.InfoContext(ctx, "account registered", slog.String("account_id", account.ID))
	return account, token, nil
}

// Login checks the password for email and returns a bearer token. Unknown
// emails and wrong passwords both yield ErrIncorrectCredentials after the
// same amount of hashing work.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	token, err := s.login(ctx, email, password)
	s.metrics.RecordAuth(metrics.EventLogin, err == nil)
	return token, err
}

func (s *Service) login(ctx context.Context, email, password string) (string, error) {
	var missing []validation.FieldError
	if strings.TrimSpace(email) == "" {
		missing = append(missing, validation.FieldError{Field: "username", Message: "field required"})
	}
	if password == "" {
		missing = append(missing, validation.FieldError{Field: "password", Message: "field required"})
	}
	if len(missing) > 0 {
		return "", &validation.Error{Fields: missing}
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	account, err := s.accounts.GetAccountByEmail(storeCtx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.hasher.VerifyDummy(password)
			s.logger.InfoContext(ctx, "login failed", slog.String("reason", "unknown email"))
			return "", ErrIncorrectCredentials
		}
		return "", oops.Code("ACCOUNT_LOOKUP_FAILED").Wrap(err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		s.logger.InfoContext(ctx, "login failed",
			slog.String("reason", "wrong password"),
			slog.String("account_id", account.ID))
		return "", ErrIncorrectCredentials
	}

	if s.hasher.NeedsRehash(account.PasswordHash) {
		s.rehash(storeCtx, account, password)
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return "", oops.Code("TOKEN_ISSUE_FAILED").With("account_id", account.ID).Wrap(err)
	}

	s.logger.InfoContext(ctx, "login succeeded", slog.String("account_id", account.ID))
	return token, nil
}

// rehash upgrades a stored hash to the current algorithm and cost. Failures
// are logged and do not fail the login.
func (s *Service) rehash(ctx context.Context, account *models.Account, password string) {
	hash, err := s.hasher.Hash(password)
	if err == nil {
		err = s.accounts.UpdatePasswordHash(ctx, account.ID, hash)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "password rehash failed",
			slog.String("account_id", account.ID),
			slog.Any("error", err))
		return
	}
	s.logger.InfoContext(ctx, "password hash upgraded", slog.String("account_id", account.ID))
}

// Authenticate resolves a bearer token to an active account.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.Account, error) {
	account, err := s.authenticate(ctx, token)
	s.metrics.RecordAuth(metrics.EventAuthenticate, err == nil)
	return account, err
}

func (s *Service) authenticate(ctx context.Context, token string) (*models.Account, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	subject, err := s.tokens.Verify(token)
	if err != nil {
		reason := "malformed"
		if errors.Is(err, jwt.ErrExpired) {
			reason = "expired"
		}
		s.logger.DebugContext(ctx, "token rejected", slog.String("reason", reason))
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	account, err := s.accounts.GetAccountByID(storeCtx, subject)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.DebugContext(ctx, "token subject has no account", slog.String("account_id", subject))
			return nil, ErrUnauthenticated
		}
		return nil, oops.Code("ACCOUNT_LOOKUP_FAILED").With("account_id", subject).Wrap(err)
	}

	if !account.IsActive {
		return nil, ErrAccountInactive
	}
	return account, nil
}

// SetActive activates or deactivates the account registered with email.
// It returns storage.ErrNotFound for unknown emails.
func (s *Service) SetActive(ctx context.Context, email string, active bool) error {
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	account, err := s.accounts.GetAccountByEmail(storeCtx, email)
	if err != nil {
		return err
	}
	if err := s.accounts.SetAccountActive(storeCtx, account.ID, active); err != nil {
		return oops.Code("ACCOUNT_UPDATE_FAILED").With("account_id", account.ID).Wrap(err)
	}

	s.logger.InfoContext(ctx, "account active flag changed",
		slog.String("account_id", account.ID),
		slog.Bool("active", active))
	return nil
}

// SetPassword replaces the password of the account registered with email.
func (s *Service) SetPassword(ctx context.Context, email, password string) error {
	if len(password) < 6 {
		return &validation.Error{Fields: []validation.FieldError{{Field: "password", Message: "must be at least 6 characters"}}}
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	account, err := s.accounts.GetAccountByEmail(storeCtx, email)
	if err != nil {
		return err
	}
	if err := s.accounts.UpdatePasswordHash(storeCtx, account.ID, hash); err != nil {
		return oops.Code("ACCOUNT_UPDATE_FAILED").With("account_id", account.ID).Wrap(err)
	}

	s.logger.InfoContext(ctx, "password reset", slog.String("account_id", account.ID))
	return nil
}
