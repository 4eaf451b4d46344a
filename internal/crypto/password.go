// Package crypto реализует хеширование паролей аккаунтов.
package crypto

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost - cost bcrypt по умолчанию
	DefaultCost = 12
	// MaxPasswordBytes - максимальная длина входа bcrypt
	MaxPasswordBytes = 72

	dummyPassword = "fasalsaathi-dummy-password"
)

// ErrPasswordTooLong возвращается Hash для паролей длиннее MaxPasswordBytes
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// PasswordHasher хеширует пароли через bcrypt
// Проверяет как bcrypt, так и старые argon2id хеши
type PasswordHasher struct {
	logger    *slog.Logger
	dummyHash []byte
	cost      int
}

// NewPasswordHasher создает hasher с заданным cost
// Dummy хеш считается заранее, чтобы VerifyDummy занимал столько же времени,
// сколько настоящая проверка
func NewPasswordHasher(logger *slog.Logger, cost int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, oops.Code("PASSWORD_INVALID_COST").
			With("cost", cost).
			Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte(dummyPassword), cost)
	if err != nil {
		return nil, oops.Code("PASSWORD_HASH_FAILED").Wrap(err)
	}

	return &PasswordHasher{
		logger:    logger,
		cost:      cost,
		dummyHash: dummy,
	}, nil
}

// Hash возвращает bcrypt хеш пароля в формате modular crypt
func (h *PasswordHasher) Hash(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", oops.Code("PASSWORD_HASH_FAILED").Wrap(err)
	}
	return string(hash), nil
}

// Verify проверяет, соответствует ли пароль хешу
// Поврежденные хеши логируются и считаются несовпадением
func (h *PasswordHasher) Verify(password, hash string) bool {
	if strings.HasPrefix(hash, argon2idPrefix) {
		ok, err := verifyArgon2id(password, hash)
		if err != nil {
			h.logger.Warn("malformed stored password hash", slog.String("scheme", "argon2id"), slog.Any("error", err))
			return false
		}
		return ok
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true
	}
	if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		h.logger.Warn("malformed stored password hash", slog.String("scheme", "bcrypt"), slog.Any("error", err))
	}
	return false
}

// VerifyDummy тратит столько же работы, сколько Verify, и всегда возвращает false
// Используется, когда аккаунт для входа не найден
func (h *PasswordHasher) VerifyDummy(password string) bool {
	_ = bcrypt.CompareHashAndPassword(h.dummyHash, []byte(password))
	return false
}

// NeedsRehash сообщает, получен ли хеш другим алгоритмом или с другим cost
func (h *PasswordHasher) NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return true
	}
	return cost != h.cost
}
