// Package jwt issues and verifies signed session tokens.
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultTTL is the token lifetime when none is configured.
	DefaultTTL = 30 * time.Minute
	// MaxLeeway bounds the clock skew tolerance accepted by the verifier.
	MaxLeeway = 5 * time.Second

	issuer = "fasalsaathi"
)

var (
	// ErrMalformed covers unparsable tokens, bad signatures and unexpected algorithms.
	ErrMalformed = errors.New("token malformed")
	// ErrExpired is returned when the token is past its expiry.
	ErrExpired = errors.New("token expired")
)

// Config holds token signing parameters.
type Config struct {
	Secret    []byte
	Algorithm string // HS256, HS384 or HS512
	TTL       time.Duration
	Leeway    time.Duration
}

// Service signs and verifies tokens with a single symmetric key.
// The key and algorithm never change after construction.
type Service struct {
	method *gojwt.SigningMethodHMAC
	parser *gojwt.Parser
	now    func() time.Time
	secret []byte
	ttl    time.Duration
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces the wall clock used for issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService validates cfg and builds a Service.
func NewService(cfg Config, opts ...Option) (*Service, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("jwt secret is required")
	}

	alg := cfg.Algorithm
	if alg == "" {
		alg = gojwt.SigningMethodHS256.Alg()
	}
	method, ok := gojwt.GetSigningMethod(alg).(*gojwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported jwt algorithm %q: only HMAC algorithms are allowed", alg)
	}

	if cfg.Leeway < 0 || cfg.Leeway > MaxLeeway {
		return nil, fmt.Errorf("jwt leeway must be between 0 and %s", MaxLeeway)
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	if ttl < 0 {
		return nil, errors.New("jwt ttl must be positive")
	}

	s := &Service{
		method: method,
		secret: cfg.Secret,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.parser = gojwt.NewParser(
		gojwt.WithValidMethods([]string{method.Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithIssuer(issuer),
		gojwt.WithLeeway(cfg.Leeway),
		gojwt.WithTimeFunc(func() time.Time { return s.now() }),
		gojwt.WithStrictDecoding(),
	)

	return s, nil
}

// TTL returns the default token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for subject that expires after the default TTL.
func (s *Service) Issue(subject string) (string, error) {
	return s.IssueWithTTL(subject, s.ttl)
}

// IssueWithTTL signs a token for subject that expires after ttl.
func (s *Service) IssueWithTTL(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("token subject is required")
	}

	now := s.now()
	claims := gojwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    issuer,
		IssuedAt:  gojwt.NewNumericDate(now),
		ExpiresAt: gojwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := gojwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token and returns its subject.
// It fails with ErrExpired or ErrMalformed; the underlying cause is wrapped.
func (s *Service) Verify(token string) (string, error) {
	var claims gojwt.RegisteredClaims
	_, err := s.parser.ParseWithClaims(token, &claims, func(t *gojwt.Token) (interface{}, error) {
		// Парсер уже ограничивает alg, проверяем метод еще раз явно
		if t.Method != s.method {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, gojwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: %w", ErrExpired, err)
		}
		return "", fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrMalformed)
	}
	return claims.Subject, nil
}
