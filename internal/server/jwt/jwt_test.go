package jwt

import (
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-key-with-at-least-32-bytes!")

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func newTestService(t *testing.T, cfg Config) (*Service, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	if cfg.Secret == nil {
		cfg.Secret = testSecret
	}
	s, err := NewService(cfg, WithClock(clock.Now))
	require.NoError(t, err)
	return s, clock
}

func TestNewService_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "defaults", cfg: Config{Secret: testSecret}},
		{name: "hs512", cfg: Config{Secret: testSecret, Algorithm: "HS512"}},
		{name: "missing secret", cfg: Config{}, wantErr: true},
		{name: "asymmetric algorithm", cfg: Config{Secret: testSecret, Algorithm: "RS256"}, wantErr: true},
		{name: "none algorithm", cfg: Config{Secret: testSecret, Algorithm: "none"}, wantErr: true},
		{name: "unknown algorithm", cfg: Config{Secret: testSecret, Algorithm: "XX1"}, wantErr: true},
		{name: "leeway too large", cfg: Config{Secret: testSecret, Leeway: 6 * time.Second}, wantErr: true},
		{name: "negative ttl", cfg: Config{Secret: testSecret, TTL: -time.Minute}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewService(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DefaultTTL, s.TTL())
		})
	}
}

func TestService_IssueVerify(t *testing.T) {
	s, _ := newTestService(t, Config{})

	token, err := s.Issue("0195f0a4-7b1c-7c3e-9a51-3f1f5a2b9c10")
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(token, ".")+1)

	subject, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "0195f0a4-7b1c-7c3e-9a51-3f1f5a2b9c10", subject)
}

func TestService_IssueEmptySubject(t *testing.T) {
	s, _ := newTestService(t, Config{})

	_, err := s.Issue("")
	assert.Error(t, err)
}

func TestService_Expiry(t *testing.T) {
	s, clock := newTestService(t, Config{TTL: 30 * time.Minute})
	issuedAt := clock.now

	token, err := s.Issue("account-1")
	require.NoError(t, err)

	clock.now = issuedAt.Add(30*time.Minute - time.Second)
	subject, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "account-1", subject)

	clock.now = issuedAt.Add(30*time.Minute + time.Second)
	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrExpired)
	assert.NotErrorIs(t, err, ErrMalformed)
}

func TestService_Leeway(t *testing.T) {
	s, clock := newTestService(t, Config{TTL: time.Minute, Leeway: 5 * time.Second})
	issuedAt := clock.now

	token, err := s.Issue("account-1")
	require.NoError(t, err)

	clock.now = issuedAt.Add(time.Minute + 3*time.Second)
	_, err = s.Verify(token)
	require.NoError(t, err)

	clock.now = issuedAt.Add(time.Minute + 6*time.Second)
	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestService_IssueWithTTL(t *testing.T) {
	s, clock := newTestService(t, Config{})
	issuedAt := clock.now

	token, err := s.IssueWithTTL("account-1", 2*time.Hour)
	require.NoError(t, err)

	clock.now = issuedAt.Add(90 * time.Minute)
	_, err = s.Verify(token)
	assert.NoError(t, err)
}

func TestService_TamperedToken(t *testing.T) {
	s, _ := newTestService(t, Config{})

	token, err := s.Issue("account-1")
	require.NoError(t, err)

	for i := range len(token) {
		if token[i] == '.' {
			continue
		}
		replacement := byte('A')
		if token[i] == 'A' {
			replacement = 'B'
		}
		tampered := token[:i] + string(replacement) + token[i+1:]

		_, err := s.Verify(tampered)
		require.Error(t, err, "byte %d", i)
		assert.ErrorIs(t, err, ErrMalformed, "byte %d", i)
	}
}

func TestService_RejectsForeignTokens(t *testing.T) {
	s, clock := newTestService(t, Config{})
	claims := gojwt.RegisteredClaims{
		Subject:   "account-1",
		Issuer:    issuer,
		ExpiresAt: gojwt.NewNumericDate(clock.now.Add(time.Hour)),
	}

	otherKey, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("another-secret"))
	require.NoError(t, err)

	otherAlg, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, claims).SignedString(testSecret)
	require.NoError(t, err)

	unsigned, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, claims).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{
		Subject: "account-1",
		Issuer:  issuer,
	}).SignedString(testSecret)
	require.NoError(t, err)

	noSubject, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{
		Issuer:    issuer,
		ExpiresAt: gojwt.NewNumericDate(clock.now.Add(time.Hour)),
	}).SignedString(testSecret)
	require.NoError(t, err)

	tests := map[string]string{
		"different key":       otherKey,
		"different algorithm": otherAlg,
		"alg none":            unsigned,
		"missing expiry":      noExpiry,
		"missing subject":     noSubject,
		"empty":               "",
		"garbage":             "not.a.token",
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := s.Verify(token)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}
