package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService() *TokenService {
	return NewTokenService([]byte("test_jwt_secret_key_for_testing_only"), 30*time.Minute)
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.Generate("a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)
	assert.Greater(t, claims.ExpiresAt, time.Now().Unix())
}

func TestTokenService_ZeroTTLIsExpired(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.GenerateWithTTL("a@x.com", 0)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenService_InvalidTokens(t *testing.T) {
	svc := newTestTokenService()

	cases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"missing segments", "abcdef"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Validate(tc.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokenService_WrongKeyRejected(t *testing.T) {
	svc := newTestTokenService()
	other := NewTokenService([]byte("a_completely_different_secret"), 30*time.Minute)

	token, err := svc.Generate("a@x.com")
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_TamperedTokenRejected(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.Generate("a@x.com")
	require.NoError(t, err)

	tampered := token + "AA"
	_, err = svc.Validate(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_MissingSubjectRejected(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.Generate("")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
