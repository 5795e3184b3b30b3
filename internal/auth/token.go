package auth

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims carried by an access token. The subject is the user's email.
type Claims struct {
	jwt.StandardClaims
}

// TokenService issues and validates signed bearer tokens. Tokens are
// stateless: there is no server-side session store and no revocation list.
type TokenService struct {
	key []byte
	ttl time.Duration
}

func NewTokenService(key []byte, ttl time.Duration) *TokenService {
	return &TokenService{key: key, ttl: ttl}
}

// Generate signs an HS256 token for the given subject using the configured
// time to live.
func (s *TokenService) Generate(subject string) (string, error) {
	return s.GenerateWithTTL(subject, s.ttl)
}

// GenerateWithTTL signs an HS256 token expiring after the given duration.
func (s *TokenService) GenerateWithTTL(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   subject,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.key)
}

// Validate verifies signature and expiry. Malformed, unparseable or badly
// signed tokens yield ErrInvalidToken; a token whose expiry has been
// reached yields ErrTokenExpired. A token issued with a zero TTL is
// already expired at its issuance instant.
func (s *TokenService) Validate(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	parser := &jwt.Parser{
		ValidMethods:         []string{jwt.SigningMethodHS256.Alg()},
		SkipClaimsValidation: true,
	}

	token, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return s.key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	if time.Now().Unix() >= claims.ExpiresAt {
		return nil, ErrTokenExpired
	}

	return claims, nil
}
