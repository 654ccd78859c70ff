package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalid covers expired, tampered and malformed tokens alike so the
// caller never leaks which check failed.
var ErrTokenInvalid = errors.New("auth: invalid token")

// Claims carried inside an access token.
type Claims struct {
	CreatedTime int64 `json:"createdTime"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HMAC signed access tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a manager signing with the given secret.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue creates a signed token for the user id.
func (m *TokenManager) Issue(userID string, createdTime time.Time) (string, error) {
	now := m.now().UTC()
	claims := Claims{
		CreatedTime: createdTime.UnixMilli(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses a token and returns the subject user id.
func (m *TokenManager) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return "", ErrTokenInvalid
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}
