// Package auth implements session token issuance and password hashing.
package auth

import (
	"errors"
	"strconv"
	"time"

	"inkwell/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long an issued session token remains valid.
// Tokens are stateless; there is no server-side record and no revocation
// before expiry. Signout only removes the client's copy.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Identity is the verified content of a session token.
type Identity struct {
	UserID  uint
	IsAdmin bool
}

type sessionClaims struct {
	ID      string `json:"id"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-limited session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService returns a TokenService signing with the given secret and
// the default 7-day expiry.
func NewTokenService(secret string) *TokenService {
	return NewTokenServiceWithTTL(secret, DefaultTokenTTL)
}

// NewTokenServiceWithTTL is like NewTokenService with an explicit token
// lifetime. Tests use it to mint already-expired tokens.
func NewTokenServiceWithTTL(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token encoding the user id, admin flag, and expiry.
func (s *TokenService) Issue(userID uint, isAdmin bool) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("token secret not configured")
	}

	claims := sessionClaims{
		ID:      strconv.FormatUint(uint64(userID), 10),
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the token's signature and expiry and returns the identity it
// encodes. It performs no I/O: the caller is responsible for confirming the
// identity still resolves to a live user.
func (s *TokenService) Verify(tokenString string) (*Identity, error) {
	if tokenString == "" {
		return nil, models.NewMissingTokenError()
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, models.NewExpiredTokenError()
		}
		return nil, models.NewInvalidTokenError()
	}
	if !token.Valid {
		return nil, models.NewInvalidTokenError()
	}

	userID, err := strconv.ParseUint(claims.ID, 10, 32)
	if err != nil {
		return nil, models.NewInvalidTokenError()
	}

	return &Identity{UserID: uint(userID), IsAdmin: claims.IsAdmin}, nil
}
