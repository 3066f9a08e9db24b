package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/session"
)

// ErrInvalidToken covers malformed, forged, expired and wrong-issuer tokens.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload carried by every session token.
type Claims struct {
	jwt.RegisteredClaims

	Username string       `json:"username"`
	Role     session.Role `json:"role"`
}

// UserID returns the numeric subject.
func (c Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// TokenManager issues and verifies signed JWTs for authenticated users.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a manager with the provided secret, issuer, and lifetime.
func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the lifetime of issued tokens.
func (t *TokenManager) TTL() time.Duration { return t.ttl }

// Generate issues a signed JWT string for the provided user.
func (t *TokenManager) Generate(user models.User) (string, error) {
	now := t.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    t.issuer,
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		Username: user.Email,
		Role:     user.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse verifies signature, issuer, and expiry, returning the claims.
func (t *TokenManager) Parse(raw string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !claims.Role.Valid() {
		return Claims{}, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}
	if _, err := claims.UserID(); err != nil {
		return Claims{}, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return claims, nil
}

// Session converts verified claims and their raw token into a client session.
func (c Claims) Session(raw string) *session.Session {
	return &session.Session{Token: raw, Username: c.Username, Role: c.Role}
}
