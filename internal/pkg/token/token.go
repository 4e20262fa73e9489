// Package token signs and verifies the opaque identity tokens used for
// bearer authentication. A token carries the user id (and optionally the
// email) and is valid for a fixed window from issuance; there is no
// renewal path short of logging in again.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the validity window applied when no TTL is configured.
const DefaultTTL = 7 * 24 * time.Hour

var ErrExpired = errors.New("token expired")
var ErrMalformed = errors.New("token malformed or badly signed")
var ErrMissingSubject = errors.New("token has no user identity")

// Claims is the verified identity carried by a token.
type Claims struct {
	UserID string
	Email  string
}

type jwtClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Codec issues and verifies HS256-signed identity tokens.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec builds a Codec around the process-wide signing secret.
// A zero ttl falls back to DefaultTTL.
func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// Issue produces a signed token for userID. Email is embedded when
// non-empty.
func (c *Codec) Issue(userID, email string) (string, error) {
	if userID == "" {
		return "", ErrMissingSubject
	}

	now := time.Now()
	claims := jwtClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify decodes and validates raw. It returns a typed error for every
// failure mode and never panics on attacker-controlled input.
func (c *Codec) Verify(raw string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrMalformed
	}

	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformed
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}

	return &Claims{UserID: claims.Subject, Email: claims.Email}, nil
}
