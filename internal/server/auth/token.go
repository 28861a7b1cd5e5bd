// Package auth issues and validates the signed access tokens returned by a
// successful login. Tokens are HS256 JWTs carrying sub/iat/exp; validation is
// total over arbitrary input strings and never panics.
package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/authgate/internal/common"
)

// MinKeyBytes is the minimum amount of signing key material accepted,
// 256 bits as recommended for HS256.
const MinKeyBytes = 32

// Issuer signs and validates access tokens with a single process-wide key.
// It is immutable after construction and safe for concurrent use.
type Issuer struct {
	key      []byte
	lifetime time.Duration
}

// NewIssuer derives the signing key from the configured secret and fixes the
// token lifetime. A secret that decodes cleanly as base64 (standard or URL,
// padded or raw) contributes its decoded bytes; anything else is used as raw
// key material. Lifetime zero is allowed and produces already-expired tokens.
func NewIssuer(secret string, lifetime time.Duration) (*Issuer, error) {
	if lifetime < 0 {
		return nil, fmt.Errorf("token lifetime must be non-negative, got %v", lifetime)
	}

	key := decodeSecret(secret)
	if len(key) < MinKeyBytes {
		return nil, fmt.Errorf("signing secret yields %d bytes of key material, need at least %d", len(key), MinKeyBytes)
	}

	return &Issuer{key: key, lifetime: lifetime}, nil
}

func decodeSecret(secret string) []byte {
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.RawURLEncoding,
	} {
		if b, err := enc.DecodeString(secret); err == nil {
			return b
		}
	}
	return []byte(secret)
}

// Issue signs a token binding the subject to the configured expiry window.
func (i *Issuer) Issue(subject string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.lifetime)),
	})

	tokenString, err := token.SignedString(i.key)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Subject verifies the token's signature and expiry and returns its subject.
// The distinction between the sentinel errors is for logging only and must
// not reach untrusted callers.
func (i *Issuer) Subject(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.key, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", common.ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", common.ErrTokenExpired
		default:
			return "", common.ErrInvalidToken
		}
	}

	if !token.Valid || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}

// Validate reports whether the token is genuine, unexpired and bound to the
// expected subject. It returns false for any malformed or tampered input.
func (i *Issuer) Validate(tokenString, expectedSubject string) bool {
	subject, err := i.Subject(tokenString)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(subject), []byte(expectedSubject)) == 1
}
