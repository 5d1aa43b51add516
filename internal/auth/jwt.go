// Package auth issues and verifies the HS256 bearer tokens that gate
// both the HTTP API and the websocket endpoint.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/corkboardhq/corkboard/internal/domain"
)

// Claims holds the JWT token payload. The identity fields ride along so
// sessions can be stamped without a user lookup on every connection.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

// ErrInvalidToken is returned when a JWT cannot be parsed or has expired.
var ErrInvalidToken = errors.New("auth: invalid or expired token")

// Issue creates a signed token carrying the identity.
func Issue(secret string, id domain.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "corkboard",
		},
		UserID: id.ID.String(),
		Name:   id.Name,
		Email:  id.Email,
		Role:   id.Role,
		Avatar: id.AvatarURL,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("auth.Issue: %w", err)
	}

	return signed, nil
}

// Verifier validates tokens against a shared secret.
type Verifier struct {
	secret string
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: secret}
}

// Verify parses and validates a token string and returns the embedded
// identity.
func (v *Verifier) Verify(tokenString string) (domain.Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return []byte(v.secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return domain.Identity{}, fmt.Errorf("auth.Verifier.Verify: %w", ErrInvalidToken)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("auth.Verifier.Verify: %w", ErrInvalidToken)
	}

	return domain.Identity{
		ID:        userID,
		Name:      claims.Name,
		Email:     claims.Email,
		Role:      claims.Role,
		AvatarURL: claims.Avatar,
	}, nil
}
