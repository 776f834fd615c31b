package token

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for absent, malformed or wrongly signed tokens.
var ErrInvalidToken = errors.New("invalid token")

// Claims carries the identity payload the storefront expects: {"user":{"id":...}}.
// Tokens are issued without expiry; the wire contract has no refresh flow.
type Claims struct {
	User UserRef `json:"user"`
	jwt.RegisteredClaims
}

type UserRef struct {
	ID string `json:"id"`
}

type Service struct {
	secret []byte
}

func New(secret []byte) *Service {
	return &Service{secret: secret}
}

func (s *Service) Issue(userID string) (string, error) {
	claims := &Claims{User: UserRef{ID: userID}}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *Service) Verify(raw string) (string, error) {
	if raw == "" {
		return "", ErrInvalidToken
	}

	t, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !t.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := t.Claims.(*Claims)
	if !ok || claims.User.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.User.ID, nil
}
