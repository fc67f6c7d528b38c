package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the fields of a Supabase access token the application reads.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenVerifier checks bearer tokens. With the project JWT secret configured
// tokens are verified locally, otherwise the backend is asked.
type TokenVerifier struct {
	secret  []byte
	backend Backend
}

func NewTokenVerifier(secret string, backend Backend) *TokenVerifier {
	v := &TokenVerifier{backend: backend}
	if secret != "" {
		v.secret = []byte(secret)
	}
	return v
}

func (v *TokenVerifier) Verify(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	if v.secret == nil {
		user, err := v.backend.GetUser(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		return user, nil
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &User{
		ID:    claims.Subject,
		Email: claims.Email,
		Role:  claims.Role,
	}, nil
}
