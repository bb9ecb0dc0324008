package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is what authentication needs to know about a user.
type Identity struct {
	UserID       uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	IsActive     bool
	RoleID       uuid.UUID
	RoleCode     string
}

// TokenGenerator creates and validates signed tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID string, email string) (token string, err error)
	GenerateRefreshToken(userID string, email string) (token string, err error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

// TokenStore remembers revoked access tokens by jti until they would expire anyway.
type TokenStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Claims represents JWT token claims
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

type nopTokenStore struct{}

// NopTokenStore never revokes anything. Used when redis is not configured.
func NopTokenStore() TokenStore { return nopTokenStore{} }

func (nopTokenStore) Revoke(context.Context, string, time.Duration) error { return nil }

func (nopTokenStore) IsRevoked(context.Context, string) (bool, error) { return false, nil }
