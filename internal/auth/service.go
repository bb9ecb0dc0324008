package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/access"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type RepositoryAPI interface {
	FindIdentityByEmail(ctx context.Context, email string) (*Identity, error)
	FindIdentityByID(ctx context.Context, id uuid.UUID) (*Identity, error)
}

// Service is the main auth service with dependencies
type Service struct {
	repo           RepositoryAPI
	tokenGenerator TokenGenerator
	store          TokenStore
	bcryptCost     int
	logger         *slog.Logger
}

func NewService(repo RepositoryAPI, tokenGen TokenGenerator, store TokenStore, bcryptCost int, logger *slog.Logger) *Service {
	if store == nil {
		store = NopTokenStore()
	}
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		store:          store,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

// Authenticate checks credentials. An unknown or inactive account and a wrong
// password are reported differently.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	dto = dto.Normalize()
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	identity, err := s.repo.FindIdentityByEmail(ctx, dto.Email)
	if err != nil {
		return AuthTokens{}, internal.StorageError("get", "user", err)
	}
	if identity == nil || !identity.IsActive {
		s.logger.WarnContext(ctx, "login rejected: unknown or inactive user", "email", dto.Email)
		return AuthTokens{}, internal.ErrAuthenticationFailed
	}

	if err := s.ComparePassword(identity.PasswordHash, dto.Password); err != nil {
		s.logger.WarnContext(ctx, "login rejected: incorrect password", "user_id", identity.UserID)
		return AuthTokens{}, internal.ErrIncorrectPassword
	}

	return s.issue(identity.UserID.String(), identity.Email)
}

func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	identity, err := s.identityFor(ctx, claims)
	if err != nil {
		return AuthTokens{}, err
	}

	return s.issue(identity.UserID.String(), identity.Email)
}

// Logout revokes the access token until its natural expiry.
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.tokenGenerator.ValidateAccessToken(accessToken)
	if err != nil {
		return err
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 || claims.ID == "" {
		return nil
	}
	if err := s.store.Revoke(ctx, claims.ID, ttl); err != nil {
		return internal.NewInternalError("failed to revoke token", err)
	}
	s.logger.InfoContext(ctx, "access token revoked", "user_id", claims.UserID)
	return nil
}

func (s *Service) ValidateAccessToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.tokenGenerator.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := s.store.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, internal.NewInternalError("failed to check token revocation", err)
	}
	if revoked {
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}

// Principal resolves a bearer token to the caller it belongs to.
func (s *Service) Principal(ctx context.Context, tokenString string) (*access.Principal, error) {
	claims, err := s.ValidateAccessToken(ctx, tokenString)
	if err != nil {
		return nil, err
	}

	identity, err := s.identityFor(ctx, claims)
	if err != nil {
		return nil, err
	}

	return &access.Principal{
		UserID:   identity.UserID,
		Email:    identity.Email,
		Name:     identity.Name,
		RoleID:   identity.RoleID,
		RoleCode: identity.RoleCode,
	}, nil
}

func (s *Service) identityFor(ctx context.Context, claims *Claims) (*Identity, error) {
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, internal.ErrInvalidToken.WithCause(err)
	}

	identity, err := s.repo.FindIdentityByID(ctx, userID)
	if err != nil {
		return nil, internal.StorageError("get", "user", err)
	}
	if identity == nil || !identity.IsActive {
		return nil, internal.ErrAuthenticationFailed
	}
	return identity, nil
}

func (s *Service) issue(userID, email string) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(userID, email)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign access token", err)
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(userID, email)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign refresh token", err)
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) ComparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
