package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/access"
	"github.com/frahmantamala/rbac-admin/internal/transport"
	"github.com/google/uuid"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock RepositoryAPI for testing
type mockRepository struct {
	byEmail       map[string]*Identity
	returnError   bool
	errorToReturn error
}

func newMockRepository() *mockRepository {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)

	repo := &mockRepository{byEmail: map[string]*Identity{}}
	for _, seed := range []struct {
		email  string
		role   string
		active bool
	}{
		{"editor@example.com", "editor", true},
		{"admin@example.com", access.RoleAdmin, true},
		{"inactive@example.com", "editor", false},
	} {
		repo.byEmail[seed.email] = &Identity{
			UserID:       uuid.New(),
			Email:        seed.email,
			Name:         strings.Split(seed.email, "@")[0],
			PasswordHash: string(hashedPassword),
			IsActive:     seed.active,
			RoleID:       uuid.New(),
			RoleCode:     seed.role,
		}
	}
	return repo
}

func (m *mockRepository) FindIdentityByEmail(_ context.Context, email string) (*Identity, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	return m.byEmail[email], nil
}

func (m *mockRepository) FindIdentityByID(_ context.Context, id uuid.UUID) (*Identity, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	for _, identity := range m.byEmail {
		if identity.UserID == id {
			return identity, nil
		}
	}
	return nil, nil
}

func (m *mockRepository) setError(err error) {
	m.returnError = true
	m.errorToReturn = err
}

type memoryTokenStore struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func (s *memoryTokenStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = ttl
	return nil
}

func (s *memoryTokenStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[jti]
	return ok, nil
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		ctx           context.Context
		service       *Service
		mockRepo      *mockRepository
		store         *memoryTokenStore
		tokenGen      *JWTTokenGenerator
		accessSecret  string        = "test-access-secret-0123456789abcdef"
		refreshSecret string        = "test-refresh-secret-0123456789abcdef"
		accessTTL     time.Duration = 15 * time.Minute
		refreshTTL    time.Duration = 24 * time.Hour
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		mockRepo = newMockRepository()
		store = &memoryTokenStore{revoked: map[string]time.Duration{}}
		tokenGen = NewJWTTokenGenerator(accessSecret, refreshSecret, accessTTL, refreshTTL)
		service = NewService(mockRepo, tokenGen, store, bcrypt.MinCost, slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should return access and refresh tokens", func() {
				// Given
				dto := LoginDTO{Email: "editor@example.com", Password: "correct_password"}

				// When
				tokens, err := service.Authenticate(ctx, dto)

				// Then
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.RefreshToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.Equal(tokens.RefreshToken))
				gomega.Expect(tokens.TokenType).To(gomega.Equal("bearer"))
			})

			ginkgo.It("should carry the user in the access token", func() {
				// Given
				dto := LoginDTO{Email: "admin@example.com", Password: "correct_password"}

				// When
				tokens, err := service.Authenticate(ctx, dto)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				// Then
				claims, err := service.ValidateAccessToken(ctx, tokens.AccessToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.UserID).To(gomega.Equal(mockRepo.byEmail["admin@example.com"].UserID.String()))
				gomega.Expect(claims.Email).To(gomega.Equal("admin@example.com"))
				gomega.Expect(claims.ID).ToNot(gomega.BeEmpty())
			})
		})

		ginkgo.Context("when credentials are invalid", func() {
			ginkgo.It("should fail authentication for an unknown email", func() {
				_, err := service.Authenticate(ctx, LoginDTO{Email: "nobody@example.com", Password: "any"})

				gomega.Expect(err).To(gomega.MatchError(internal.ErrAuthenticationFailed))
				appErr, _ := internal.IsAppError(err)
				gomega.Expect(appErr.StatusCode).To(gomega.Equal(http.StatusUnauthorized))
			})

			ginkgo.It("should fail authentication for an inactive user", func() {
				_, err := service.Authenticate(ctx, LoginDTO{Email: "inactive@example.com", Password: "correct_password"})

				gomega.Expect(err).To(gomega.MatchError(internal.ErrAuthenticationFailed))
			})

			ginkgo.It("should report an incorrect password as a bad request", func() {
				_, err := service.Authenticate(ctx, LoginDTO{Email: "editor@example.com", Password: "wrong"})

				gomega.Expect(err).To(gomega.MatchError(internal.ErrIncorrectPassword))
				appErr, _ := internal.IsAppError(err)
				gomega.Expect(appErr.StatusCode).To(gomega.Equal(http.StatusBadRequest))
				gomega.Expect(appErr.Message).To(gomega.Equal("Incorrect Password"))
			})
		})

		ginkgo.Context("when input validation fails", func() {
			ginkgo.It("should return validation error for empty email", func() {
				_, err := service.Authenticate(ctx, LoginDTO{Password: "password"})

				appErr, ok := internal.IsAppError(err)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(appErr.GetDetailedMessage()).To(gomega.Equal("email is required"))
			})
		})

		ginkgo.Context("when repository returns error", func() {
			ginkgo.It("should surface a storage error", func() {
				mockRepo.setError(errors.New("database connection failed"))

				_, err := service.Authenticate(ctx, LoginDTO{Email: "editor@example.com", Password: "correct_password"})

				appErr, ok := internal.IsAppError(err)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(appErr.Message).To(gomega.Equal("Cannot get user"))
			})
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		ginkgo.It("should return new tokens for a valid refresh token", func() {
			tokens, err := service.Authenticate(ctx, LoginDTO{Email: "editor@example.com", Password: "correct_password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			refreshed, err := service.RefreshTokens(ctx, tokens.RefreshToken)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(refreshed.AccessToken).ToNot(gomega.BeEmpty())
			claims, err := service.ValidateAccessToken(ctx, refreshed.AccessToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims.Email).To(gomega.Equal("editor@example.com"))
		})

		ginkgo.It("should reject an access token used as a refresh token", func() {
			tokens, err := service.Authenticate(ctx, LoginDTO{Email: "editor@example.com", Password: "correct_password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.RefreshTokens(ctx, tokens.AccessToken)

			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidToken))
		})

		ginkgo.It("should reject a refresh token for a deactivated user", func() {
			tokens, err := service.Authenticate(ctx, LoginDTO{Email: "editor@example.com", Password: "correct_password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			mockRepo.byEmail["editor@example.com"].IsActive = false

			_, err = service.RefreshTokens(ctx, tokens.RefreshToken)

			gomega.Expect(err).To(gomega.MatchError(internal.ErrAuthenticationFailed))
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("should revoke the access token", func() {
			tokens, err := service.Authenticate(ctx, LoginDTO{Email: "editor@example.com", Password: "correct_password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(service.Logout(ctx, tokens.AccessToken)).To(gomega.Succeed())

			_, err = service.ValidateAccessToken(ctx, tokens.AccessToken)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidToken))
			gomega.Expect(store.revoked).To(gomega.HaveLen(1))
		})

		ginkgo.It("should reject an invalid token", func() {
			gomega.Expect(service.Logout(ctx, "not-a-token")).To(gomega.MatchError(internal.ErrInvalidToken))
		})
	})

	ginkgo.Describe("Principal", func() {
		ginkgo.It("should resolve the caller with role information", func() {
			tokens, err := service.Authenticate(ctx, LoginDTO{Email: "editor@example.com", Password: "correct_password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			p, err := service.Principal(ctx, tokens.AccessToken)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			identity := mockRepo.byEmail["editor@example.com"]
			gomega.Expect(p.UserID).To(gomega.Equal(identity.UserID))
			gomega.Expect(p.RoleID).To(gomega.Equal(identity.RoleID))
			gomega.Expect(p.RoleCode).To(gomega.Equal("editor"))
		})

		ginkgo.It("should reject an expired token", func() {
			expiredGen := NewJWTTokenGenerator(accessSecret, refreshSecret, -time.Minute, refreshTTL)
			token, err := expiredGen.GenerateAccessToken(uuid.NewString(), "editor@example.com")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.Principal(ctx, token)

			gomega.Expect(err).To(gomega.MatchError(internal.ErrTokenExpired))
		})
	})

	ginkgo.Describe("HashPassword", func() {
		ginkgo.It("should produce a hash that verifies", func() {
			hash, err := service.HashPassword("secret-password")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(hash).ToNot(gomega.Equal("secret-password"))
			gomega.Expect(service.ComparePassword(hash, "secret-password")).To(gomega.Succeed())
			gomega.Expect(service.ComparePassword(hash, "other")).ToNot(gomega.Succeed())
		})
	})
})

var _ = ginkgo.Describe("JWTTokenGenerator", func() {
	var tokenGen *JWTTokenGenerator

	ginkgo.BeforeEach(func() {
		tokenGen = NewJWTTokenGenerator("access-secret-0123456789abcdefghij", "refresh-secret-0123456789abcdefghi", time.Minute, time.Hour)
	})

	ginkgo.It("should give every token a distinct jti", func() {
		first, err := tokenGen.GenerateAccessToken("u1", "a@example.com")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		second, err := tokenGen.GenerateAccessToken("u1", "a@example.com")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		c1, err := tokenGen.ValidateAccessToken(first)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		c2, err := tokenGen.ValidateAccessToken(second)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(c1.ID).ToNot(gomega.Equal(c2.ID))
	})

	ginkgo.It("should not accept a refresh token as an access token", func() {
		refresh, err := tokenGen.GenerateRefreshToken("u1", "a@example.com")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, err = tokenGen.ValidateAccessToken(refresh)
		gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidToken))
	})

	ginkgo.It("should return error for empty token", func() {
		_, err := tokenGen.ValidateAccessToken("")
		gomega.Expect(err).To(gomega.HaveOccurred())
	})
})

var _ = ginkgo.Describe("AuthMiddleware", func() {
	var (
		handler  *Handler
		service  *Service
		mockRepo *mockRepository
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockRepository()
		tokenGen := NewJWTTokenGenerator("access-secret-0123456789abcdefghij", "refresh-secret-0123456789abcdefghi", time.Minute, time.Hour)
		service = NewService(mockRepo, tokenGen, nil, bcrypt.MinCost, slog.New(slog.NewTextHandler(io.Discard, nil)))
		handler = NewHandler(transport.NewBaseHandler(slog.New(slog.NewTextHandler(io.Discard, nil))), service)
	})

	protected := func() http.Handler {
		return handler.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := access.PrincipalFromContext(r.Context())
			gomega.Expect(ok).To(gomega.BeTrue())
			w.Header().Set("X-Role", p.RoleCode)
			w.WriteHeader(http.StatusOK)
		}))
	}

	ginkgo.It("should reject a request without a token", func() {
		rec := httptest.NewRecorder()
		protected().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/me", nil))

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
	})

	ginkgo.It("should put the principal into the context", func() {
		tokens, err := service.Authenticate(context.Background(), LoginDTO{Email: "admin@example.com", Password: "correct_password"})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
		rec := httptest.NewRecorder()
		protected().ServeHTTP(rec, req)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(rec.Header().Get("X-Role")).To(gomega.Equal(access.RoleAdmin))
	})

	ginkgo.It("should reject a user deactivated after login", func() {
		tokens, err := service.Authenticate(context.Background(), LoginDTO{Email: "editor@example.com", Password: "correct_password"})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		mockRepo.byEmail["editor@example.com"].IsActive = false

		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
		rec := httptest.NewRecorder()
		protected().ServeHTTP(rec, req)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
	})

	ginkgo.It("should log in through the handler regardless of email case", func() {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":" Editor@Example.com ","password":"correct_password"}`))
		rec := httptest.NewRecorder()
		handler.Login(rec, req)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("access_token"))
	})

	ginkgo.It("should reject a malformed login body", func() {
		rec := httptest.NewRecorder()
		handler.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("{")))

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
	})
})
