package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/itsm-routing/internal/domain"
	"github.com/spec-kit/itsm-routing/internal/repository"
	apperrors "github.com/spec-kit/itsm-routing/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// AuthMiddleware resolves the caller of every protected route.
type AuthMiddleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Handle rejects the request unless it carries a valid bearer token for an
// active user. The loaded user, roles included, is stored for handlers.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	raw, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return apperrors.NewUnauthorized("bearer token required")
	}

	claims, err := m.tokens.ParseToken(raw)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	user, err := m.users.GetByID(c.UserContext(), claims.SubjectID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.NewUnauthorized("user not found")
	case err != nil:
		return apperrors.MapError(err)
	case !user.IsActive || user.DeletedAt != nil:
		return apperrors.NewUnauthorized("user is inactive")
	}

	c.Locals(principalKey, user)
	return c.Next()
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// PrincipalFromContext retrieves the authenticated user.
func PrincipalFromContext(c *fiber.Ctx) (*domain.User, bool) {
	user, ok := c.Locals(principalKey).(*domain.User)
	return user, ok && user != nil
}
