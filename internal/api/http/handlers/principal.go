package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/itsm-routing/internal/auth"
	"github.com/spec-kit/itsm-routing/internal/domain"
	apperrors "github.com/spec-kit/itsm-routing/pkg/util/errorutil"
)

func currentUser(c *fiber.Ctx) (*domain.User, error) {
	user, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return user, nil
}
