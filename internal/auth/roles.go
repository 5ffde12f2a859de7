package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/phonebook-service/pkg/util/errorutil"
)

// RequireUser ensures a user was loaded by AuthMiddleware before the handler runs.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := UserFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
