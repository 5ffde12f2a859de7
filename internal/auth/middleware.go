package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/phonebook-service/internal/domain"
	apperrors "github.com/spec-kit/phonebook-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// AuthMiddleware validates bearer tokens and loads the calling user.
type AuthMiddleware struct {
	resolver *Resolver
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(resolver *Resolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	user, err := m.resolver.Resolve(c.UserContext(), c.Get(fiber.HeaderAuthorization))
	if err != nil {
		c.Set(fiber.HeaderWWWAuthenticate, bearerScheme)
		return apperrors.NewUnauthorized(unauthenticatedMessage(err))
	}

	c.Locals(principalKey, user)
	return c.Next()
}

func unauthenticatedMessage(err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) && authErr.Reason == AuthMissingOrMalformed {
		return "authentication credentials are missing"
	}
	return "invalid or expired token"
}

// UserFromContext retrieves the authenticated user.
func UserFromContext(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok && user != nil
}
