package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/phonebook-service/internal/api/dto"
	"github.com/spec-kit/phonebook-service/internal/auth"
	"github.com/spec-kit/phonebook-service/internal/service"
	apperrors "github.com/spec-kit/phonebook-service/pkg/util/errorutil"
)

// UsersHandler exposes registration, token and account endpoints.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	if _, err := h.auth.RegisterUser(c.UserContext(), req.Email, req.Password); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.MessageResponse{Message: "User registered successfully."})
}

// Login handles POST /auth/token.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	issued, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(tokenResponse(issued))
}

// Refresh handles POST /auth/refresh. Passing ?paired=true also returns a new
// refresh token.
func (h *UsersHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		return apperrors.NewValidationError("refresh_token required", nil)
	}

	issued, err := h.auth.Refresh(c.UserContext(), strings.TrimSpace(req.RefreshToken), c.QueryBool("paired", false))
	if err != nil {
		return err
	}
	return c.JSON(tokenResponse(issued))
}

// Me handles GET /auth/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(dto.NewUserResponse(user))
}

// DeleteMe handles DELETE /auth/me.
func (h *UsersHandler) DeleteMe(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.auth.DeleteAccount(c.UserContext(), user.ID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func tokenResponse(issued *service.IssuedTokens) dto.TokenResponse {
	resp := dto.TokenResponse{AccessToken: issued.Access.Value, AuthType: dto.AuthTypeBearer}
	if issued.Refresh != nil {
		resp.RefreshToken = issued.Refresh.Value
	}
	return resp
}
