package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/phonebook-service/internal/api/dto"
	"github.com/spec-kit/phonebook-service/internal/auth"
	"github.com/spec-kit/phonebook-service/internal/service"
	apperrors "github.com/spec-kit/phonebook-service/pkg/util/errorutil"
)

// PhoneNumbersHandler exposes the caller's phone numbers.
type PhoneNumbersHandler struct {
	numbers *service.PhoneNumberService
}

// NewPhoneNumbersHandler constructs handler.
func NewPhoneNumbersHandler(numbers *service.PhoneNumberService) *PhoneNumbersHandler {
	return &PhoneNumbersHandler{numbers: numbers}
}

// Create handles POST /phonenumbers.
func (h *PhoneNumbersHandler) Create(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.PhoneNumberCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	number, err := h.numbers.Create(c.UserContext(), user.ID, req.Number)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewPhoneNumberResponse(number))
}

// List handles GET /phonenumbers.
func (h *PhoneNumbersHandler) List(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	numbers, err := h.numbers.List(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	resp := make([]dto.PhoneNumberResponse, 0, len(numbers))
	for i := range numbers {
		resp = append(resp, dto.NewPhoneNumberResponse(&numbers[i]))
	}
	return c.JSON(resp)
}
