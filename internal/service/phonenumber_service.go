package service

import (
	"context"
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/spec-kit/phonebook-service/internal/domain"
	"github.com/spec-kit/phonebook-service/internal/repository"
	apperrors "github.com/spec-kit/phonebook-service/pkg/util/errorutil"
)

// PhoneNumberService manages numbers owned by the authenticated user.
type PhoneNumberService struct {
	numbers repository.PhoneNumberRepository
}

// NewPhoneNumberService builds the service.
func NewPhoneNumberService(numbers repository.PhoneNumberRepository) *PhoneNumberService {
	return &PhoneNumberService{numbers: numbers}
}

// Create registers number for userID. Numbers are stored in E.164 form and
// are unique across all users.
func (s *PhoneNumberService) Create(ctx context.Context, userID, number string) (*domain.PhoneNumber, error) {
	normalized, err := normalizeNumber(number)
	if err != nil {
		return nil, err
	}

	pn := &domain.PhoneNumber{Number: normalized, UserID: userID}
	if err := s.numbers.Create(ctx, pn); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewAlreadyRegistered("number already registered")
		}
		return nil, err
	}
	return pn, nil
}

// List returns the numbers owned by userID, oldest first.
func (s *PhoneNumberService) List(ctx context.Context, userID string) ([]domain.PhoneNumber, error) {
	return s.numbers.ListByUser(ctx, userID)
}

// normalizeNumber parses an international number and formats it as E.164.
// No default region is assumed, so the country code is mandatory.
func normalizeNumber(number string) (string, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return "", apperrors.NewValidationError("number required", nil)
	}
	parsed, err := phonenumbers.Parse(number, "")
	if err != nil {
		return "", apperrors.NewValidationError("invalid phone number", nil)
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return "", apperrors.NewValidationError("invalid phone number", map[string]any{
			"hint": "include the country code, e.g. +14155552671",
		})
	}
	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}
