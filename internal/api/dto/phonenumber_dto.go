package dto

import (
	"time"

	"github.com/spec-kit/phonebook-service/internal/domain"
)

// PhoneNumberCreateRequest payload.
type PhoneNumberCreateRequest struct {
	Number string `json:"number"`
}

// PhoneNumberResponse is the public view of a phone number.
type PhoneNumberResponse struct {
	PhoneNumberID string    `json:"phonenumber_id"`
	Number        string    `json:"number"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewPhoneNumberResponse maps a domain phone number.
func NewPhoneNumberResponse(n *domain.PhoneNumber) PhoneNumberResponse {
	return PhoneNumberResponse{PhoneNumberID: n.ID, Number: n.Number, CreatedAt: n.CreatedAt}
}
