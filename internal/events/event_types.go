package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered       EventType = "user_registered"
	EventLoginSucceeded       EventType = "login_succeeded"
	EventLoginFailed          EventType = "login_failed"
	EventLoginThrottled       EventType = "login_throttled"
	EventAccessTokenRefreshed EventType = "access_token_refreshed"
	EventRefreshRejected      EventType = "refresh_rejected"
	EventAccountDeleted       EventType = "account_deleted"
)

// Event represents an auth occurrence emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// New stamps an event with a fresh ID and the current time.
func New(eventType EventType, subjectID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// TokensIssuedPayload accompanies logins and refreshes.
type TokensIssuedPayload struct {
	AccessExpiresAt  time.Time  `json:"access_expires_at"`
	RefreshExpiresAt *time.Time `json:"refresh_expires_at,omitempty"`
}

// LoginFailedPayload payload. Email is the address that was attempted.
type LoginFailedPayload struct {
	Email string `json:"email"`
}

// RefreshRejectedPayload payload. Reason is the internal verification reason.
type RefreshRejectedPayload struct {
	Reason string `json:"reason"`
}
