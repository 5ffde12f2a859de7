package domain

import "time"

// PhoneNumber is a number registered by a user. Numbers are unique across users.
type PhoneNumber struct {
	ID        string
	Number    string
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
