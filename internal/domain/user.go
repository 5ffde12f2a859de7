package domain

import "time"

// User is an account that can authenticate and own phone numbers.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
