package domain

import "time"

// Account is the domain model for an authenticated identity.
type Account struct {
	ID            string
	Username      string
	Email         string
	PasswordHash  string
	SecurityStamp string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
