package dto

import "time"

// RegisterRequest payload for the three registration endpoints.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserData describes the authenticated identity in login responses.
type UserData struct {
	UserName string   `json:"userName"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// LoginResponse is the login wire shape.
type LoginResponse struct {
	Token      string    `json:"token"`
	Expiration time.Time `json:"expiration"`
	UserData   UserData  `json:"userData"`
}

// RefreshResponse is the refresh wire shape.
type RefreshResponse struct {
	Token      string    `json:"token"`
	Expiration time.Time `json:"expiration"`
}

// StatusResponse reports a registration or logout outcome.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
