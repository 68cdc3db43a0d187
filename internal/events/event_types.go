package events

import (
	"time"

	"github.com/spec-kit/stock-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountRegistered EventType = "account_registered"
	EventLoginSucceeded    EventType = "login_succeeded"
	EventLoginFailed       EventType = "login_failed"
	EventAccountLoggedOut  EventType = "account_logged_out"
	EventTokenRefreshed    EventType = "token_refreshed"
)

// Event represents an authentication event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Username  string      `json:"username"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AccountRegisteredPayload payload.
type AccountRegisteredPayload struct {
	AccountID string      `json:"account_id"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
}

// LoginSucceededPayload payload.
type LoginSucceededPayload struct {
	AccountID string        `json:"account_id"`
	Roles     []domain.Role `json:"roles"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// LoginFailedPayload payload. Username may name an unknown account; the
// distinction between bad password and absent account is not recorded.
type LoginFailedPayload struct{}

// TokenRefreshedPayload payload.
type TokenRefreshedPayload struct {
	ExpiresAt time.Time `json:"expires_at"`
}
