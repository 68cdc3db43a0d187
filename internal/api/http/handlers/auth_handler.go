package handlers

import (
	"net/http"
	"net/mail"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/stock-service/internal/api/dto"
	"github.com/spec-kit/stock-service/internal/auth"
	"github.com/spec-kit/stock-service/internal/domain"
	"github.com/spec-kit/stock-service/internal/service"
	apperrors "github.com/spec-kit/stock-service/pkg/util"
)

// AuthHandler exposes the authentication surface.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// RegisterUser handles POST /api/authenticate/register-user.
func (h *AuthHandler) RegisterUser(c *fiber.Ctx) error {
	return h.register(c, domain.RoleUser)
}

// RegisterManager handles POST /api/authenticate/register-manager.
func (h *AuthHandler) RegisterManager(c *fiber.Ctx) error {
	return h.register(c, domain.RoleManager)
}

// RegisterAdmin handles POST /api/authenticate/register-admin.
func (h *AuthHandler) RegisterAdmin(c *fiber.Ctx) error {
	return h.register(c, domain.RoleAdmin)
}

func (h *AuthHandler) register(c *fiber.Ctx, kind domain.Role) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateRegistration(req); err != nil {
		return err
	}

	if _, err := h.auth.Register(c.Context(), kind, req.Username, req.Email, req.Password); err != nil {
		return err
	}

	return c.JSON(dto.StatusResponse{
		Status:  "Success",
		Message: "User registered successfully",
	})
}

// Login handles POST /api/authenticate/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	result, err := h.auth.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	roles := make([]string, 0, len(result.Roles))
	for _, role := range result.Roles {
		roles = append(roles, string(role))
	}

	return c.JSON(dto.LoginResponse{
		Token:      result.Token,
		Expiration: result.ExpiresAt,
		UserData: dto.UserData{
			UserName: result.Account.Username,
			Email:    result.Account.Email,
			Roles:    roles,
		},
	})
}

// Logout handles POST /api/authenticate/logout. The stamp rotation is
// advisory; tokens already issued stay usable until they expire.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return c.SendStatus(http.StatusOK)
	}

	if err := h.auth.Logout(c.Context(), principal.Account.Username); err != nil {
		return c.SendStatus(http.StatusOK)
	}

	return c.JSON(dto.StatusResponse{
		Status:  "Success",
		Message: "User logged out!",
	})
}

// RefreshToken handles POST /api/authenticate/refresh-token. The bearer token
// is read from the Authorization header, not the body.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	token, expiration, err := h.auth.Refresh(c.Context(), c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return err
	}

	return c.JSON(dto.RefreshResponse{
		Token:      token,
		Expiration: expiration,
	})
}

func validateRegistration(req dto.RegisterRequest) error {
	details := map[string]any{}
	if len(req.Username) < 3 || len(req.Username) > 50 {
		details["username"] = "must be between 3 and 50 characters"
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		details["email"] = "must be a valid email address"
	}
	if len(req.Password) < 6 {
		details["password"] = "must be at least 6 characters"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid registration payload", details)
	}
	return nil
}
