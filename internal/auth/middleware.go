package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/stock-service/internal/domain"
	"github.com/spec-kit/stock-service/internal/repository"
	apperrors "github.com/spec-kit/stock-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	Account *domain.Account
	Roles   []domain.Role
}

// HasRole reports whether the principal's token carried the role claim.
func (p *Principal) HasRole(role domain.Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Middleware validates bearer tokens and loads principals.
type Middleware struct {
	tokens   *TokenManager
	accounts repository.AccountRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, accounts repository.AccountRepository) *Middleware {
	return &Middleware{tokens: tokens, accounts: accounts}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	tokenStr, err := ExtractBearer(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return apperrors.NewUnauthorized("missing or malformed authorization header")
	}

	claims, err := m.tokens.Parse(tokenStr)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	account, err := m.accounts.GetByUsername(c.Context(), claims.Name)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("account not found")
		}
		return apperrors.MapError(err)
	}

	roles := make([]domain.Role, 0, len(claims.Roles))
	for _, r := range claims.Roles {
		roles = append(roles, domain.Role(r))
	}

	c.Locals(principalKey, &Principal{Account: account, Roles: roles})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
