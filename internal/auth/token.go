package auth

import (
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/stock-service/internal/config"
)

const bearerPrefix = "Bearer "

var (
	// ErrInvalidToken covers signature mismatches and malformed tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrMissingBearer is returned when the Authorization header lacks the
	// Bearer scheme.
	ErrMissingBearer = errors.New("missing bearer token")
)

// TokenManager issues, validates and refreshes signed session tokens.
type TokenManager struct {
	secret             []byte
	issuer             string
	audience           string
	ttl                time.Duration
	checkIssuerAud     bool
	refreshCheckExpiry bool
}

// NewTokenManager builds a manager from auth configuration. Configuration is
// validated at load time, so secret, issuer and audience are non-empty here.
func NewTokenManager(cfg config.AuthConfig) *TokenManager {
	return &TokenManager{
		secret:             []byte(cfg.JWTSecret),
		issuer:             cfg.Issuer,
		audience:           cfg.Audience,
		ttl:                cfg.TokenTTL(),
		checkIssuerAud:     cfg.ValidateIssuerAudience,
		refreshCheckExpiry: cfg.RefreshRequireFreshToken,
	}
}

// Claims describes the JWT payload: unique_name carries the account's
// username, roles its memberships, and the registered jti is regenerated on
// every issuance.
type Claims struct {
	Name  string   `json:"unique_name"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Issue builds and signs a token for the named identity and its roles.
func (tm *TokenManager) Issue(name string, roles []string) (string, time.Time, error) {
	if len(tm.secret) == 0 || tm.issuer == "" || tm.audience == "" {
		return "", time.Time{}, errors.New("token manager not configured")
	}

	now := time.Now()
	expiresAt := now.Add(tm.ttl)
	claims := &Claims{
		Name:  name,
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tm.issuer,
			Audience:  jwt.ClaimStrings{tm.audience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Parse validates the token signature and lifetime and returns its claims.
// Issuer and audience are additionally checked when configured.
func (tm *TokenManager) Parse(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if tm.checkIssuerAud {
		opts = append(opts, jwt.WithIssuer(tm.issuer), jwt.WithAudience(tm.audience))
	}
	return tm.parse(tokenStr, opts...)
}

// ParseForRefresh validates the signature only: expiration, issuer and
// audience checks are skipped so an expired token can still be exchanged.
func (tm *TokenManager) ParseForRefresh(tokenStr string) (*Claims, error) {
	if tm.refreshCheckExpiry {
		return tm.parse(tokenStr,
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	}
	return tm.parse(tokenStr,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation())
}

// Refresh exchanges a bearer Authorization header for a fresh token. The old
// token's identity and role claims are carried over; jti and expiration are
// new. Any parse failure yields ErrInvalidToken and no token.
func (tm *TokenManager) Refresh(authHeader string) (string, time.Time, error) {
	tokenStr, err := ExtractBearer(authHeader)
	if err != nil {
		return "", time.Time{}, err
	}
	claims, err := tm.ParseForRefresh(tokenStr)
	if err != nil {
		return "", time.Time{}, err
	}
	return tm.Issue(claims.Name, claims.Roles)
}

func (tm *TokenManager) parse(tokenStr string, opts ...jwt.ParserOption) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	}, opts...)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ExtractBearer pulls the token out of an Authorization header value.
func ExtractBearer(authHeader string) (string, error) {
	if len(authHeader) <= len(bearerPrefix) || !strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return "", ErrMissingBearer
	}
	return strings.TrimSpace(authHeader[len(bearerPrefix):]), nil
}
