package auth_test

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/stock-service/internal/auth"
	"github.com/spec-kit/stock-service/internal/config"
)

const testSecret = "unit-test-secret-at-least-32-bytes!!"

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:              testSecret,
		Issuer:                 "https://stock.example.com",
		Audience:               "stock-frontend",
		TokenTTLHours:          24,
		ValidateIssuerAudience: true,
	}
}

// signExpired builds a token signed with the given secret whose expiration is
// already in the past.
func signExpired(t *testing.T, secret, name string, roles []string) string {
	t.Helper()
	claims := &auth.Claims{
		Name:  name,
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://stock.example.com",
			Audience:  jwt.ClaimStrings{"stock-frontend"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-26 * time.Hour)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestIssueParseRoundTrip(t *testing.T) {
	tm := auth.NewTokenManager(testAuthConfig())

	token, expiresAt, err := tm.Issue("somchai", []string{"Admin", "User"})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "somchai", claims.Name)
	assert.Equal(t, []string{"Admin", "User"}, claims.Roles)
	assert.Equal(t, "https://stock.example.com", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestIssueUsesFreshJTI(t *testing.T) {
	tm := auth.NewTokenManager(testAuthConfig())

	first, _, err := tm.Issue("somchai", nil)
	require.NoError(t, err)
	second, _, err := tm.Issue("somchai", nil)
	require.NoError(t, err)

	firstClaims, err := tm.Parse(first)
	require.NoError(t, err)
	secondClaims, err := tm.Parse(second)
	require.NoError(t, err)
	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}

func TestIssueRejectsUnconfiguredManager(t *testing.T) {
	tm := auth.NewTokenManager(config.AuthConfig{})

	_, _, err := tm.Issue("somchai", nil)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	tm := auth.NewTokenManager(testAuthConfig())

	_, err := tm.Parse(signExpired(t, testSecret, "somchai", []string{"User"}))
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	cfg := testAuthConfig()
	otherIssuer := auth.NewTokenManager(config.AuthConfig{
		JWTSecret:              testSecret,
		Issuer:                 "https://other.example.com",
		Audience:               cfg.Audience,
		TokenTTLHours:          24,
		ValidateIssuerAudience: true,
	})
	token, _, err := otherIssuer.Issue("somchai", nil)
	require.NoError(t, err)

	tm := auth.NewTokenManager(cfg)
	_, err = tm.Parse(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	cfg.ValidateIssuerAudience = false
	lenient := auth.NewTokenManager(cfg)
	_, err = lenient.Parse(token)
	assert.NoError(t, err)
}

func TestRefreshAcceptsExpiredSignature(t *testing.T) {
	tm := auth.NewTokenManager(testAuthConfig())
	expired := signExpired(t, testSecret, "somchai", []string{"Manager"})

	expiredClaims, err := tm.ParseForRefresh(expired)
	require.NoError(t, err)

	token, expiresAt, err := tm.Refresh("Bearer " + expired)
	require.NoError(t, err)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "somchai", claims.Name)
	assert.Equal(t, []string{"Manager"}, claims.Roles)
	assert.NotEqual(t, expiredClaims.ID, claims.ID)
	assert.True(t, expiresAt.After(expiredClaims.ExpiresAt.Time))
}

func TestRefreshRejectsTamperedSignature(t *testing.T) {
	tm := auth.NewTokenManager(testAuthConfig())
	forged := signExpired(t, "some-other-secret-entirely-32-byt!!", "somchai", []string{"Admin"})

	_, _, err := tm.Refresh("Bearer " + forged)
	assert.Error(t, err)
}

func TestRefreshRejectsMissingBearerPrefix(t *testing.T) {
	tm := auth.NewTokenManager(testAuthConfig())
	token, _, err := tm.Issue("somchai", nil)
	require.NoError(t, err)

	_, _, err = tm.Refresh(token)
	assert.ErrorIs(t, err, auth.ErrMissingBearer)

	_, _, err = tm.Refresh("")
	assert.ErrorIs(t, err, auth.ErrMissingBearer)

	_, _, err = tm.Refresh("Basic " + token)
	assert.ErrorIs(t, err, auth.ErrMissingBearer)
}

func TestRefreshHonorsExpiryWhenConfigured(t *testing.T) {
	cfg := testAuthConfig()
	cfg.RefreshRequireFreshToken = true
	tm := auth.NewTokenManager(cfg)

	_, _, err := tm.Refresh("Bearer " + signExpired(t, testSecret, "somchai", []string{"User"}))
	assert.Error(t, err)

	fresh, _, err := tm.Issue("somchai", []string{"User"})
	require.NoError(t, err)
	_, _, err = tm.Refresh("Bearer " + fresh)
	assert.NoError(t, err)
}

func TestExtractBearer(t *testing.T) {
	token, err := auth.ExtractBearer("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = auth.ExtractBearer("Bearer")
	assert.ErrorIs(t, err, auth.ErrMissingBearer)
}
