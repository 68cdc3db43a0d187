package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/stock-service/internal/config"
	"github.com/spec-kit/stock-service/internal/domain"
	"github.com/spec-kit/stock-service/internal/repository"
	"github.com/spec-kit/stock-service/internal/service"
	apperrors "github.com/spec-kit/stock-service/pkg/util"
)

// fakeAccountRepo is an in-memory credential store with the same uniqueness
// guarantees the Postgres adapter provides.
type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account // keyed by username
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[string]*domain.Account{}}
}

func (f *fakeAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[account.Username]; ok {
		return repository.ErrDuplicateUsername
	}
	for _, existing := range f.accounts {
		if existing.Email == account.Email {
			return repository.ErrDuplicateEmail
		}
	}
	account.ID = uuid.NewString()
	account.SecurityStamp = uuid.NewString()
	copied := *account
	f.accounts[account.Username] = &copied
	return nil
}

func (f *fakeAccountRepo) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *account
	return &copied, nil
}

func (f *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, account := range f.accounts {
		if account.Email == email {
			copied := *account
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAccountRepo) RotateSecurityStamp(ctx context.Context, accountID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, account := range f.accounts {
		if account.ID == accountID {
			account.SecurityStamp = uuid.NewString()
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeAccountRepo) UpdatePassword(ctx context.Context, accountID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, account := range f.accounts {
		if account.ID == accountID {
			account.PasswordHash = passwordHash
			account.SecurityStamp = uuid.NewString()
			return nil
		}
	}
	return pgx.ErrNoRows
}

// fakeRoleRepo is an in-memory role registry that counts role creations so
// tests can assert ensure-role produced exactly one record under races.
type fakeRoleRepo struct {
	mu          sync.Mutex
	created     map[domain.Role]int
	assignments map[string]map[domain.Role]bool
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{
		created:     map[domain.Role]int{},
		assignments: map[string]map[domain.Role]bool{},
	}
}

func (f *fakeRoleRepo) Ensure(ctx context.Context, role domain.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.created[role]; !ok {
		f.created[role] = 1
	}
	return nil
}

func (f *fakeRoleRepo) Assign(ctx context.Context, accountID string, role domain.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.created[role]; !ok {
		return repository.ErrRoleMissing
	}
	if f.assignments[accountID] == nil {
		f.assignments[accountID] = map[domain.Role]bool{}
	}
	f.assignments[accountID][role] = true
	return nil
}

func (f *fakeRoleRepo) RolesForAccount(ctx context.Context, accountID string) ([]domain.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var roles []domain.Role
	for _, role := range domain.AllRoles() {
		if f.assignments[accountID][role] {
			roles = append(roles, role)
		}
	}
	return roles, nil
}

func (f *fakeRoleRepo) roleExists(role domain.Role) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.created[role]
	return ok
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:              "service-test-secret-32-bytes-long!!!",
			Issuer:                 "https://stock.example.com",
			Audience:               "stock-frontend",
			TokenTTLHours:          24,
			BcryptCost:             bcrypt.MinCost,
			ValidateIssuerAudience: true,
		},
	}
}

func newTestService(t *testing.T) (*service.AuthService, *fakeAccountRepo, *fakeRoleRepo) {
	t.Helper()
	accounts := newFakeAccountRepo()
	roles := newFakeRoleRepo()
	svc := service.NewAuthService(testConfig(), service.AuthDependencies{
		AccountRepo: accounts,
		RoleRepo:    roles,
	})
	return svc, accounts, roles
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	return apperrors.ToDomainError(err).Code
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RoleUser, "somchai", "somchai@example.com", "secret1")
	require.NoError(t, err)

	for _, kind := range domain.AllRoles() {
		_, err := svc.Register(ctx, kind, "somchai", "other@example.com", "secret1")
		assert.Equal(t, "ACCOUNT_EXISTS", errorCode(t, err))
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RoleUser, "somchai", "somchai@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, domain.RoleManager, "somying", "somchai@example.com", "secret1")
	assert.Equal(t, "EMAIL_EXISTS", errorCode(t, err))
}

func TestRegisterProvisionsExactlyTargetRole(t *testing.T) {
	cases := []struct {
		kind     domain.Role
		username string
	}{
		{domain.RoleUser, "plain-user"},
		{domain.RoleManager, "the-manager"},
		{domain.RoleAdmin, "the-admin"},
	}

	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			svc, _, roles := newTestService(t)
			ctx := context.Background()

			account, err := svc.Register(ctx, tc.kind, tc.username, tc.username+"@example.com", "secret1")
			require.NoError(t, err)

			// Every role in the catalog exists afterwards, whichever
			// entry point was used.
			for _, role := range domain.AllRoles() {
				assert.True(t, roles.roleExists(role), "role %s should exist", role)
			}

			held, err := roles.RolesForAccount(ctx, account.ID)
			require.NoError(t, err)
			assert.Equal(t, []domain.Role{tc.kind}, held)
		})
	}
}

func TestRegisterAssignsFreshlyCreatedRole(t *testing.T) {
	// The very first registration must still assign the target role even
	// though the role row had to be created in the same call.
	svc, _, roles := newTestService(t)

	account, err := svc.Register(context.Background(), domain.RoleManager, "first-manager", "fm@example.com", "secret1")
	require.NoError(t, err)

	held, err := roles.RolesForAccount(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.Role{domain.RoleManager}, held)
}

func TestRegisterFailureLeavesNoRoleAssignment(t *testing.T) {
	svc, _, roles := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RoleAdmin, "somchai", "somchai@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, domain.RoleAdmin, "somchai", "dup@example.com", "secret1")
	require.Error(t, err)

	roles.mu.Lock()
	assignedAccounts := len(roles.assignments)
	roles.mu.Unlock()
	assert.Equal(t, 1, assignedAccounts)
}

func TestLoginIssuesRoleBearingToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RoleAdmin, "somchai", "somchai@example.com", "secret1")
	require.NoError(t, err)

	result, err := svc.Login(ctx, "somchai", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "somchai", result.Account.Username)
	assert.Equal(t, []domain.Role{domain.RoleAdmin}, result.Roles)

	claims, err := svc.TokenManager().Parse(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "somchai", claims.Name)
	assert.Equal(t, []string{"Admin"}, claims.Roles)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RoleUser, "somchai", "somchai@example.com", "secret1")
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, "somchai", "wrong-password")
	_, unknownUser := svc.Login(ctx, "nobody", "secret1")

	require.Error(t, wrongPassword)
	require.Error(t, unknownUser)
	assert.Equal(t, apperrors.ToDomainError(wrongPassword).Code, apperrors.ToDomainError(unknownUser).Code)
	assert.Equal(t, apperrors.ToDomainError(wrongPassword).Message, apperrors.ToDomainError(unknownUser).Message)
}

func TestLogoutRotatesSecurityStamp(t *testing.T) {
	svc, accounts, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RoleUser, "somchai", "somchai@example.com", "secret1")
	require.NoError(t, err)

	before, err := accounts.GetByUsername(ctx, "somchai")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, "somchai"))

	after, err := accounts.GetByUsername(ctx, "somchai")
	require.NoError(t, err)
	assert.NotEqual(t, before.SecurityStamp, after.SecurityStamp)
}

func TestRefreshThroughService(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RoleManager, "somchai", "somchai@example.com", "secret1")
	require.NoError(t, err)

	result, err := svc.Login(ctx, "somchai", "secret1")
	require.NoError(t, err)

	token, expiration, err := svc.Refresh(ctx, "Bearer "+result.Token)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.False(t, expiration.Before(result.ExpiresAt))

	oldClaims, err := svc.TokenManager().Parse(result.Token)
	require.NoError(t, err)
	newClaims, err := svc.TokenManager().Parse(token)
	require.NoError(t, err)
	assert.Equal(t, oldClaims.Name, newClaims.Name)
	assert.Equal(t, oldClaims.Roles, newClaims.Roles)
	assert.NotEqual(t, oldClaims.ID, newClaims.ID)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, _, err := svc.Refresh(context.Background(), "Bearer not-a-token")
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, err))

	_, _, err = svc.Refresh(context.Background(), "")
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, err))
}

func TestConcurrentRegistrationsShareRoleRecord(t *testing.T) {
	svc, _, roles := newTestService(t)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	accountIDs := make([]string, n)
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			username := "user-" + uuid.NewString()
			account, err := svc.Register(ctx, domain.RoleManager, username, username+"@example.com", "secret1")
			errs[i] = err
			if account != nil {
				accountIDs[i] = account.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
	}

	roles.mu.Lock()
	creations := roles.created[domain.RoleManager]
	roles.mu.Unlock()
	assert.Equal(t, 1, creations)

	for _, id := range accountIDs {
		held, err := roles.RolesForAccount(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []domain.Role{domain.RoleManager}, held)
	}
}

var _ repository.AccountRepository = (*fakeAccountRepo)(nil)
var _ repository.RoleRepository = (*fakeRoleRepo)(nil)
