package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/stock-service/internal/domain"
)

var (
	// ErrDuplicateUsername signals a username uniqueness violation on create.
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrDuplicateEmail signals an email uniqueness violation on create.
	ErrDuplicateEmail = errors.New("email already taken")
)

// AccountRepository defines persistence access for identity accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	RotateSecurityStamp(ctx context.Context, accountID string) error
	UpdatePassword(ctx context.Context, accountID, passwordHash string) error
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

// Create inserts the account, relying on the unique constraints for atomic
// duplicate detection under concurrent registration. The security stamp is
// seeded here and rotated on credential changes.
func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (username, email, password_hash, security_stamp)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	account.SecurityStamp = uuid.NewString()
	err := r.pool.QueryRow(ctx, query,
		account.Username,
		account.Email,
		account.PasswordHash,
		account.SecurityStamp,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return mapUniqueViolation(err)
	}
	return nil
}

func (r *accountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	const query = `
        SELECT id, username, email, password_hash, security_stamp, created_at, updated_at
        FROM accounts WHERE username=$1`

	return r.scanOne(ctx, query, username)
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const query = `
        SELECT id, username, email, password_hash, security_stamp, created_at, updated_at
        FROM accounts WHERE email=$1`

	return r.scanOne(ctx, query, email)
}

// RotateSecurityStamp replaces the account's stamp with a fresh marker. Already
// issued tokens stay valid until they expire; rotation is advisory.
func (r *accountRepository) RotateSecurityStamp(ctx context.Context, accountID string) error {
	const query = `
        UPDATE accounts SET security_stamp=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, uuid.NewString(), accountID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) UpdatePassword(ctx context.Context, accountID, passwordHash string) error {
	const query = `
        UPDATE accounts SET password_hash=$1, security_stamp=$2, updated_at=NOW() WHERE id=$3`

	cmd, err := r.pool.Exec(ctx, query, passwordHash, uuid.NewString(), accountID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) scanOne(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var account domain.Account
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.PasswordHash,
		&account.SecurityStamp,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch {
		case strings.Contains(pgErr.ConstraintName, "username"):
			return ErrDuplicateUsername
		case strings.Contains(pgErr.ConstraintName, "email"):
			return ErrDuplicateEmail
		}
	}
	return err
}
