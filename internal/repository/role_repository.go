package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/stock-service/internal/domain"
)

// ErrRoleMissing signals an assignment referencing a role that was never ensured.
var ErrRoleMissing = errors.New("role does not exist")

// RoleRepository is the role registry: a small fixed catalog plus the
// many-to-many membership relation.
type RoleRepository interface {
	// Ensure creates the role if absent. Safe to call repeatedly and from
	// concurrent registrations: the loser of the insert race sees a no-op.
	Ensure(ctx context.Context, role domain.Role) error
	// Assign grants the role to the account. The role must already exist;
	// assigning a role the account holds is a no-op.
	Assign(ctx context.Context, accountID string, role domain.Role) error
	RolesForAccount(ctx context.Context, accountID string) ([]domain.Role, error)
}

type roleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository returns a Postgres-backed implementation.
func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &roleRepository{pool: pool}
}

func (r *roleRepository) Ensure(ctx context.Context, role domain.Role) error {
	const query = `
        INSERT INTO roles (name) VALUES ($1)
        ON CONFLICT (name) DO NOTHING`

	_, err := r.pool.Exec(ctx, query, string(role))
	return err
}

func (r *roleRepository) Assign(ctx context.Context, accountID string, role domain.Role) error {
	const query = `
        INSERT INTO account_roles (account_id, role_id)
        SELECT $1, id FROM roles WHERE name=$2
        ON CONFLICT (account_id, role_id) DO NOTHING`

	cmd, err := r.pool.Exec(ctx, query, accountID, string(role))
	if err != nil {
		return err
	}
	// Zero rows with no conflict possible only when the role row is absent;
	// the subselect found nothing to insert.
	if cmd.RowsAffected() == 0 {
		held, err := r.accountHolds(ctx, accountID, role)
		if err != nil {
			return err
		}
		if !held {
			return ErrRoleMissing
		}
	}
	return nil
}

func (r *roleRepository) RolesForAccount(ctx context.Context, accountID string) ([]domain.Role, error) {
	const query = `
        SELECT r.name FROM roles r
        JOIN account_roles ar ON ar.role_id = r.id
        WHERE ar.account_id = $1
        ORDER BY r.name`

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		roles = append(roles, domain.Role(name))
	}
	return roles, rows.Err()
}

func (r *roleRepository) accountHolds(ctx context.Context, accountID string, role domain.Role) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM account_roles ar
            JOIN roles r ON r.id = ar.role_id
            WHERE ar.account_id = $1 AND r.name = $2
        )`

	var held bool
	if err := r.pool.QueryRow(ctx, query, accountID, string(role)).Scan(&held); err != nil {
		return false, err
	}
	return held, nil
}
