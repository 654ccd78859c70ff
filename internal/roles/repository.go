package roles

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlas-console/atlas-console/internal/shared"
)

// RepositoryPort defines data access methods for roles.
type RepositoryPort interface {
	List(ctx context.Context, filter Filter) ([]Role, error)
	FindByID(ctx context.Context, id string) (*Role, error)
	FindSomeByIDs(ctx context.Context, ids []string) ([]Role, error)
	Insert(ctx context.Context, role Role) error
	Update(ctx context.Context, role Role) error
	Delete(ctx context.Context, id string) error
	CountRoles(ctx context.Context) (int64, error)
	CountUsersForRole(ctx context.Context, id string) (int64, error)
	CountUsersPerRole(ctx context.Context) ([]UserCount, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns roles matching the filter, fuzzy on name and code type.
func (r *Repository) List(ctx context.Context, filter Filter) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, role_name, code_type, status, remark, created_time, updated_time FROM roles
		WHERE ($1 = '' OR role_name ILIKE '%' || $1 || '%')
		AND ($2 = '' OR code_type ILIKE '%' || $2 || '%')
		ORDER BY created_time, id`, filter.RoleName, filter.CodeType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRoles(rows)
}

// FindByID fetches a role.
func (r *Repository) FindByID(ctx context.Context, id string) (*Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx, `SELECT id, role_name, code_type, status, remark, created_time, updated_time FROM roles WHERE id = $1`, id).
		Scan(&role.ID, &role.RoleName, &role.CodeType, &role.Status, &role.Remark, &role.CreatedTime, &role.UpdatedTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

// FindSomeByIDs fetches the roles whose ids appear in the list.
func (r *Repository) FindSomeByIDs(ctx context.Context, ids []string) ([]Role, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT id, role_name, code_type, status, remark, created_time, updated_time FROM roles WHERE id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRoles(rows)
}

// Insert persists a new role.
func (r *Repository) Insert(ctx context.Context, role Role) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO roles (id, role_name, code_type, status, remark, created_time) VALUES ($1, $2, $3, $4, $5, $6)`,
		role.ID, role.RoleName, role.CodeType, role.Status, role.Remark, role.CreatedTime)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return shared.ErrConflict
		}
		return err
	}
	return nil
}

// Update rewrites a role.
func (r *Repository) Update(ctx context.Context, role Role) error {
	tag, err := r.pool.Exec(ctx, `UPDATE roles SET role_name = $2, code_type = $3, status = $4, remark = $5, updated_time = NOW() WHERE id = $1`,
		role.ID, role.RoleName, role.CodeType, role.Status, role.Remark)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a role.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountRoles returns the total number of roles.
func (r *Repository) CountRoles(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM roles`).Scan(&count)
	return count, err
}

// CountUsersForRole returns the number of users holding the role.
func (r *Repository) CountUsersForRole(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM user_roles WHERE role_id = $1`, id).Scan(&count)
	return count, err
}

// CountUsersPerRole returns user totals for every role.
func (r *Repository) CountUsersPerRole(ctx context.Context) ([]UserCount, error) {
	rows, err := r.pool.Query(ctx, `SELECT r.id, r.role_name, COUNT(ur.user_id) FROM roles r
		LEFT JOIN user_roles ur ON ur.role_id = r.id
		GROUP BY r.id, r.role_name ORDER BY r.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []UserCount
	for rows.Next() {
		var c UserCount
		if err := rows.Scan(&c.RoleID, &c.RoleName, &c.UserCount); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func scanRoles(rows pgx.Rows) ([]Role, error) {
	var roles []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.RoleName, &role.CodeType, &role.Status, &role.Remark, &role.CreatedTime, &role.UpdatedTime); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return roles, nil
}

var _ RepositoryPort = (*Repository)(nil)
