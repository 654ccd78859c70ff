package rbac

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlas-console/atlas-console/internal/shared"
)

// Resolver answers the role-permission relation backed by the menus and
// menu_roles tables. Lookup is by exact menu name only; callers must pass a
// leaf menu name, not a category.
type Resolver struct {
	pool *pgxpool.Pool
}

// NewResolver constructs a Resolver backed by the provided pool.
func NewResolver(pool *pgxpool.Pool) *Resolver {
	return &Resolver{pool: pool}
}

// RolesForMenu returns the role ids granted on the named menu.
func (r *Resolver) RolesForMenu(ctx context.Context, menuName string) ([]string, error) {
	var (
		menuID string
		status string
	)
	err := r.pool.QueryRow(ctx, `SELECT id, status FROM menus WHERE name = $1`, menuName).Scan(&menuID, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMenuNotFound
		}
		return nil, err
	}
	if status == shared.StatusDisabled {
		return nil, ErrMenuDisabled
	}

	rows, err := r.pool.Query(ctx, `SELECT role_id FROM menu_roles WHERE menu_id = $1 ORDER BY role_id`, menuID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roleIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		roleIDs = append(roleIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return roleIDs, nil
}

var _ PermissionSource = (*Resolver)(nil)
