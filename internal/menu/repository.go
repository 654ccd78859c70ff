package menu

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlas-console/atlas-console/internal/platform/db"
	"github.com/atlas-console/atlas-console/internal/shared"
)

// RepositoryPort defines data access methods for menus.
type RepositoryPort interface {
	ListAll(ctx context.Context) ([]Menu, error)
	ListForRole(ctx context.Context, roleID string) ([]Menu, error)
	FindByID(ctx context.Context, id string) (*Menu, error)
	Insert(ctx context.Context, m Menu) error
	Update(ctx context.Context, m Menu) error
	Delete(ctx context.Context, id string) error
	ListOrphans(ctx context.Context) ([]Menu, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const menuColumns = `id, name, code, pc_icon, mobile_icon, sort, parent_id, pc_route, mobile_route, status, remark, created_time, updated_time`

// ListAll returns every menu with its granted role ids attached.
func (r *Repository) ListAll(ctx context.Context) ([]Menu, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+menuColumns+` FROM menus ORDER BY sort, id`)
	if err != nil {
		return nil, err
	}
	menus, err := collectMenus(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachRoleIDs(ctx, menus); err != nil {
		return nil, err
	}
	return menus, nil
}

// ListForRole returns the enabled menus granted to one role.
func (r *Repository) ListForRole(ctx context.Context, roleID string) ([]Menu, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+prefixed(menuColumns, "m.")+` FROM menus m
		JOIN menu_roles mr ON mr.menu_id = m.id
		WHERE mr.role_id = $1 AND m.status <> $2
		ORDER BY m.sort, m.id`, roleID, shared.StatusDisabled)
	if err != nil {
		return nil, err
	}
	return collectMenus(rows)
}

// FindByID fetches one menu with its granted role ids.
func (r *Repository) FindByID(ctx context.Context, id string) (*Menu, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+menuColumns+` FROM menus WHERE id = $1`, id)
	m, err := scanMenu(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	menus := []Menu{*m}
	if err := r.attachRoleIDs(ctx, menus); err != nil {
		return nil, err
	}
	return &menus[0], nil
}

// Insert persists a new menu and its role-grant edges in one transaction.
func (r *Repository) Insert(ctx context.Context, m Menu) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO menus (id, name, code, pc_icon, mobile_icon, sort, parent_id, pc_route, mobile_route, status, remark, created_time)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			m.ID, m.Name, m.Code, m.PCIcon, m.MobileIcon, m.Sort, m.ParentID, m.PCRoute, m.MobileRoute, m.Status, m.Remark, m.CreatedTime)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return shared.ErrConflict
			}
			return err
		}
		return insertGrantEdges(ctx, tx, m.ID, m.RoleIDs)
	})
}

// Update rewrites the menu row and replaces its role-grant edges.
func (r *Repository) Update(ctx context.Context, m Menu) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE menus SET name = $2, code = $3, pc_icon = $4, mobile_icon = $5, sort = $6, parent_id = $7, pc_route = $8, mobile_route = $9, status = $10, remark = $11, updated_time = NOW() WHERE id = $1`,
			m.ID, m.Name, m.Code, m.PCIcon, m.MobileIcon, m.Sort, m.ParentID, m.PCRoute, m.MobileRoute, m.Status, m.Remark)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM menu_roles WHERE menu_id = $1`, m.ID); err != nil {
			return err
		}
		return insertGrantEdges(ctx, tx, m.ID, m.RoleIDs)
	})
}

// Delete removes a menu and its grant edges.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM menu_roles WHERE menu_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM menus WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// ListOrphans returns menus referencing a parent id that does not exist.
// Such records render as roots but are a data-integrity warning.
func (r *Repository) ListOrphans(ctx context.Context) ([]Menu, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+prefixed(menuColumns, "m.")+` FROM menus m
		WHERE m.parent_id <> '' AND NOT EXISTS (SELECT 1 FROM menus p WHERE p.id = m.parent_id)
		ORDER BY m.sort, m.id`)
	if err != nil {
		return nil, err
	}
	return collectMenus(rows)
}

func (r *Repository) attachRoleIDs(ctx context.Context, menus []Menu) error {
	if len(menus) == 0 {
		return nil
	}
	rows, err := r.pool.Query(ctx, `SELECT menu_id, role_id FROM menu_roles ORDER BY menu_id, role_id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	grants := make(map[string][]string)
	for rows.Next() {
		var menuID, roleID string
		if err := rows.Scan(&menuID, &roleID); err != nil {
			return err
		}
		grants[menuID] = append(grants[menuID], roleID)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for i := range menus {
		menus[i].RoleIDs = grants[menus[i].ID]
	}
	return nil
}

func insertGrantEdges(ctx context.Context, tx pgx.Tx, menuID string, roleIDs []string) error {
	for _, roleID := range roleIDs {
		if _, err := tx.Exec(ctx, `INSERT INTO menu_roles (menu_id, role_id) VALUES ($1, $2)`, menuID, roleID); err != nil {
			return err
		}
	}
	return nil
}

func collectMenus(rows pgx.Rows) ([]Menu, error) {
	defer rows.Close()
	var menus []Menu
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, err
		}
		menus = append(menus, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return menus, nil
}

func scanMenu(row pgx.Row) (*Menu, error) {
	var m Menu
	err := row.Scan(&m.ID, &m.Name, &m.Code, &m.PCIcon, &m.MobileIcon, &m.Sort, &m.ParentID, &m.PCRoute, &m.MobileRoute, &m.Status, &m.Remark, &m.CreatedTime, &m.UpdatedTime)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func prefixed(columns, prefix string) string {
	return prefix + strings.ReplaceAll(columns, ", ", ", "+prefix)
}

var _ RepositoryPort = (*Repository)(nil)
