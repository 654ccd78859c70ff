package settings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlas-console/atlas-console/internal/shared"
)

// RepositoryPort defines data access methods for settings profiles.
type RepositoryPort interface {
	List(ctx context.Context) ([]Setting, error)
	FindByID(ctx context.Context, id string) (*Setting, error)
	FindEnabled(ctx context.Context) (*Setting, error)
	Insert(ctx context.Context, s Setting) error
	Update(ctx context.Context, s Setting) error
	Delete(ctx context.Context, id string) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const settingColumns = `id, product_name, product_version, product_description, allow_signup, has_enabled, remark, created_time, updated_time`

// List returns every profile.
func (r *Repository) List(ctx context.Context) ([]Setting, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+settingColumns+` FROM settings ORDER BY created_time DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Setting
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// FindByID fetches one profile.
func (r *Repository) FindByID(ctx context.Context, id string) (*Setting, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+settingColumns+` FROM settings WHERE id = $1`, id)
	return onePossiblyMissing(row)
}

// FindEnabled fetches the active profile.
func (r *Repository) FindEnabled(ctx context.Context) (*Setting, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+settingColumns+` FROM settings WHERE has_enabled ORDER BY updated_time DESC NULLS LAST LIMIT 1`)
	return onePossiblyMissing(row)
}

// Insert persists a new profile.
func (r *Repository) Insert(ctx context.Context, s Setting) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO settings (id, product_name, product_version, product_description, allow_signup, has_enabled, remark, created_time) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.ProductName, s.ProductVersion, s.ProductDescription, s.AllowSignup, s.HasEnabled, s.Remark, s.CreatedTime)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return shared.ErrConflict
		}
		return err
	}
	return nil
}

// Update rewrites a profile.
func (r *Repository) Update(ctx context.Context, s Setting) error {
	tag, err := r.pool.Exec(ctx, `UPDATE settings SET product_name = $2, product_version = $3, product_description = $4, allow_signup = $5, has_enabled = $6, remark = $7, updated_time = NOW() WHERE id = $1`,
		s.ID, s.ProductName, s.ProductVersion, s.ProductDescription, s.AllowSignup, s.HasEnabled, s.Remark)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a profile.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM settings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func onePossiblyMissing(row pgx.Row) (*Setting, error) {
	s, err := scanSetting(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func scanSetting(row pgx.Row) (*Setting, error) {
	var s Setting
	err := row.Scan(&s.ID, &s.ProductName, &s.ProductVersion, &s.ProductDescription, &s.AllowSignup, &s.HasEnabled, &s.Remark, &s.CreatedTime, &s.UpdatedTime)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

var _ RepositoryPort = (*Repository)(nil)
