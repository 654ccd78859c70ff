package dict

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlas-console/atlas-console/internal/shared"
)

// RepositoryPort defines data access methods for dictionary entries.
type RepositoryPort interface {
	List(ctx context.Context) ([]Dict, error)
	ListByType(ctx context.Context, dictType string) ([]Dict, error)
	FindByID(ctx context.Context, id string) (*Dict, error)
	Insert(ctx context.Context, d Dict) error
	Update(ctx context.Context, d Dict) error
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

const dictColumns = `id, dict_type, name, value, sort, status, remark, created_time, updated_time`

// List returns every entry.
func (r *Repository) List(ctx context.Context) ([]Dict, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+dictColumns+` FROM dicts ORDER BY dict_type, sort, id`)
	if err != nil {
		return nil, err
	}
	return collectDicts(rows)
}

// ListByType returns the enabled entries of one type.
func (r *Repository) ListByType(ctx context.Context, dictType string) ([]Dict, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+dictColumns+` FROM dicts WHERE dict_type = $1 AND status <> $2 ORDER BY sort, id`, dictType, shared.StatusDisabled)
	if err != nil {
		return nil, err
	}
	return collectDicts(rows)
}

// FindByID fetches one entry.
func (r *Repository) FindByID(ctx context.Context, id string) (*Dict, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+dictColumns+` FROM dicts WHERE id = $1`, id)
	d, err := scanDict(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// Insert persists a new entry.
func (r *Repository) Insert(ctx context.Context, d Dict) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO dicts (id, dict_type, name, value, sort, status, remark, created_time) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		d.ID, d.DictType, d.Name, d.Value, d.Sort, d.Status, d.Remark, d.CreatedTime)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return shared.ErrConflict
		}
		return err
	}
	return nil
}

// Update rewrites an entry.
func (r *Repository) Update(ctx context.Context, d Dict) error {
	tag, err := r.pool.Exec(ctx, `UPDATE dicts SET dict_type = $2, name = $3, value = $4, sort = $5, status = $6, remark = $7, updated_time = NOW() WHERE id = $1`,
		d.ID, d.DictType, d.Name, d.Value, d.Sort, d.Status, d.Remark)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes an entry.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM dicts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func collectDicts(rows pgx.Rows) ([]Dict, error) {
	defer rows.Close()
	var dicts []Dict
	for rows.Next() {
		d, err := scanDict(rows)
		if err != nil {
			return nil, err
		}
		dicts = append(dicts, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return dicts, nil
}

func scanDict(row pgx.Row) (*Dict, error) {
	var d Dict
	err := row.Scan(&d.ID, &d.DictType, &d.Name, &d.Value, &d.Sort, &d.Status, &d.Remark, &d.CreatedTime, &d.UpdatedTime)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

var _ RepositoryPort = (*Repository)(nil)
