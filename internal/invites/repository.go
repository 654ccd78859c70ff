package invites

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlas-console/atlas-console/internal/shared"
)

// RepositoryPort defines data access methods for invite codes.
type RepositoryPort interface {
	List(ctx context.Context, limit, offset int) ([]InviteCode, error)
	Count(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, id string) (*InviteCode, error)
	Insert(ctx context.Context, code InviteCode) error
	MarkUsed(ctx context.Context, id, userID string) error
	Delete(ctx context.Context, id string) error
	DeleteExpiredUnused(ctx context.Context, before time.Time) (int64, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const inviteColumns = `i.id, COALESCE(i.used_user_id, ''), COALESCE(u.user_name, ''), i.status, i.remark, i.expires_at, i.created_time, i.updated_time`

const inviteFrom = ` FROM invite_codes i LEFT JOIN users u ON u.id = i.used_user_id`

// List returns a page of invite codes with the consuming user's name joined in.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]InviteCode, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+inviteColumns+inviteFrom+` ORDER BY i.created_time DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []InviteCode
	for rows.Next() {
		code, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		codes = append(codes, *code)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return codes, nil
}

// Count returns the total number of invite codes.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM invite_codes`).Scan(&total)
	return total, err
}

// FindByID fetches one invite code.
func (r *Repository) FindByID(ctx context.Context, id string) (*InviteCode, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+inviteColumns+inviteFrom+` WHERE i.id = $1`, id)
	code, err := scanInvite(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return code, nil
}

// Insert persists a new code.
func (r *Repository) Insert(ctx context.Context, code InviteCode) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO invite_codes (id, status, remark, expires_at, created_time) VALUES ($1, $2, $3, $4, $5)`,
		code.ID, code.Status, code.Remark, code.ExpiresAt, code.CreatedTime)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return shared.ErrConflict
		}
		return err
	}
	return nil
}

// MarkUsed binds a code to the user who consumed it. A code already bound is
// left untouched and reported as a conflict.
func (r *Repository) MarkUsed(ctx context.Context, id, userID string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE invite_codes SET used_user_id = $2, updated_time = NOW() WHERE id = $1 AND used_user_id IS NULL`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		exists, err := r.exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return shared.ErrNotFound
		}
		return shared.ErrConflict
	}
	return nil
}

// Delete removes a code.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM invite_codes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteExpiredUnused sweeps codes past their expiry that were never consumed.
func (r *Repository) DeleteExpiredUnused(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM invite_codes WHERE used_user_id IS NULL AND expires_at IS NOT NULL AND expires_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) exists(ctx context.Context, id string) (bool, error) {
	var found bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM invite_codes WHERE id = $1)`, id).Scan(&found)
	return found, err
}

func scanInvite(row pgx.Row) (*InviteCode, error) {
	var code InviteCode
	err := row.Scan(&code.ID, &code.UsedUserID, &code.UsedUserName, &code.Status, &code.Remark, &code.ExpiresAt, &code.CreatedTime, &code.UpdatedTime)
	if err != nil {
		return nil, err
	}
	return &code, nil
}

var _ RepositoryPort = (*Repository)(nil)
