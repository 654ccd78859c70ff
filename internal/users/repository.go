package users

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlas-console/atlas-console/internal/platform/db"
	"github.com/atlas-console/atlas-console/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	FindByID(ctx context.Context, id string) (*User, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]User, error)
	Insert(ctx context.Context, user User) error
	Update(ctx context.Context, user User) error
	Delete(ctx context.Context, id string) error
	SetDeleted(ctx context.Context, id string) error
	CountUsers(ctx context.Context) (int64, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, user_name, password, phone, mail, real_name, gender, birth_day, avatar_url, status, has_deleted, remark, created_time, updated_time, created_by, updated_by`

// FindByID fetches a user with its role ids attached.
func (r *Repository) FindByID(ctx context.Context, id string) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `SELECT role_id FROM user_roles WHERE user_id = $1 ORDER BY role_id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var roleID string
		if err := rows.Scan(&roleID); err != nil {
			return nil, err
		}
		user.RoleIDs = append(user.RoleIDs, roleID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return user, nil
}

// Exists reports whether a user id is taken, soft-deleted accounts included.
func (r *Repository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// List returns all accounts that are not soft-deleted, without password hashes.
func (r *Repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, user_name, phone, mail, real_name, gender, status, remark, created_time, updated_time FROM users WHERE has_deleted = FALSE ORDER BY created_time, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []User
	for rows.Next() {
		var (
			u       User
			updated *time.Time
		)
		if err := rows.Scan(&u.ID, &u.UserName, &u.Phone, &u.Mail, &u.RealName, &u.Gender, &u.Status, &u.Remark, &u.CreatedTime, &updated); err != nil {
			return nil, err
		}
		u.UpdatedTime = updated
		list = append(list, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// Insert persists a new account and its role edges in one transaction.
func (r *Repository) Insert(ctx context.Context, user User) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO users (id, user_name, password, phone, mail, real_name, gender, birth_day, avatar_url, status, has_deleted, remark, created_time, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			user.ID, user.UserName, user.PasswordHash, user.Phone, user.Mail, user.RealName, user.Gender, user.BirthDay, user.AvatarURL, user.Status, user.HasDeleted, user.Remark, user.CreatedTime, user.CreatedBy)
		if err != nil {
			if isUniqueViolation(err) {
				return shared.ErrConflict
			}
			return err
		}
		return insertRoleEdges(ctx, tx, user.ID, user.RoleIDs)
	})
}

// Update rewrites the account row and replaces its role edges.
func (r *Repository) Update(ctx context.Context, user User) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE users SET user_name = $2, password = $3, phone = $4, mail = $5, real_name = $6, gender = $7, avatar_url = $8, status = $9, remark = $10, updated_time = $11, updated_by = $12 WHERE id = $1`,
			user.ID, user.UserName, user.PasswordHash, user.Phone, user.Mail, user.RealName, user.Gender, user.AvatarURL, user.Status, user.Remark, user.UpdatedTime, user.UpdatedBy)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, user.ID); err != nil {
			return err
		}
		return insertRoleEdges(ctx, tx, user.ID, user.RoleIDs)
	})
}

// Delete removes the account permanently.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetDeleted marks the account as logically removed.
func (r *Repository) SetDeleted(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET has_deleted = TRUE, updated_time = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountUsers returns the total number of accounts.
func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

func insertRoleEdges(ctx context.Context, tx pgx.Tx, userID string, roleIDs []string) error {
	for _, roleID := range roleIDs {
		if _, err := tx.Exec(ctx, `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`, userID, roleID); err != nil {
			return err
		}
	}
	return nil
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.UserName, &u.PasswordHash, &u.Phone, &u.Mail, &u.RealName, &u.Gender, &u.BirthDay, &u.AvatarURL, &u.Status, &u.HasDeleted, &u.Remark, &u.CreatedTime, &u.UpdatedTime, &u.CreatedBy, &u.UpdatedBy)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ RepositoryPort = (*Repository)(nil)
