package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/nabin-thapa/gighub/internal/domain/user"
	"github.com/nabin-thapa/gighub/internal/pkg/errors"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) user.Repository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, username, full_name, password_hash, role, is_verified, is_deleted, created_at, updated_at`

func scanUser(row interface {
	Scan(dest ...interface{}) error
}) (*user.User, error) {
	var u user.User
	var fullName sql.NullString
	var role int
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &fullName, &u.PasswordHash, &role,
		&u.IsVerified, &u.IsDeleted, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if fullName.Valid {
		u.FullName = &fullName.String
	}
	u.Role = user.Role(role)
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	query := r.db.Rebind(`
		INSERT INTO users (email, username, full_name, password_hash, role, is_verified, is_deleted, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	if r.db.DriverName() == "postgres" {
		err := r.db.QueryRowContext(ctx, query+" RETURNING id",
			u.Email, u.Username, u.FullName, u.PasswordHash, int(u.Role),
			u.IsVerified, u.IsDeleted, u.CreatedAt, u.UpdatedAt,
		).Scan(&u.ID)
		if err != nil {
			return errors.StorageUnavailable("Failed to create user", err)
		}
		return nil
	}

	res, err := r.db.ExecContext(ctx, query,
		u.Email, u.Username, u.FullName, u.PasswordHash, int(u.Role),
		u.IsVerified, u.IsDeleted, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return errors.StorageUnavailable("Failed to create user", err)
	}
	u.ID, err = res.LastInsertId()
	if err != nil {
		return errors.StorageUnavailable("Failed to get user ID", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ? AND is_deleted = FALSE`)
	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("User")
	}
	if err != nil {
		return nil, errors.StorageUnavailable("Failed to get user", err)
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE email = ? AND is_deleted = FALSE`)
	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("User")
	}
	if err != nil {
		return nil, errors.StorageUnavailable("Failed to get user", err)
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	u.UpdatedAt = time.Now()

	query := r.db.Rebind(`
		UPDATE users
		SET email = ?, username = ?, full_name = ?, password_hash = ?, role = ?, is_verified = ?, updated_at = ?
		WHERE id = ? AND is_deleted = FALSE
	`)
	res, err := r.db.ExecContext(ctx, query,
		u.Email, u.Username, u.FullName, u.PasswordHash, int(u.Role), u.IsVerified, u.UpdatedAt, u.ID,
	)
	if err != nil {
		return errors.StorageUnavailable("Failed to update user", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return errors.StorageUnavailable("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("User")
	}
	return nil
}

func (r *UserRepository) MarkVerified(ctx context.Context, id int64) error {
	query := r.db.Rebind(`UPDATE users SET is_verified = TRUE, updated_at = ? WHERE id = ? AND is_deleted = FALSE`)
	res, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return errors.StorageUnavailable("Failed to mark user verified", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return errors.StorageUnavailable("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("User")
	}
	return nil
}

func (r *UserRepository) ListByRole(ctx context.Context, role user.Role, limit, offset int) ([]*user.User, int64, error) {
	var total int64
	countQuery := r.db.Rebind(`SELECT COUNT(*) FROM users WHERE role = ? AND is_deleted = FALSE`)
	if err := r.db.QueryRowContext(ctx, countQuery, int(role)).Scan(&total); err != nil {
		return nil, 0, errors.StorageUnavailable("Failed to count users", err)
	}

	query := r.db.Rebind(`
		SELECT ` + userColumns + `
		FROM users
		WHERE role = ? AND is_deleted = FALSE
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`)
	rows, err := r.db.QueryContext(ctx, query, int(role), limit, offset)
	if err != nil {
		return nil, 0, errors.StorageUnavailable("Failed to list users", err)
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, errors.StorageUnavailable("Failed to scan user row", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.StorageUnavailable("Failed to read user rows", err)
	}
	return users, total, nil
}
