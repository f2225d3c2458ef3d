package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/nabin-thapa/gighub/internal/domain/otp"
	"github.com/nabin-thapa/gighub/internal/pkg/errors"
)

type OTPRepository struct {
	db *DB
}

func NewOTPRepository(db *DB) otp.Repository {
	return &OTPRepository{db: db}
}

func (r *OTPRepository) Create(ctx context.Context, c *otp.Code) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.StorageUnavailable("Failed to begin transaction", err)
	}
	defer tx.Rollback()

	// A resend invalidates anything previously issued for the user
	invalidate := r.db.Rebind(`UPDATE otp_codes SET used = TRUE WHERE user_id = ? AND used = FALSE`)
	if _, err := tx.ExecContext(ctx, invalidate, c.UserID); err != nil {
		return errors.StorageUnavailable("Failed to invalidate prior codes", err)
	}

	insert := r.db.Rebind(`
		INSERT INTO otp_codes (user_id, code, expires_at, used, created_at)
		VALUES (?, ?, ?, FALSE, ?)
	`)

	if r.db.DriverName() == "postgres" {
		err = tx.QueryRowContext(ctx, insert+" RETURNING id",
			c.UserID, c.Code, c.ExpiresAt, c.CreatedAt,
		).Scan(&c.ID)
		if err != nil {
			return errors.StorageUnavailable("Failed to store OTP code", err)
		}
	} else {
		res, err := tx.ExecContext(ctx, insert, c.UserID, c.Code, c.ExpiresAt, c.CreatedAt)
		if err != nil {
			return errors.StorageUnavailable("Failed to store OTP code", err)
		}
		c.ID, err = res.LastInsertId()
		if err != nil {
			return errors.StorageUnavailable("Failed to get OTP ID", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.StorageUnavailable("Failed to commit OTP code", err)
	}
	return nil
}

func (r *OTPRepository) FindUsable(ctx context.Context, userID int64, codeValue string, now time.Time) (*otp.Code, error) {
	query := r.db.Rebind(`
		SELECT id, user_id, code, expires_at, used, created_at
		FROM otp_codes
		WHERE user_id = ? AND code = ? AND used = FALSE AND expires_at > ?
	`)

	var c otp.Code
	err := r.db.QueryRowContext(ctx, query, userID, codeValue, now).Scan(
		&c.ID, &c.UserID, &c.Code, &c.ExpiresAt, &c.Used, &c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.StorageUnavailable("Failed to look up OTP code", err)
	}
	return &c, nil
}

func (r *OTPRepository) MarkUsed(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("UPDATE otp_codes SET used = TRUE WHERE id = ?"), id)
	if err != nil {
		return errors.StorageUnavailable("Failed to consume OTP code", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return errors.StorageUnavailable("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("OTP code")
	}
	return nil
}

func (r *OTPRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM otp_codes WHERE expires_at <= ?"), now)
	if err != nil {
		return 0, errors.StorageUnavailable("Failed to delete expired OTP codes", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, errors.StorageUnavailable("Failed to get affected rows", err)
	}
	return rows, nil
}
