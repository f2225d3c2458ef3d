package postgres

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/nabin-thapa/gighub/internal/domain/coupon"
	"github.com/nabin-thapa/gighub/internal/pkg/errors"
)

type CouponRepository struct {
	db *DB
}

func NewCouponRepository(db *DB) coupon.Repository {
	return &CouponRepository{db: db}
}

const couponColumns = `id, code, course_id, discount_pct, max_uses, used_count, expires_at, created_at, updated_at`

func scanCoupon(row interface {
	Scan(dest ...interface{}) error
}) (*coupon.Coupon, error) {
	var c coupon.Coupon
	var expiresAt sql.NullTime
	err := row.Scan(
		&c.ID, &c.Code, &c.CourseID, &c.DiscountPct, &c.MaxUses, &c.UsedCount,
		&expiresAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		c.ExpiresAt = &t
	}
	return &c, nil
}

func (r *CouponRepository) Create(ctx context.Context, c *coupon.Coupon) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	query := r.db.Rebind(`
		INSERT INTO coupons (code, course_id, discount_pct, max_uses, used_count, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, ?, ?, ?)
	`)

	if r.db.DriverName() == "postgres" {
		err := r.db.QueryRowContext(ctx, query+" RETURNING id",
			c.Code, c.CourseID, c.DiscountPct, c.MaxUses, nullTime(c.ExpiresAt), c.CreatedAt, c.UpdatedAt,
		).Scan(&c.ID)
		if err != nil {
			return errors.StorageUnavailable("Failed to create coupon", err)
		}
		return nil
	}

	res, err := r.db.ExecContext(ctx, query,
		c.Code, c.CourseID, c.DiscountPct, c.MaxUses, nullTime(c.ExpiresAt), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return errors.StorageUnavailable("Failed to create coupon", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return errors.StorageUnavailable("Failed to get coupon ID", err)
	}
	return nil
}

func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	query := r.db.Rebind(`SELECT ` + couponColumns + ` FROM coupons WHERE code = ?`)
	c, err := scanCoupon(r.db.QueryRowContext(ctx, query, code))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Coupon")
	}
	if err != nil {
		return nil, errors.StorageUnavailable("Failed to get coupon", err)
	}
	return c, nil
}

func (r *CouponRepository) List(ctx context.Context) ([]*coupon.Coupon, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+couponColumns+` FROM coupons ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.StorageUnavailable("Failed to list coupons", err)
	}
	defer rows.Close()

	var coupons []*coupon.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, errors.StorageUnavailable("Failed to scan coupon row", err)
		}
		coupons = append(coupons, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.StorageUnavailable("Failed to read coupon rows", err)
	}
	return coupons, nil
}

func (r *CouponRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM coupons WHERE id = ?"), id)
	if err != nil {
		return errors.StorageUnavailable("Failed to delete coupon", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return errors.StorageUnavailable("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Coupon")
	}
	return nil
}

func (r *CouponRepository) Redeem(ctx context.Context, couponID, userID int64, now time.Time) (*coupon.Redemption, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.StorageUnavailable("Failed to begin transaction", err)
	}
	defer tx.Rollback()

	// The guarded increment enforces max_uses under concurrent redeems
	update := r.db.Rebind(`
		UPDATE coupons
		SET used_count = used_count + 1, updated_at = ?
		WHERE id = ? AND (max_uses <= 0 OR used_count < max_uses)
	`)
	res, err := tx.ExecContext(ctx, update, now, couponID)
	if err != nil {
		return nil, errors.StorageUnavailable("Failed to redeem coupon", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, errors.StorageUnavailable("Failed to get affected rows", err)
	}
	if rows == 0 {
		return nil, errors.New(errors.ErrCodeCouponExhausted, "Coupon has no remaining uses", http.StatusConflict)
	}

	red := &coupon.Redemption{CouponID: couponID, UserID: userID, CreatedAt: now}
	insert := r.db.Rebind(`INSERT INTO coupon_redemptions (coupon_id, user_id, created_at) VALUES (?, ?, ?)`)

	if r.db.DriverName() == "postgres" {
		err = tx.QueryRowContext(ctx, insert+" RETURNING id", couponID, userID, now).Scan(&red.ID)
		if err != nil {
			return nil, errors.StorageUnavailable("Failed to record redemption", err)
		}
	} else {
		ins, err := tx.ExecContext(ctx, insert, couponID, userID, now)
		if err != nil {
			return nil, errors.StorageUnavailable("Failed to record redemption", err)
		}
		red.ID, err = ins.LastInsertId()
		if err != nil {
			return nil, errors.StorageUnavailable("Failed to get redemption ID", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.StorageUnavailable("Failed to commit redemption", err)
	}
	return red, nil
}
