package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/nabin-thapa/gighub/internal/domain/subscription"
	"github.com/nabin-thapa/gighub/internal/pkg/errors"
)

// subscriptionLockClass namespaces the per-freelancer advisory lock keys
const subscriptionLockClass = int64(0x53554253) // "SUBS"

func admissionLockKey(freelancerID int64) int64 {
	return subscriptionLockClass<<32 ^ freelancerID
}

type SubscriptionRepository struct {
	db *DB
}

func NewSubscriptionRepository(db *DB) subscription.Repository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `id, freelancer_id, plan_id, status, start_date, end_date, activated_at, created_at, updated_at`

func scanSubscription(row interface {
	Scan(dest ...interface{}) error
}) (*subscription.Subscription, error) {
	var s subscription.Subscription
	var status string
	var endDate, activatedAt sql.NullTime
	err := row.Scan(
		&s.ID, &s.FreelancerID, &s.PlanID, &status,
		&s.StartDate, &endDate, &activatedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Status = subscription.Status(status)
	if endDate.Valid {
		t := endDate.Time
		s.EndDate = &t
	}
	if activatedAt.Valid {
		t := activatedAt.Time
		s.ActivatedAt = &t
	}
	return &s, nil
}

const overlapQuery = `
	SELECT ` + subscriptionColumns + `
	FROM subscriptions
	WHERE freelancer_id = ?
	  AND status IN ('active', 'pending_start')
	  AND (end_date > ? OR start_date > ?)
	ORDER BY start_date DESC
	LIMIT 1
`

func (r *SubscriptionRepository) FindOverlapping(ctx context.Context, freelancerID int64, now time.Time) (*subscription.Subscription, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(overlapQuery), freelancerID, now, now)
	s, err := scanSubscription(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.StorageUnavailable("Failed to query overlapping subscription", err)
	}
	return s, nil
}

func (r *SubscriptionRepository) CreateExclusive(ctx context.Context, sub *subscription.Subscription, now time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.StorageUnavailable("Failed to begin admission transaction", err)
	}
	defer tx.Rollback()

	// Serialize admission per freelancer so two concurrent subscribes
	// cannot both pass the overlap check. Postgres holds a transaction-
	// scoped advisory lock; the sqlite path runs on a single writer
	// connection, which serializes on its own.
	if r.db.DriverName() == "postgres" {
		if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", admissionLockKey(sub.FreelancerID)); err != nil {
			return errors.StorageUnavailable("Failed to acquire admission lock", err)
		}
	}

	row := tx.QueryRowContext(ctx, r.db.Rebind(overlapQuery), sub.FreelancerID, now, now)
	existing, err := scanSubscription(row)
	if err != nil && err != sql.ErrNoRows {
		return errors.StorageUnavailable("Failed to re-check overlap", err)
	}
	if err == nil {
		return &subscription.OverlapError{Existing: existing}
	}

	sub.CreatedAt = now
	sub.UpdatedAt = now

	insert := r.db.Rebind(`
		INSERT INTO subscriptions (freelancer_id, plan_id, status, start_date, end_date, activated_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)

	if r.db.DriverName() == "postgres" {
		err = tx.QueryRowContext(ctx, insert+" RETURNING id",
			sub.FreelancerID, sub.PlanID, string(sub.Status), sub.StartDate,
			nullTime(sub.EndDate), nullTime(sub.ActivatedAt), sub.CreatedAt, sub.UpdatedAt,
		).Scan(&sub.ID)
		if err != nil {
			return errors.StorageUnavailable("Failed to insert subscription", err)
		}
	} else {
		res, err := tx.ExecContext(ctx, insert,
			sub.FreelancerID, sub.PlanID, string(sub.Status), sub.StartDate,
			nullTime(sub.EndDate), nullTime(sub.ActivatedAt), sub.CreatedAt, sub.UpdatedAt,
		)
		if err != nil {
			return errors.StorageUnavailable("Failed to insert subscription", err)
		}
		sub.ID, err = res.LastInsertId()
		if err != nil {
			return errors.StorageUnavailable("Failed to get subscription ID", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.StorageUnavailable("Failed to commit admission transaction", err)
	}
	return nil
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, id int64) (*subscription.Subscription, error) {
	query := r.db.Rebind(`SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = ?`)
	s, err := scanSubscription(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Subscription")
	}
	if err != nil {
		return nil, errors.StorageUnavailable("Failed to get subscription", err)
	}
	return s, nil
}

func (r *SubscriptionRepository) FindActiveByUser(ctx context.Context, freelancerID int64) (*subscription.Subscription, error) {
	query := r.db.Rebind(`
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE freelancer_id = ? AND status = 'active'
		ORDER BY start_date DESC
		LIMIT 1
	`)
	s, err := scanSubscription(r.db.QueryRowContext(ctx, query, freelancerID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.StorageUnavailable("Failed to query active subscription", err)
	}
	return s, nil
}

func (r *SubscriptionRepository) SetStatus(ctx context.Context, id int64, newStatus subscription.Status, now time.Time) (*subscription.Subscription, error) {
	query := r.db.Rebind(`UPDATE subscriptions SET status = ?, updated_at = ? WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query, string(newStatus), now, id)
	if err != nil {
		return nil, errors.StorageUnavailable("Failed to update subscription status", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, errors.StorageUnavailable("Failed to get affected rows", err)
	}
	if rows == 0 {
		return nil, errors.NotFound("Subscription")
	}
	return r.GetByID(ctx, id)
}

func (r *SubscriptionRepository) Update(ctx context.Context, id int64, fields subscription.UpdateFields, now time.Time) (*subscription.Subscription, error) {
	// Null-coalescing partial update: omitted fields keep prior values
	query := r.db.Rebind(`
		UPDATE subscriptions
		SET status = COALESCE(?, status),
		    end_date = COALESCE(?, end_date),
		    updated_at = ?
		WHERE id = ?
	`)

	var status interface{}
	if fields.Status != nil {
		status = string(*fields.Status)
	}

	res, err := r.db.ExecContext(ctx, query, status, nullTime(fields.EndDate), now, id)
	if err != nil {
		return nil, errors.StorageUnavailable("Failed to update subscription", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, errors.StorageUnavailable("Failed to get affected rows", err)
	}
	if rows == 0 {
		return nil, errors.NotFound("Subscription")
	}
	return r.GetByID(ctx, id)
}

func (r *SubscriptionRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM subscriptions WHERE id = ?"), id)
	if err != nil {
		return errors.StorageUnavailable("Failed to delete subscription", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return errors.StorageUnavailable("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Subscription")
	}
	return nil
}

const recordQuery = `
	SELECT s.id, s.freelancer_id, s.plan_id, s.status, s.start_date, s.end_date,
	       s.activated_at, s.created_at, s.updated_at,
	       u.email, u.username, p.name, p.price
	FROM subscriptions s
	JOIN users u ON u.id = s.freelancer_id
	JOIN plans p ON p.id = s.plan_id
`

func (r *SubscriptionRepository) listRecords(ctx context.Context, query string, args ...interface{}) ([]*subscription.Record, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, errors.StorageUnavailable("Failed to list subscriptions", err)
	}
	defer rows.Close()

	var records []*subscription.Record
	for rows.Next() {
		var rec subscription.Record
		var status string
		var endDate, activatedAt sql.NullTime
		err := rows.Scan(
			&rec.ID, &rec.FreelancerID, &rec.PlanID, &status,
			&rec.StartDate, &endDate, &activatedAt, &rec.CreatedAt, &rec.UpdatedAt,
			&rec.FreelancerEmail, &rec.FreelancerName, &rec.PlanName, &rec.PlanPrice,
		)
		if err != nil {
			return nil, errors.StorageUnavailable("Failed to scan subscription row", err)
		}
		rec.Status = subscription.Status(status)
		if endDate.Valid {
			t := endDate.Time
			rec.EndDate = &t
		}
		if activatedAt.Valid {
			t := activatedAt.Time
			rec.ActivatedAt = &t
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.StorageUnavailable("Failed to read subscription rows", err)
	}
	return records, nil
}

func (r *SubscriptionRepository) ListAll(ctx context.Context) ([]*subscription.Record, error) {
	return r.listRecords(ctx, recordQuery+" ORDER BY s.start_date DESC")
}

func (r *SubscriptionRepository) ListByPlan(ctx context.Context, planID int64) ([]*subscription.Record, error) {
	return r.listRecords(ctx, recordQuery+" WHERE s.plan_id = ? ORDER BY s.start_date DESC", planID)
}

func (r *SubscriptionRepository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	query := r.db.Rebind(`
		UPDATE subscriptions
		SET status = 'expired', updated_at = ?
		WHERE status = 'active' AND end_date IS NOT NULL AND end_date <= ?
	`)
	res, err := r.db.ExecContext(ctx, query, now, now)
	if err != nil {
		return 0, errors.StorageUnavailable("Failed to sweep expired subscriptions", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, errors.StorageUnavailable("Failed to get affected rows", err)
	}
	return rows, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
