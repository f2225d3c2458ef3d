package subscription

import (
	"context"
	"time"
)

// UpdateFields carries the admin partial update; nil fields keep their
// prior values.
type UpdateFields struct {
	Status  *Status
	EndDate *time.Time
}

// Repository defines the interface for subscription data access. Every
// method issues a persisted write for any mutation it reports.
type Repository interface {
	// FindOverlapping returns the subscription blocking a new subscribe
	// for the freelancer, or nil when none overlaps at now. The engine
	// never pre-checks with it; admission goes through CreateExclusive,
	// which runs the same check under the per-freelancer lock. This is a
	// diagnostic surface for support tooling and tests.
	FindOverlapping(ctx context.Context, freelancerID int64, now time.Time) (*Subscription, error)

	// CreateExclusive inserts sub only if no overlapping subscription
	// exists for its freelancer at now. The overlap check and the insert
	// run as one admission-control unit serialized per freelancer; a
	// losing call returns *OverlapError carrying the existing row.
	CreateExclusive(ctx context.Context, sub *Subscription, now time.Time) error

	// GetByID retrieves a subscription by ID
	GetByID(ctx context.Context, id int64) (*Subscription, error)

	// FindActiveByUser returns the freelancer's subscription in status
	// active, or nil when none exists. Window checks are the caller's.
	FindActiveByUser(ctx context.Context, freelancerID int64) (*Subscription, error)

	// SetStatus transitions a subscription to newStatus, stamping
	// updated_at with now
	SetStatus(ctx context.Context, id int64, newStatus Status, now time.Time) (*Subscription, error)

	// Update applies an admin partial update via null-coalescing
	Update(ctx context.Context, id int64, fields UpdateFields, now time.Time) (*Subscription, error)

	// DeleteByID hard-deletes a subscription; NotFound when no row existed
	DeleteByID(ctx context.Context, id int64) error

	// ListAll retrieves all subscriptions joined with user and plan,
	// ordered by start_date descending
	ListAll(ctx context.Context) ([]*Record, error)

	// ListByPlan retrieves subscriptions for one plan, same ordering
	ListByPlan(ctx context.Context, planID int64) ([]*Record, error)

	// SweepExpired flips active subscriptions whose end_date has passed
	// to expired and returns how many rows changed
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}
