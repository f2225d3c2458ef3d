package subscription

import (
	"context"
	"time"
)

// AdminUpdateRequest is the admin override payload; omitted fields keep
// prior values and no transition check is applied.
type AdminUpdateRequest struct {
	Status  *Status    `json:"status,omitempty"`
	EndDate *time.Time `json:"end_date,omitempty"`
}

// Service defines the interface for the subscription lifecycle engine
type Service interface {
	// Subscribe admits a freelancer onto a plan. At most one subscription
	// per freelancer may hold an open window at any instant.
	Subscribe(ctx context.Context, freelancerID, planID int64) (*Subscription, error)

	// Cancel transitions the caller's active subscription to cancelled
	Cancel(ctx context.Context, freelancerID int64) (*Subscription, error)

	// GetByID retrieves a subscription
	GetByID(ctx context.Context, id int64) (*Subscription, error)

	// AdminUpdate applies an unconstrained partial override
	AdminUpdate(ctx context.Context, id int64, req AdminUpdateRequest) (*Subscription, error)

	// AdminDelete hard-deletes a subscription
	AdminDelete(ctx context.Context, id int64) error

	// ListAll retrieves all subscriptions for reporting
	ListAll(ctx context.Context) ([]*Record, error)

	// ListByPlan retrieves subscriptions for one plan
	ListByPlan(ctx context.Context, planID int64) ([]*Record, error)

	// HasActiveSubscription reports whether the user currently holds an
	// entitling subscription. Consumed by feature gates, never returned
	// raw to clients.
	HasActiveSubscription(ctx context.Context, userID int64) (bool, error)

	// SweepExpired expires elapsed active subscriptions and returns the
	// number of rows swept
	SweepExpired(ctx context.Context) (int64, error)
}
