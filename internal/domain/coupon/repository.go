package coupon

import (
	"context"
	"time"
)

// Repository defines the interface for coupon data access
type Repository interface {
	// Create creates a new coupon
	Create(ctx context.Context, c *Coupon) error

	// GetByCode retrieves a coupon by its code
	GetByCode(ctx context.Context, code string) (*Coupon, error)

	// List retrieves all coupons, newest first
	List(ctx context.Context) ([]*Coupon, error)

	// Delete deletes a coupon
	Delete(ctx context.Context, id int64) error

	// Redeem increments used_count and records the redemption in one
	// transaction, guarding max_uses against concurrent redeems
	Redeem(ctx context.Context, couponID, userID int64, now time.Time) (*Redemption, error)
}
