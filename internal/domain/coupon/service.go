package coupon

import "context"

// Service defines the interface for coupon business logic
type Service interface {
	// Create creates a new coupon (admin); code is generated when empty
	Create(ctx context.Context, c *Coupon) error

	// GetByCode retrieves a coupon
	GetByCode(ctx context.Context, code string) (*Coupon, error)

	// List retrieves all coupons (admin)
	List(ctx context.Context) ([]*Coupon, error)

	// Delete deletes a coupon (admin)
	Delete(ctx context.Context, id int64) error

	// Redeem redeems a coupon for a user, enforcing expiry and usage
	// limits. Requires an entitling subscription.
	Redeem(ctx context.Context, code string, userID int64) (*Redemption, error)
}
