package coupon

import "time"

// Coupon is a discount code for platform courses
type Coupon struct {
	ID          int64      `json:"id"`
	Code        string     `json:"code"`
	CourseID    int64      `json:"course_id"`
	DiscountPct int        `json:"discount_pct"`
	MaxUses     int        `json:"max_uses"`
	UsedCount   int        `json:"used_count"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Redeemable reports whether the coupon can still be redeemed at now
func (c *Coupon) Redeemable(now time.Time) bool {
	if c.MaxUses > 0 && c.UsedCount >= c.MaxUses {
		return false
	}
	if c.ExpiresAt != nil && c.ExpiresAt.Before(now) {
		return false
	}
	return true
}

// Redemption records a coupon use by a user
type Redemption struct {
	ID        int64     `json:"id"`
	CouponID  int64     `json:"coupon_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
