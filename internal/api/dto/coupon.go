package dto

import "time"

// CouponRequest represents a coupon creation request. Code is optional;
// one is generated when omitted.
type CouponRequest struct {
	Code        string     `json:"code,omitempty" validate:"omitempty,min=4,max=32"`
	CourseID    int64      `json:"course_id" validate:"required,gt=0"`
	DiscountPct int        `json:"discount_pct" validate:"required,gt=0,lte=100"`
	MaxUses     int        `json:"max_uses" validate:"gte=0"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// RedeemRequest represents a coupon redemption request
type RedeemRequest struct {
	Code string `json:"code" validate:"required"`
}
