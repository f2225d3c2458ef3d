package client

import "time"

// User represents an account in the system
type User struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	IsVerified bool   `json:"is_verified"`
}

// Plan represents a subscription plan
type Plan struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Price        float64  `json:"price"`
	DurationDays int      `json:"duration_days"`
	Description  string   `json:"description,omitempty"`
	Features     []string `json:"features,omitempty"`
	PlanType     string   `json:"plan_type"`
	Subscribers  int64    `json:"subscribers,omitempty"`
}

// Subscription represents a plan subscription
type Subscription struct {
	ID           int64      `json:"id"`
	FreelancerID int64      `json:"freelancer_id"`
	PlanID       int64      `json:"plan_id"`
	Status       string     `json:"status"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	ActivatedAt  *time.Time `json:"activated_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// SubscriptionRecord is a subscription joined with user and plan details
type SubscriptionRecord struct {
	Subscription
	FreelancerEmail string  `json:"freelancer_email"`
	FreelancerName  string  `json:"freelancer_name"`
	PlanName        string  `json:"plan_name"`
	PlanPrice       float64 `json:"plan_price"`
}

// Category represents a freelancer category
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// FreelancerSummary is a tagged freelancer row
type FreelancerSummary struct {
	FreelancerID int64  `json:"freelancer_id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
}

// Coupon represents a course coupon
type Coupon struct {
	ID          int64      `json:"id"`
	Code        string     `json:"code"`
	CourseID    int64      `json:"course_id"`
	DiscountPct int        `json:"discount_pct"`
	MaxUses     int        `json:"max_uses"`
	UsedCount   int        `json:"used_count"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// Redemption records a coupon use
type Redemption struct {
	ID        int64     `json:"id"`
	CouponID  int64     `json:"coupon_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
