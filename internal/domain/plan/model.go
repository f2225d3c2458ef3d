package plan

import "time"

// Plan types
const (
	TypeMonthly = "monthly"
	TypeYearly  = "yearly"
)

// Plan represents a subscription plan. Duration is a count of days; the
// lifecycle engine computes subscription windows from it once, at
// activation, so later plan edits never move existing windows.
type Plan struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	DurationDays int      `json:"duration_days"`
	Description string    `json:"description"`
	Features    []string  `json:"features"`
	PlanType    string    `json:"plan_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WithCount is a plan annotated with its current subscriber count
type WithCount struct {
	Plan
	Subscribers int64 `json:"subscribers"`
}
