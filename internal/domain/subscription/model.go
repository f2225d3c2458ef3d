package subscription

import (
	"fmt"
	"time"
)

// Status captures the lifecycle state of a subscription
type Status string

const (
	StatusPendingStart Status = "pending_start"
	StatusActive       Status = "active"
	StatusCancelled    Status = "cancelled"
	StatusExpired      Status = "expired"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusPendingStart, StatusActive, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// validTransitions defines the allowed lifecycle edges. There is no way
// out of cancelled or expired; admin override bypasses this table.
var validTransitions = map[[2]Status]bool{
	{StatusPendingStart, StatusActive}:    true,
	{StatusPendingStart, StatusCancelled}: true,
	{StatusActive, StatusCancelled}:       true,
	{StatusActive, StatusExpired}:         true,
}

// CanTransition reports whether moving from one status to another is a
// legal lifecycle edge.
func CanTransition(from, to Status) bool {
	return validTransitions[[2]Status{from, to}]
}

// Subscription represents a freelancer's plan subscription
type Subscription struct {
	ID           int64      `json:"id"`
	FreelancerID int64      `json:"freelancer_id"`
	PlanID       int64      `json:"plan_id"`
	Status       Status     `json:"status"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	ActivatedAt  *time.Time `json:"activated_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ExpiresAt returns the window's expiration for display: end_date when
// present, otherwise start_date.
func (s *Subscription) ExpiresAt() time.Time {
	if s.EndDate != nil {
		return *s.EndDate
	}
	return s.StartDate
}

// Overlaps reports whether the subscription still blocks a new subscribe
// at the given instant. A row with a null end_date but a future start
// still counts.
func (s *Subscription) Overlaps(now time.Time) bool {
	if s.Status != StatusActive && s.Status != StatusPendingStart {
		return false
	}
	if s.EndDate != nil && s.EndDate.After(now) {
		return true
	}
	return s.StartDate.After(now)
}

// Entitles reports whether the subscription grants feature access at the
// given instant: status exactly active and end_date not yet passed. This
// is stricter than Overlaps and is re-checked on every read so a stale
// active row stops entitling the moment its window elapses.
func (s *Subscription) Entitles(now time.Time) bool {
	if s.Status != StatusActive {
		return false
	}
	if s.StartDate.IsZero() || s.EndDate == nil {
		return false
	}
	return !s.EndDate.Before(now)
}

// Record is a subscription joined with its owner and plan for reporting
type Record struct {
	Subscription
	FreelancerEmail string  `json:"freelancer_email"`
	FreelancerName  string  `json:"freelancer_name"`
	PlanName        string  `json:"plan_name"`
	PlanPrice       float64 `json:"plan_price"`
}

// OverlapError is returned by the store when admission control finds an
// existing subscription whose window has not elapsed.
type OverlapError struct {
	Existing *Subscription
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("subscription %d still overlaps until %s",
		e.Existing.ID, e.Existing.ExpiresAt().Format(time.RFC3339))
}
