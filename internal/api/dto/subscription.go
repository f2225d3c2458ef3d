package dto

import "time"

// SubscribeRequest represents a subscribe request
type SubscribeRequest struct {
	PlanID int64 `json:"plan_id" validate:"required,gt=0"`
}

// AdminSubscriptionUpdateRequest represents an admin override of a
// subscription; omitted fields are left untouched
type AdminSubscriptionUpdateRequest struct {
	Status  *string    `json:"status,omitempty" validate:"omitempty,oneof=pending_start active cancelled expired"`
	EndDate *time.Time `json:"end_date,omitempty"`
}
