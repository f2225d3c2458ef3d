package dto

// PlanRequest represents a plan create/update request
type PlanRequest struct {
	Name         string   `json:"name" validate:"required,max=255"`
	Price        float64  `json:"price" validate:"gte=0"`
	DurationDays int      `json:"duration_days" validate:"required,gt=0"`
	Description  string   `json:"description,omitempty"`
	Features     []string `json:"features,omitempty"`
	PlanType     string   `json:"plan_type" validate:"required,oneof=monthly yearly"`
}
