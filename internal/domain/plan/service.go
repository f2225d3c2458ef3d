package plan

import "context"

// Service defines the interface for plan catalog logic
type Service interface {
	// GetByID retrieves a plan, failing with PlanNotFound when absent
	GetByID(ctx context.Context, id int64) (*Plan, error)

	// List retrieves all plans, optionally annotated with subscriber counts
	List(ctx context.Context, includeCounts bool) ([]*WithCount, error)

	// Create creates a new plan (admin)
	Create(ctx context.Context, p *Plan) error

	// Update updates a plan (admin). Already-computed subscription windows
	// are never touched.
	Update(ctx context.Context, p *Plan) error

	// Delete deletes a plan (admin)
	Delete(ctx context.Context, id int64) error
}
