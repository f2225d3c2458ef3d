package plan

import "context"

// Repository defines the interface for plan data access
type Repository interface {
	// GetByID retrieves a plan by ID
	GetByID(ctx context.Context, id int64) (*Plan, error)

	// List retrieves all plans
	List(ctx context.Context) ([]*Plan, error)

	// ListWithCounts retrieves all plans with current subscriber counts
	ListWithCounts(ctx context.Context) ([]*WithCount, error)

	// Create creates a new plan
	Create(ctx context.Context, p *Plan) error

	// Update updates an existing plan
	Update(ctx context.Context, p *Plan) error

	// Delete deletes a plan
	Delete(ctx context.Context, id int64) error
}
