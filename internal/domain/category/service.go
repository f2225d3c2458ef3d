package category

import "context"

// Service defines the interface for category business logic
type Service interface {
	// Create creates a new category (admin)
	Create(ctx context.Context, c *Category) error

	// GetByID retrieves a category
	GetByID(ctx context.Context, id int64) (*Category, error)

	// List retrieves all categories
	List(ctx context.Context) ([]*Category, error)

	// Update updates a category (admin)
	Update(ctx context.Context, c *Category) error

	// Delete deletes a category (admin)
	Delete(ctx context.Context, id int64) error

	// Tag tags the calling freelancer with a category
	Tag(ctx context.Context, freelancerID, categoryID int64) error

	// Untag removes a tag from the calling freelancer
	Untag(ctx context.Context, freelancerID, categoryID int64) error

	// ListByFreelancer retrieves a freelancer's categories
	ListByFreelancer(ctx context.Context, freelancerID int64) ([]*Category, error)

	// ListFreelancers retrieves freelancers tagged with a category
	ListFreelancers(ctx context.Context, categoryID int64) ([]*FreelancerSummary, error)
}
