package category

import "context"

// Repository defines the interface for category data access
type Repository interface {
	// Create creates a new category
	Create(ctx context.Context, c *Category) error

	// GetByID retrieves a category by ID
	GetByID(ctx context.Context, id int64) (*Category, error)

	// List retrieves all categories ordered by name
	List(ctx context.Context) ([]*Category, error)

	// Update updates a category
	Update(ctx context.Context, c *Category) error

	// Delete deletes a category and its tags
	Delete(ctx context.Context, id int64) error

	// AddTag tags a freelancer with a category; idempotent
	AddTag(ctx context.Context, freelancerID, categoryID int64) error

	// RemoveTag removes a tag; NotFound when absent
	RemoveTag(ctx context.Context, freelancerID, categoryID int64) error

	// ListByFreelancer retrieves the categories a freelancer is tagged with
	ListByFreelancer(ctx context.Context, freelancerID int64) ([]*Category, error)

	// ListFreelancers retrieves freelancers tagged with a category
	ListFreelancers(ctx context.Context, categoryID int64) ([]*FreelancerSummary, error)
}
