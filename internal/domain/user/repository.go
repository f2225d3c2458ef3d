package user

import "context"

// Repository defines the interface for user data access
type Repository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Update updates a user
	Update(ctx context.Context, user *User) error

	// MarkVerified flips is_verified for a user
	MarkVerified(ctx context.Context, id int64) error

	// ListByRole retrieves users with the given role, newest first
	ListByRole(ctx context.Context, role Role, limit, offset int) ([]*User, int64, error)
}
