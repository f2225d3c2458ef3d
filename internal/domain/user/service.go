package user

import "context"

// Service defines the interface for account business logic
type Service interface {
	// Register creates an unverified account and triggers OTP delivery
	Register(ctx context.Context, email, username, password string, role Role) (*User, error)

	// Authenticate checks credentials and returns the account
	Authenticate(ctx context.Context, email, password string) (*User, error)

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*User, error)
}
