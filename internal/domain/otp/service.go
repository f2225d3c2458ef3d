package otp

import "context"

// Service defines the interface for email verification
type Service interface {
	// Send generates a fresh code for the user and emails it. Resending
	// invalidates previously issued codes.
	Send(ctx context.Context, userID int64, email string) error

	// Verify consumes a code and marks the account verified
	Verify(ctx context.Context, userID int64, code string) error
}
