package otp

import (
	"context"
	"time"
)

// Repository defines the interface for OTP data access
type Repository interface {
	// Create stores a new code, invalidating any prior unused codes for
	// the same user
	Create(ctx context.Context, c *Code) error

	// FindUsable returns the user's current unused, unexpired code
	// matching codeValue, or nil when none matches
	FindUsable(ctx context.Context, userID int64, codeValue string, now time.Time) (*Code, error)

	// MarkUsed consumes a code
	MarkUsed(ctx context.Context, id int64) error

	// DeleteExpired removes codes past their expiry
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
