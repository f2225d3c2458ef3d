package otp

import "time"

// CodeTTL is how long a verification code stays valid
const CodeTTL = 10 * time.Minute

// Code is a one-time email verification code
type Code struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Code      string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

// Usable reports whether the code can still be consumed at now
func (c *Code) Usable(now time.Time) bool {
	return !c.Used && c.ExpiresAt.After(now)
}
