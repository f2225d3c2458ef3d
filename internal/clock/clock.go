package clock

import "time"

// Clock supplies the current time for subscription window comparisons.
// Injected so the lifecycle tests can pin time.
type Clock interface {
	Now() time.Time
}

// System is a Clock backed by time.Now
type System struct{}

// Now returns the current wall-clock time in UTC
func (System) Now() time.Time {
	return time.Now().UTC()
}

// Fixed is a Clock pinned to a settable instant
type Fixed struct {
	T time.Time
}

// Now returns the pinned instant
func (f *Fixed) Now() time.Time {
	return f.T
}

// Advance moves the pinned instant forward
func (f *Fixed) Advance(d time.Duration) {
	f.T = f.T.Add(d)
}
