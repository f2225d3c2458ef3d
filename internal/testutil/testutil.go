package testutil

import (
	"time"

	"github.com/nabin-thapa/gighub/internal/clock"
	"github.com/nabin-thapa/gighub/internal/domain/plan"
	"github.com/nabin-thapa/gighub/internal/pkg/logger"
)

// NewTestLogger returns a logger that discards nothing but stays quiet
// at the default test verbosity
func NewTestLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "console"})
}

// NewFixedClock returns a controllable clock pinned to a stable instant
func NewFixedClock() *clock.Fixed {
	return &clock.Fixed{T: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

// SeedPlan inserts a plan fixture and returns it
func SeedPlan(repo *MockPlanRepository, name string, price float64, durationDays int, planType string) *plan.Plan {
	p := &plan.Plan{
		Name:         name,
		Price:        price,
		DurationDays: durationDays,
		PlanType:     planType,
		Features:     []string{"Unlimited proposals"},
	}
	repo.Plans[repo.NextID] = p
	p.ID = repo.NextID
	repo.NextID++
	return p
}
