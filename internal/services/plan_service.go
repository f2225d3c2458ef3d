package services

import (
	"context"

	"github.com/nabin-thapa/gighub/internal/clock"
	"github.com/nabin-thapa/gighub/internal/domain/plan"
	"github.com/nabin-thapa/gighub/internal/pkg/errors"
	"github.com/nabin-thapa/gighub/internal/pkg/logger"
)

// PlanService implements plan.Service
type PlanService struct {
	repo   plan.Repository
	clock  clock.Clock
	logger *logger.Logger
}

// NewPlanService creates a new plan catalog service
func NewPlanService(repo plan.Repository, clk clock.Clock, log *logger.Logger) plan.Service {
	return &PlanService{repo: repo, clock: clk, logger: log}
}

// GetByID retrieves a plan by ID
func (s *PlanService) GetByID(ctx context.Context, id int64) (*plan.Plan, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves all plans, optionally annotated with subscriber counts
func (s *PlanService) List(ctx context.Context, includeCounts bool) ([]*plan.WithCount, error) {
	if includeCounts {
		return s.repo.ListWithCounts(ctx)
	}
	plans, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*plan.WithCount, len(plans))
	for i, p := range plans {
		out[i] = &plan.WithCount{Plan: *p}
	}
	return out, nil
}

// Create creates a new plan
func (s *PlanService) Create(ctx context.Context, p *plan.Plan) error {
	if err := validatePlan(p); err != nil {
		return err
	}

	now := s.clock.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create plan")
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"plan_id": p.ID,
		"name":    p.Name,
	}).Info("Plan created")
	return nil
}

// Update edits a plan. Subscription windows already computed from the
// old duration are never recomputed.
func (s *PlanService) Update(ctx context.Context, p *plan.Plan) error {
	if err := validatePlan(p); err != nil {
		return err
	}

	p.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"plan_id": p.ID,
	}).Info("Plan updated")
	return nil
}

// Delete deletes a plan
func (s *PlanService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.WithFields(map[string]interface{}{
		"plan_id": id,
	}).Info("Plan deleted")
	return nil
}

func validatePlan(p *plan.Plan) error {
	if p.Name == "" {
		return errors.BadRequest("Plan name is required")
	}
	if p.DurationDays <= 0 {
		return errors.BadRequest("Plan duration must be positive")
	}
	if p.PlanType != plan.TypeMonthly && p.PlanType != plan.TypeYearly {
		return errors.BadRequest("Unknown plan type")
	}
	return nil
}
