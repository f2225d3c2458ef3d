package services

import (
	"context"
	"time"

	"github.com/nabin-thapa/gighub/internal/clock"
	"github.com/nabin-thapa/gighub/internal/domain/plan"
	"github.com/nabin-thapa/gighub/internal/domain/subscription"
	"github.com/nabin-thapa/gighub/internal/pkg/errors"
	"github.com/nabin-thapa/gighub/internal/pkg/logger"
	"github.com/nabin-thapa/gighub/internal/pkg/metrics"
)

// SubscriptionService implements subscription.Service, the lifecycle
// engine for freelancer plan subscriptions.
type SubscriptionService struct {
	repo    subscription.Repository
	planSvc plan.Service
	clock   clock.Clock
	logger  *logger.Logger
}

// NewSubscriptionService creates a new subscription lifecycle service
func NewSubscriptionService(
	repo subscription.Repository,
	planSvc plan.Service,
	clk clock.Clock,
	log *logger.Logger,
) subscription.Service {
	return &SubscriptionService{
		repo:    repo,
		planSvc: planSvc,
		clock:   clk,
		logger:  log,
	}
}

// Subscribe admits a freelancer onto a plan. Activation is immediate:
// the window opens at now and closes duration days later, and
// activated_at is stamped at admission. The overlap check and the insert
// run as one admission-control unit inside the store, so of two
// concurrent subscribes for the same freelancer exactly one wins.
func (s *SubscriptionService) Subscribe(ctx context.Context, freelancerID, planID int64) (*subscription.Subscription, error) {
	p, err := s.planSvc.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	endDate := now.Add(time.Duration(p.DurationDays) * 24 * time.Hour)
	activatedAt := now

	sub := &subscription.Subscription{
		FreelancerID: freelancerID,
		PlanID:       p.ID,
		Status:       subscription.StatusActive,
		StartDate:    now,
		EndDate:      &endDate,
		ActivatedAt:  &activatedAt,
	}

	if err := s.repo.CreateExclusive(ctx, sub, now); err != nil {
		if overlap, ok := err.(*subscription.OverlapError); ok {
			s.logger.WithFields(map[string]interface{}{
				"freelancer_id": freelancerID,
				"existing_id":   overlap.Existing.ID,
			}).Warn("Subscribe rejected: window still open")
			metrics.SubscribeRejected()
			return nil, errors.AlreadySubscribed(overlap.Existing.ExpiresAt())
		}
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"subscription_id": sub.ID,
		"freelancer_id":   freelancerID,
		"plan_id":         p.ID,
		"end_date":        endDate,
	}).Info("Subscription activated")
	metrics.SubscriptionActivated(p.PlanType)

	return sub, nil
}

// Cancel transitions the caller's active subscription to cancelled. A
// second call finds nothing active and fails the same way every time.
func (s *SubscriptionService) Cancel(ctx context.Context, freelancerID int64) (*subscription.Subscription, error) {
	current, err := s.repo.FindActiveByUser(ctx, freelancerID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, errors.NoActiveSubscription()
	}

	if !subscription.CanTransition(current.Status, subscription.StatusCancelled) {
		return nil, errors.NoActiveSubscription()
	}

	updated, err := s.repo.SetStatus(ctx, current.ID, subscription.StatusCancelled, s.clock.Now())
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"subscription_id": updated.ID,
		"freelancer_id":   freelancerID,
	}).Info("Subscription cancelled")
	metrics.SubscriptionCancelled()

	return updated, nil
}

// GetByID retrieves a subscription
func (s *SubscriptionService) GetByID(ctx context.Context, id int64) (*subscription.Subscription, error) {
	return s.repo.GetByID(ctx, id)
}

// AdminUpdate applies a partial override of status and/or end_date.
// Omitted fields keep prior values; no transition check is applied.
func (s *SubscriptionService) AdminUpdate(ctx context.Context, id int64, req subscription.AdminUpdateRequest) (*subscription.Subscription, error) {
	if req.Status != nil && !req.Status.IsValid() {
		return nil, errors.BadRequest("Unknown subscription status")
	}

	updated, err := s.repo.Update(ctx, id, subscription.UpdateFields{
		Status:  req.Status,
		EndDate: req.EndDate,
	}, s.clock.Now())
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"subscription_id": id,
	}).Info("Subscription overridden by admin")

	return updated, nil
}

// AdminDelete hard-deletes a subscription. Unlike self-service cancel
// this removes the row outright; the store abstracts the policy so a
// retention table could replace it without touching the engine.
func (s *SubscriptionService) AdminDelete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.logger.WithFields(map[string]interface{}{
		"subscription_id": id,
	}).Info("Subscription deleted by admin")
	return nil
}

// ListAll retrieves all subscriptions for reporting
func (s *SubscriptionService) ListAll(ctx context.Context) ([]*subscription.Record, error) {
	return s.repo.ListAll(ctx)
}

// ListByPlan retrieves subscriptions for one plan
func (s *SubscriptionService) ListByPlan(ctx context.Context, planID int64) ([]*subscription.Record, error) {
	return s.repo.ListByPlan(ctx, planID)
}

// HasActiveSubscription reports whether the user holds an entitling
// subscription. The end_date is re-checked against now on every call,
// so entitlement lapses the instant the window elapses even if the
// sweep has not run yet.
func (s *SubscriptionService) HasActiveSubscription(ctx context.Context, userID int64) (bool, error) {
	current, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	if current == nil {
		return false, nil
	}
	return current.Entitles(s.clock.Now()), nil
}

// SweepExpired flips elapsed active subscriptions to expired
func (s *SubscriptionService) SweepExpired(ctx context.Context) (int64, error) {
	swept, err := s.repo.SweepExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if swept > 0 {
		s.logger.WithFields(map[string]interface{}{
			"count": swept,
		}).Info("Expired subscriptions swept")
		metrics.SubscriptionsSwept(swept)
	}
	return swept, nil
}
