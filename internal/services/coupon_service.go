package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/nabin-thapa/gighub/internal/clock"
	"github.com/nabin-thapa/gighub/internal/domain/coupon"
	"github.com/nabin-thapa/gighub/internal/domain/subscription"
	"github.com/nabin-thapa/gighub/internal/pkg/errors"
	"github.com/nabin-thapa/gighub/internal/pkg/logger"
)

// CouponService implements coupon.Service
type CouponService struct {
	repo    coupon.Repository
	subsSvc subscription.Service
	clock   clock.Clock
	logger  *logger.Logger
}

// NewCouponService creates a new coupon service
func NewCouponService(
	repo coupon.Repository,
	subsSvc subscription.Service,
	clk clock.Clock,
	log *logger.Logger,
) coupon.Service {
	return &CouponService{
		repo:    repo,
		subsSvc: subsSvc,
		clock:   clk,
		logger:  log,
	}
}

// Create creates a new coupon, generating a code when none is given
func (s *CouponService) Create(ctx context.Context, c *coupon.Coupon) error {
	if c.DiscountPct <= 0 || c.DiscountPct > 100 {
		return errors.BadRequest("Discount must be between 1 and 100 percent")
	}
	if c.Code == "" {
		c.Code = generateCouponCode()
	}

	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create coupon")
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"coupon_id": c.ID,
		"code":      c.Code,
	}).Info("Coupon created")
	return nil
}

// GetByCode retrieves a coupon
func (s *CouponService) GetByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	return s.repo.GetByCode(ctx, code)
}

// List retrieves all coupons
func (s *CouponService) List(ctx context.Context) ([]*coupon.Coupon, error) {
	return s.repo.List(ctx)
}

// Delete deletes a coupon
func (s *CouponService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Redeem redeems a coupon for a user. Course coupons are gated behind a
// current subscription.
func (s *CouponService) Redeem(ctx context.Context, code string, userID int64) (*coupon.Redemption, error) {
	entitled, err := s.subsSvc.HasActiveSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !entitled {
		return nil, errors.Forbidden("An active subscription is required to redeem coupons")
	}

	c, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if c.ExpiresAt != nil && c.ExpiresAt.Before(now) {
		return nil, errors.New(errors.ErrCodeCouponExpired, "Coupon has expired", http.StatusConflict)
	}
	if !c.Redeemable(now) {
		return nil, errors.New(errors.ErrCodeCouponExhausted, "Coupon has no remaining uses", http.StatusConflict)
	}

	red, err := s.repo.Redeem(ctx, c.ID, userID, now)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"coupon_id": c.ID,
		"user_id":   userID,
	}).Info("Coupon redeemed")
	return red, nil
}

// generateCouponCode derives a short uppercase code from a UUID
func generateCouponCode() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(raw[:12])
}
