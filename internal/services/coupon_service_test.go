package services

import (
	"context"
	"testing"
	"time"

	"github.com/nabin-thapa/gighub/internal/clock"
	"github.com/nabin-thapa/gighub/internal/domain/coupon"
	"github.com/nabin-thapa/gighub/internal/pkg/errors"
	"github.com/nabin-thapa/gighub/internal/testutil"
)

func newCouponFixture(t *testing.T) (coupon.Service, *testutil.MockCouponRepository, *testutil.MockSubscriptionRepository, *clock.Fixed) {
	t.Helper()
	mockCoupons := testutil.NewMockCouponRepository()
	mockSubs := testutil.NewMockSubscriptionRepository()
	mockPlans := testutil.NewMockPlanRepository()
	clk := testutil.NewFixedClock()
	log := testutil.NewTestLogger()
	subsSvc := NewSubscriptionService(mockSubs, NewPlanService(mockPlans, clk, log), clk, log)
	service := NewCouponService(mockCoupons, subsSvc, clk, log)

	testutil.SeedPlan(mockPlans, "Starter Monthly", 9.99, 30, "monthly")
	return service, mockCoupons, mockSubs, clk
}

func subscribeUser(t *testing.T, mockSubs *testutil.MockSubscriptionRepository, mockPlanID, userID int64, clk *clock.Fixed) {
	t.Helper()
	log := testutil.NewTestLogger()
	mockPlans := testutil.NewMockPlanRepository()
	testutil.SeedPlan(mockPlans, "Starter Monthly", 9.99, 30, "monthly")
	subsSvc := NewSubscriptionService(mockSubs, NewPlanService(mockPlans, clk, log), clk, log)
	if _, err := subsSvc.Subscribe(context.Background(), userID, mockPlanID); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
}

func TestCouponService_Create(t *testing.T) {
	service, _, _, _ := newCouponFixture(t)

	tests := []struct {
		name    string
		coupon  *coupon.Coupon
		wantErr bool
	}{
		{
			name:    "create with explicit code",
			coupon:  &coupon.Coupon{Code: "LAUNCH20", CourseID: 1, DiscountPct: 20, MaxUses: 100},
			wantErr: false,
		},
		{
			name:    "create with generated code",
			coupon:  &coupon.Coupon{CourseID: 1, DiscountPct: 50},
			wantErr: false,
		},
		{
			name:    "zero discount rejected",
			coupon:  &coupon.Coupon{Code: "FREE", CourseID: 1, DiscountPct: 0},
			wantErr: true,
		},
		{
			name:    "discount above 100 rejected",
			coupon:  &coupon.Coupon{Code: "TOOMUCH", CourseID: 1, DiscountPct: 120},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.Create(context.Background(), tt.coupon)

			if (err != nil) != tt.wantErr {
				t.Errorf("Create() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && tt.coupon.Code == "" {
				t.Error("Create() left code empty")
			}
		})
	}
}

func TestCouponService_Redeem(t *testing.T) {
	service, _, mockSubs, clk := newCouponFixture(t)
	ctx := context.Background()

	c := &coupon.Coupon{Code: "LAUNCH20", CourseID: 1, DiscountPct: 20, MaxUses: 2}
	if err := service.Create(ctx, c); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("unsubscribed user rejected", func(t *testing.T) {
		_, err := service.Redeem(ctx, "LAUNCH20", 5)
		if !errors.IsCode(err, errors.ErrCodeForbidden) {
			t.Errorf("Redeem() error = %v, want %s", err, errors.ErrCodeForbidden)
		}
	})

	subscribeUser(t, mockSubs, 1, 5, clk)
	subscribeUser(t, mockSubs, 1, 6, clk)
	subscribeUser(t, mockSubs, 1, 7, clk)

	t.Run("subscribed user redeems", func(t *testing.T) {
		red, err := service.Redeem(ctx, "LAUNCH20", 5)
		if err != nil {
			t.Fatalf("Redeem() error = %v", err)
		}
		if red.CouponID != c.ID || red.UserID != 5 {
			t.Errorf("Redeem() = %+v, want coupon %d user 5", red, c.ID)
		}
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := service.Redeem(ctx, "NOPE", 5)
		if !errors.IsCode(err, errors.ErrCodeNotFound) {
			t.Errorf("Redeem() error = %v, want %s", err, errors.ErrCodeNotFound)
		}
	})

	t.Run("exhausted after max uses", func(t *testing.T) {
		if _, err := service.Redeem(ctx, "LAUNCH20", 6); err != nil {
			t.Fatalf("Redeem() error = %v", err)
		}
		_, err := service.Redeem(ctx, "LAUNCH20", 7)
		if !errors.IsCode(err, errors.ErrCodeCouponExhausted) {
			t.Errorf("Redeem() error = %v, want %s", err, errors.ErrCodeCouponExhausted)
		}
	})
}

func TestCouponService_RedeemExpired(t *testing.T) {
	service, _, mockSubs, clk := newCouponFixture(t)
	ctx := context.Background()

	expiry := clk.Now().Add(time.Hour)
	c := &coupon.Coupon{Code: "SHORTLIVED", CourseID: 1, DiscountPct: 10, ExpiresAt: &expiry}
	if err := service.Create(ctx, c); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	subscribeUser(t, mockSubs, 1, 5, clk)

	if _, err := service.Redeem(ctx, "SHORTLIVED", 5); err != nil {
		t.Fatalf("Redeem() before expiry error = %v", err)
	}

	clk.Advance(2 * time.Hour)
	_, err := service.Redeem(ctx, "SHORTLIVED", 5)
	if !errors.IsCode(err, errors.ErrCodeCouponExpired) {
		t.Errorf("Redeem() after expiry error = %v, want %s", err, errors.ErrCodeCouponExpired)
	}
}

func TestCouponService_UnlimitedUses(t *testing.T) {
	service, _, mockSubs, clk := newCouponFixture(t)
	ctx := context.Background()

	// MaxUses of zero means no redemption cap.
	c := &coupon.Coupon{Code: "EVERGREEN", CourseID: 1, DiscountPct: 5, MaxUses: 0}
	if err := service.Create(ctx, c); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	subscribeUser(t, mockSubs, 1, 5, clk)

	for i := 0; i < 10; i++ {
		if _, err := service.Redeem(ctx, "EVERGREEN", 5); err != nil {
			t.Fatalf("Redeem() #%d error = %v", i+1, err)
		}
	}
}
