package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nabin-thapa/gighub/internal/clock"
	"github.com/nabin-thapa/gighub/internal/domain/subscription"
	"github.com/nabin-thapa/gighub/internal/pkg/errors"
	"github.com/nabin-thapa/gighub/internal/testutil"
)

func newSubscriptionFixture(t *testing.T) (subscription.Service, *testutil.MockSubscriptionRepository, *testutil.MockPlanRepository, *clock.Fixed) {
	t.Helper()
	mockRepo := testutil.NewMockSubscriptionRepository()
	mockPlans := testutil.NewMockPlanRepository()
	clk := testutil.NewFixedClock()
	log := testutil.NewTestLogger()
	service := NewSubscriptionService(mockRepo, NewPlanService(mockPlans, clk, log), clk, log)
	return service, mockRepo, mockPlans, clk
}

func TestSubscriptionService_Subscribe(t *testing.T) {
	service, mockRepo, mockPlans, clk := newSubscriptionFixture(t)
	monthly := testutil.SeedPlan(mockPlans, "Starter Monthly", 9.99, 30, "monthly")
	yearly := testutil.SeedPlan(mockPlans, "Pro Yearly", 99.99, 365, "yearly")

	tests := []struct {
		name         string
		freelancerID int64
		planID       int64
		wantErr      string
		wantDays     int
	}{
		{
			name:         "subscribe to monthly plan",
			freelancerID: 10,
			planID:       monthly.ID,
			wantDays:     30,
		},
		{
			name:         "subscribe to yearly plan",
			freelancerID: 11,
			planID:       yearly.ID,
			wantDays:     365,
		},
		{
			name:         "unknown plan",
			freelancerID: 12,
			planID:       999,
			wantErr:      errors.ErrCodePlanNotFound,
		},
		{
			name:         "second subscribe while window open",
			freelancerID: 10,
			planID:       yearly.ID,
			wantErr:      errors.ErrCodeAlreadySubscribed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, err := service.Subscribe(context.Background(), tt.freelancerID, tt.planID)

			if tt.wantErr != "" {
				if !errors.IsCode(err, tt.wantErr) {
					t.Fatalf("Subscribe() error = %v, want code %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Subscribe() error = %v", err)
			}
			if sub.ID == 0 {
				t.Error("Subscribe() returned zero id")
			}
			if sub.Status != subscription.StatusActive {
				t.Errorf("Subscribe() status = %s, want %s", sub.Status, subscription.StatusActive)
			}
			if !sub.StartDate.Equal(clk.Now()) {
				t.Errorf("Subscribe() start_date = %v, want %v", sub.StartDate, clk.Now())
			}
			if sub.EndDate == nil || sub.ActivatedAt == nil {
				t.Fatal("Subscribe() left end_date or activated_at unset")
			}
			got := sub.EndDate.Sub(sub.StartDate)
			want := time.Duration(tt.wantDays) * 24 * time.Hour
			if got != want {
				t.Errorf("Subscribe() window = %v, want %v", got, want)
			}
		})
	}

	if len(mockRepo.Subs) != 2 {
		t.Errorf("stored %d subscriptions, want 2", len(mockRepo.Subs))
	}
}

func TestSubscriptionService_SubscribeRejectionCarriesExpiration(t *testing.T) {
	service, mockRepo, mockPlans, clk := newSubscriptionFixture(t)
	monthly := testutil.SeedPlan(mockPlans, "Starter Monthly", 9.99, 30, "monthly")

	ctx := context.Background()
	first, err := service.Subscribe(ctx, 7, monthly.ID)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	wantExpiry := clk.Now().Add(30 * 24 * time.Hour)

	clk.Advance(24 * time.Hour)
	_, err = service.Subscribe(ctx, 7, monthly.ID)
	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.ErrCodeAlreadySubscribed {
		t.Fatalf("Subscribe() error = %v, want %s", err, errors.ErrCodeAlreadySubscribed)
	}
	details, ok := appErr.Details.(map[string]interface{})
	if !ok {
		t.Fatalf("Subscribe() rejection details = %T, want map", appErr.Details)
	}
	expiresAt, ok := details["expires_at"].(time.Time)
	if !ok || !expiresAt.Equal(wantExpiry) {
		t.Errorf("rejection expires_at = %v, want %v", details["expires_at"], wantExpiry)
	}
	if !expiresAt.Equal(*first.EndDate) {
		t.Errorf("rejection expires_at = %v, want existing end_date %v", expiresAt, *first.EndDate)
	}
	if len(mockRepo.Subs) != 1 {
		t.Errorf("stored %d subscriptions after rejection, want 1", len(mockRepo.Subs))
	}
}

func TestSubscriptionService_Cancel(t *testing.T) {
	service, _, mockPlans, _ := newSubscriptionFixture(t)
	monthly := testutil.SeedPlan(mockPlans, "Starter Monthly", 9.99, 30, "monthly")

	ctx := context.Background()
	sub, err := service.Subscribe(ctx, 20, monthly.ID)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	cancelled, err := service.Cancel(ctx, 20)
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if cancelled.ID != sub.ID {
		t.Errorf("Cancel() id = %d, want %d", cancelled.ID, sub.ID)
	}
	if cancelled.Status != subscription.StatusCancelled {
		t.Errorf("Cancel() status = %s, want %s", cancelled.Status, subscription.StatusCancelled)
	}

	// Repeated cancels fail identically; the first one consumed the
	// active subscription.
	for i := 0; i < 3; i++ {
		_, err = service.Cancel(ctx, 20)
		if !errors.IsCode(err, errors.ErrCodeNoActiveSubscription) {
			t.Fatalf("Cancel() #%d error = %v, want %s", i+2, err, errors.ErrCodeNoActiveSubscription)
		}
	}

	_, err = service.Cancel(ctx, 999)
	if !errors.IsCode(err, errors.ErrCodeNoActiveSubscription) {
		t.Errorf("Cancel() for unknown user error = %v, want %s", err, errors.ErrCodeNoActiveSubscription)
	}
}

func TestSubscriptionService_CancelReopensAdmission(t *testing.T) {
	service, _, mockPlans, clk := newSubscriptionFixture(t)
	monthly := testutil.SeedPlan(mockPlans, "Starter Monthly", 9.99, 30, "monthly")

	ctx := context.Background()
	if _, err := service.Subscribe(ctx, 30, monthly.ID); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	clk.Advance(2 * 24 * time.Hour)
	if _, err := service.Cancel(ctx, 30); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}

	clk.Advance(time.Second)
	sub, err := service.Subscribe(ctx, 30, monthly.ID)
	if err != nil {
		t.Fatalf("Subscribe() after cancel error = %v", err)
	}
	if !sub.StartDate.Equal(clk.Now()) {
		t.Errorf("new window start = %v, want %v", sub.StartDate, clk.Now())
	}
}

func TestSubscriptionService_ConcurrentSubscribeAdmitsOne(t *testing.T) {
	service, mockRepo, mockPlans, _ := newSubscriptionFixture(t)
	monthly := testutil.SeedPlan(mockPlans, "Starter Monthly", 9.99, 30, "monthly")

	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.Subscribe(context.Background(), 40, monthly.ID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, rejections int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.IsCode(err, errors.ErrCodeAlreadySubscribed):
			rejections++
		default:
			t.Errorf("Subscribe() unexpected error = %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("admitted %d subscribes, want exactly 1", wins)
	}
	if rejections != attempts-1 {
		t.Errorf("rejected %d subscribes, want %d", rejections, attempts-1)
	}
	if len(mockRepo.Subs) != 1 {
		t.Errorf("stored %d subscriptions, want 1", len(mockRepo.Subs))
	}
}

func TestSubscriptionService_HasActiveSubscription(t *testing.T) {
	service, _, mockPlans, clk := newSubscriptionFixture(t)
	monthly := testutil.SeedPlan(mockPlans, "Starter Monthly", 9.99, 30, "monthly")

	ctx := context.Background()

	entitled, err := service.HasActiveSubscription(ctx, 50)
	if err != nil {
		t.Fatalf("HasActiveSubscription() error = %v", err)
	}
	if entitled {
		t.Error("HasActiveSubscription() = true before any subscribe")
	}

	if _, err := service.Subscribe(ctx, 50, monthly.ID); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	entitled, _ = service.HasActiveSubscription(ctx, 50)
	if !entitled {
		t.Error("HasActiveSubscription() = false with an open window")
	}

	// Entitlement lapses the instant the window elapses, with no sweep
	// having run.
	clk.Advance(30*24*time.Hour + time.Second)
	entitled, _ = service.HasActiveSubscription(ctx, 50)
	if entitled {
		t.Error("HasActiveSubscription() = true after end_date passed")
	}
}

func TestSubscriptionService_SweepExpired(t *testing.T) {
	service, mockRepo, mockPlans, clk := newSubscriptionFixture(t)
	monthly := testutil.SeedPlan(mockPlans, "Starter Monthly", 9.99, 30, "monthly")
	yearly := testutil.SeedPlan(mockPlans, "Pro Yearly", 99.99, 365, "yearly")

	ctx := context.Background()
	short, err := service.Subscribe(ctx, 60, monthly.ID)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	long, err := service.Subscribe(ctx, 61, yearly.ID)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	swept, err := service.SweepExpired(ctx)
	if err != nil {
		t.Fatalf("SweepExpired() error = %v", err)
	}
	if swept != 0 {
		t.Errorf("SweepExpired() = %d before any expiry, want 0", swept)
	}

	clk.Advance(31 * 24 * time.Hour)
	swept, err = service.SweepExpired(ctx)
	if err != nil {
		t.Fatalf("SweepExpired() error = %v", err)
	}
	if swept != 1 {
		t.Errorf("SweepExpired() = %d, want 1", swept)
	}
	if got := mockRepo.Subs[short.ID].Status; got != subscription.StatusExpired {
		t.Errorf("short subscription status = %s, want %s", got, subscription.StatusExpired)
	}
	if got := mockRepo.Subs[long.ID].Status; got != subscription.StatusActive {
		t.Errorf("long subscription status = %s, want %s", got, subscription.StatusActive)
	}

	// A second sweep finds nothing new.
	swept, _ = service.SweepExpired(ctx)
	if swept != 0 {
		t.Errorf("repeated SweepExpired() = %d, want 0", swept)
	}
}

func TestSubscriptionService_AdminUpdate(t *testing.T) {
	service, _, mockPlans, clk := newSubscriptionFixture(t)
	monthly := testutil.SeedPlan(mockPlans, "Starter Monthly", 9.99, 30, "monthly")

	ctx := context.Background()
	sub, err := service.Subscribe(ctx, 70, monthly.ID)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	t.Run("extend end_date only", func(t *testing.T) {
		newEnd := clk.Now().Add(90 * 24 * time.Hour)
		updated, err := service.AdminUpdate(ctx, sub.ID, subscription.AdminUpdateRequest{EndDate: &newEnd})
		if err != nil {
			t.Fatalf("AdminUpdate() error = %v", err)
		}
		if updated.Status != subscription.StatusActive {
			t.Errorf("AdminUpdate() status = %s, want untouched %s", updated.Status, subscription.StatusActive)
		}
		if updated.EndDate == nil || !updated.EndDate.Equal(newEnd) {
			t.Errorf("AdminUpdate() end_date = %v, want %v", updated.EndDate, newEnd)
		}
	})

	t.Run("override status without transition check", func(t *testing.T) {
		expired := subscription.StatusExpired
		updated, err := service.AdminUpdate(ctx, sub.ID, subscription.AdminUpdateRequest{Status: &expired})
		if err != nil {
			t.Fatalf("AdminUpdate() error = %v", err)
		}
		if updated.Status != subscription.StatusExpired {
			t.Errorf("AdminUpdate() status = %s, want %s", updated.Status, subscription.StatusExpired)
		}

		// Admin can move it straight back to active, which the
		// self-service transitions never allow.
		active := subscription.StatusActive
		updated, err = service.AdminUpdate(ctx, sub.ID, subscription.AdminUpdateRequest{Status: &active})
		if err != nil {
			t.Fatalf("AdminUpdate() error = %v", err)
		}
		if updated.Status != subscription.StatusActive {
			t.Errorf("AdminUpdate() status = %s, want %s", updated.Status, subscription.StatusActive)
		}
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		bogus := subscription.Status("paused")
		_, err := service.AdminUpdate(ctx, sub.ID, subscription.AdminUpdateRequest{Status: &bogus})
		if !errors.IsCode(err, errors.ErrCodeBadRequest) {
			t.Errorf("AdminUpdate() error = %v, want %s", err, errors.ErrCodeBadRequest)
		}
	})

	t.Run("missing subscription", func(t *testing.T) {
		_, err := service.AdminUpdate(ctx, 999, subscription.AdminUpdateRequest{})
		if !errors.IsCode(err, errors.ErrCodeNotFound) {
			t.Errorf("AdminUpdate() error = %v, want %s", err, errors.ErrCodeNotFound)
		}
	})
}

func TestSubscriptionService_AdminDelete(t *testing.T) {
	service, _, mockPlans, _ := newSubscriptionFixture(t)
	monthly := testutil.SeedPlan(mockPlans, "Starter Monthly", 9.99, 30, "monthly")

	ctx := context.Background()
	sub, err := service.Subscribe(ctx, 80, monthly.ID)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if err := service.AdminDelete(ctx, sub.ID); err != nil {
		t.Fatalf("AdminDelete() error = %v", err)
	}
	if _, err := service.GetByID(ctx, sub.ID); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("GetByID() after delete error = %v, want %s", err, errors.ErrCodeNotFound)
	}
	if err := service.AdminDelete(ctx, sub.ID); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("repeated AdminDelete() error = %v, want %s", err, errors.ErrCodeNotFound)
	}

	// Deletion clears the admission block entirely.
	if _, err := service.Subscribe(ctx, 80, monthly.ID); err != nil {
		t.Errorf("Subscribe() after delete error = %v", err)
	}
}

func TestSubscriptionService_Lifecycle(t *testing.T) {
	service, _, mockPlans, clk := newSubscriptionFixture(t)
	monthly := testutil.SeedPlan(mockPlans, "Starter Monthly", 9.99, 30, "monthly")

	ctx := context.Background()
	t0 := clk.Now()

	// Day 0: freelancer subscribes.
	first, err := service.Subscribe(ctx, 90, monthly.ID)
	if err != nil {
		t.Fatalf("Subscribe() at t0 error = %v", err)
	}

	// Day 1: a second subscribe is rejected with the open window's
	// expiration.
	clk.Advance(24 * time.Hour)
	_, err = service.Subscribe(ctx, 90, monthly.ID)
	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.ErrCodeAlreadySubscribed {
		t.Fatalf("Subscribe() at t0+1d error = %v, want %s", err, errors.ErrCodeAlreadySubscribed)
	}
	details := appErr.Details.(map[string]interface{})
	if got := details["expires_at"].(time.Time); !got.Equal(t0.Add(30 * 24 * time.Hour)) {
		t.Errorf("rejection expires_at = %v, want %v", got, t0.Add(30*24*time.Hour))
	}

	// Day 2: cancel, then a fresh subscribe is admitted.
	clk.Advance(24 * time.Hour)
	if _, err := service.Cancel(ctx, 90); err != nil {
		t.Fatalf("Cancel() at t0+2d error = %v", err)
	}
	clk.Advance(time.Second)
	second, err := service.Subscribe(ctx, 90, monthly.ID)
	if err != nil {
		t.Fatalf("Subscribe() after cancel error = %v", err)
	}
	if second.ID == first.ID {
		t.Error("new subscription reused the cancelled row")
	}
	if !second.StartDate.Equal(t0.Add(2*24*time.Hour + time.Second)) {
		t.Errorf("new window start = %v, want %v", second.StartDate, t0.Add(2*24*time.Hour+time.Second))
	}
}
