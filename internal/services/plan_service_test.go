package services

import (
	"context"
	"testing"

	"github.com/nabin-thapa/gighub/internal/domain/plan"
	"github.com/nabin-thapa/gighub/internal/pkg/errors"
	"github.com/nabin-thapa/gighub/internal/testutil"
)

func TestPlanService_Create(t *testing.T) {
	mockRepo := testutil.NewMockPlanRepository()
	clk := testutil.NewFixedClock()
	service := NewPlanService(mockRepo, clk, testutil.NewTestLogger())

	tests := []struct {
		name    string
		plan    *plan.Plan
		wantErr bool
	}{
		{
			name: "create monthly plan",
			plan: &plan.Plan{
				Name:         "Starter Monthly",
				Price:        9.99,
				DurationDays: 30,
				PlanType:     plan.TypeMonthly,
				Features:     []string{"Unlimited proposals", "Profile badge"},
			},
			wantErr: false,
		},
		{
			name: "create yearly plan",
			plan: &plan.Plan{
				Name:         "Pro Yearly",
				Price:        99.99,
				DurationDays: 365,
				PlanType:     plan.TypeYearly,
			},
			wantErr: false,
		},
		{
			name: "missing name",
			plan: &plan.Plan{
				Price:        9.99,
				DurationDays: 30,
				PlanType:     plan.TypeMonthly,
			},
			wantErr: true,
		},
		{
			name: "zero duration",
			plan: &plan.Plan{
				Name:     "Broken",
				PlanType: plan.TypeMonthly,
			},
			wantErr: true,
		},
		{
			name: "unknown plan type",
			plan: &plan.Plan{
				Name:         "Weekly",
				DurationDays: 7,
				PlanType:     "weekly",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.Create(context.Background(), tt.plan)

			if (err != nil) != tt.wantErr {
				t.Errorf("Create() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && tt.plan.ID == 0 {
				t.Error("Create() left id unset")
			}
			if !tt.wantErr && !tt.plan.CreatedAt.Equal(clk.Now()) {
				t.Errorf("Create() stamped created_at %v, want clock time %v", tt.plan.CreatedAt, clk.Now())
			}
		})
	}
}

func TestPlanService_GetByID(t *testing.T) {
	mockRepo := testutil.NewMockPlanRepository()
	service := NewPlanService(mockRepo, testutil.NewFixedClock(), testutil.NewTestLogger())
	seeded := testutil.SeedPlan(mockRepo, "Starter Monthly", 9.99, 30, "monthly")

	got, err := service.GetByID(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != seeded.Name || got.DurationDays != 30 {
		t.Errorf("GetByID() = %+v, want seeded plan", got)
	}

	_, err = service.GetByID(context.Background(), 999)
	if !errors.IsCode(err, errors.ErrCodePlanNotFound) {
		t.Errorf("GetByID() error = %v, want %s", err, errors.ErrCodePlanNotFound)
	}
}

func TestPlanService_List(t *testing.T) {
	mockRepo := testutil.NewMockPlanRepository()
	service := NewPlanService(mockRepo, testutil.NewFixedClock(), testutil.NewTestLogger())
	testutil.SeedPlan(mockRepo, "Starter Monthly", 9.99, 30, "monthly")
	testutil.SeedPlan(mockRepo, "Pro Yearly", 99.99, 365, "yearly")

	plans, err := service.List(context.Background(), false)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(plans) != 2 {
		t.Fatalf("List() returned %d plans, want 2", len(plans))
	}

	withCounts, err := service.List(context.Background(), true)
	if err != nil {
		t.Fatalf("List(counts) error = %v", err)
	}
	if len(withCounts) != 2 {
		t.Errorf("List(counts) returned %d plans, want 2", len(withCounts))
	}
}

func TestPlanService_Update(t *testing.T) {
	mockRepo := testutil.NewMockPlanRepository()
	service := NewPlanService(mockRepo, testutil.NewFixedClock(), testutil.NewTestLogger())
	seeded := testutil.SeedPlan(mockRepo, "Starter Monthly", 9.99, 30, "monthly")

	seeded.Price = 12.99
	if err := service.Update(context.Background(), seeded); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, _ := service.GetByID(context.Background(), seeded.ID)
	if got.Price != 12.99 {
		t.Errorf("Update() price = %v, want 12.99", got.Price)
	}

	seeded.Name = ""
	if err := service.Update(context.Background(), seeded); !errors.IsCode(err, errors.ErrCodeBadRequest) {
		t.Errorf("Update() error = %v, want %s", err, errors.ErrCodeBadRequest)
	}
}

func TestPlanService_Delete(t *testing.T) {
	mockRepo := testutil.NewMockPlanRepository()
	service := NewPlanService(mockRepo, testutil.NewFixedClock(), testutil.NewTestLogger())
	seeded := testutil.SeedPlan(mockRepo, "Starter Monthly", 9.99, 30, "monthly")

	if err := service.Delete(context.Background(), seeded.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := service.Delete(context.Background(), seeded.ID); !errors.IsCode(err, errors.ErrCodePlanNotFound) {
		t.Errorf("repeated Delete() error = %v, want %s", err, errors.ErrCodePlanNotFound)
	}
}
