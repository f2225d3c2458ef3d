package services

import (
	"context"
	"testing"

	"github.com/nabin-thapa/gighub/internal/domain/category"
	"github.com/nabin-thapa/gighub/internal/domain/user"
	"github.com/nabin-thapa/gighub/internal/pkg/errors"
	"github.com/nabin-thapa/gighub/internal/testutil"
)

// newCategoryFixture seeds freelancer 1 (subscribed), client 2, and
// freelancer 3 with no subscription.
func newCategoryFixture(t *testing.T) (category.Service, *testutil.MockCategoryRepository, *testutil.MockUserRepository) {
	t.Helper()
	mockCategories := testutil.NewMockCategoryRepository()
	mockUsers := testutil.NewMockUserRepository()
	mockSubs := testutil.NewMockSubscriptionRepository()
	mockPlans := testutil.NewMockPlanRepository()
	clk := testutil.NewFixedClock()
	log := testutil.NewTestLogger()

	subsSvc := NewSubscriptionService(mockSubs, NewPlanService(mockPlans, clk, log), clk, log)
	service := NewCategoryService(mockCategories, mockUsers, subsSvc, log)

	mockUsers.Users[1] = &user.User{ID: 1, Email: "dev@example.com", Role: user.RoleFreelancer}
	mockUsers.Users[2] = &user.User{ID: 2, Email: "client@example.com", Role: user.RoleClient}
	mockUsers.Users[3] = &user.User{ID: 3, Email: "newcomer@example.com", Role: user.RoleFreelancer}
	mockUsers.NextID = 4

	seeded := testutil.SeedPlan(mockPlans, "Starter Monthly", 9.99, 30, "monthly")
	if _, err := subsSvc.Subscribe(context.Background(), 1, seeded.ID); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	return service, mockCategories, mockUsers
}

func TestCategoryService_Create(t *testing.T) {
	service, _, _ := newCategoryFixture(t)

	c := &category.Category{Name: "Web Development", Description: "Frontend and backend work"}
	if err := service.Create(context.Background(), c); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if c.ID == 0 {
		t.Error("Create() left id unset")
	}

	err := service.Create(context.Background(), &category.Category{})
	if !errors.IsCode(err, errors.ErrCodeBadRequest) {
		t.Errorf("Create() without name error = %v, want %s", err, errors.ErrCodeBadRequest)
	}
}

func TestCategoryService_Tag(t *testing.T) {
	service, mockCategories, _ := newCategoryFixture(t)
	ctx := context.Background()

	c := &category.Category{Name: "Design"}
	if err := service.Create(ctx, c); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name         string
		freelancerID int64
		categoryID   int64
		wantErr      string
	}{
		{
			name:         "tag freelancer",
			freelancerID: 1,
			categoryID:   c.ID,
		},
		{
			name:         "tag is idempotent",
			freelancerID: 1,
			categoryID:   c.ID,
		},
		{
			name:         "client cannot be tagged",
			freelancerID: 2,
			categoryID:   c.ID,
			wantErr:      errors.ErrCodeForbidden,
		},
		{
			name:         "unknown user",
			freelancerID: 99,
			categoryID:   c.ID,
			wantErr:      errors.ErrCodeNotFound,
		},
		{
			name:         "unknown category",
			freelancerID: 1,
			categoryID:   99,
			wantErr:      errors.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.Tag(ctx, tt.freelancerID, tt.categoryID)

			if tt.wantErr != "" {
				if !errors.IsCode(err, tt.wantErr) {
					t.Errorf("Tag() error = %v, want code %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Errorf("Tag() error = %v", err)
			}
		})
	}

	if len(mockCategories.Tags) != 1 {
		t.Errorf("stored %d tags, want 1", len(mockCategories.Tags))
	}
}

func TestCategoryService_TagRequiresSubscription(t *testing.T) {
	service, mockCategories, _ := newCategoryFixture(t)
	ctx := context.Background()

	c := &category.Category{Name: "Photography"}
	if err := service.Create(ctx, c); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err := service.Tag(ctx, 3, c.ID)
	if !errors.IsCode(err, errors.ErrCodeForbidden) {
		t.Errorf("Tag() for unsubscribed freelancer error = %v, want %s", err, errors.ErrCodeForbidden)
	}
	if len(mockCategories.Tags) != 0 {
		t.Errorf("stored %d tags for an unsubscribed freelancer, want 0", len(mockCategories.Tags))
	}
}

func TestCategoryService_Untag(t *testing.T) {
	service, _, _ := newCategoryFixture(t)
	ctx := context.Background()

	c := &category.Category{Name: "Writing"}
	if err := service.Create(ctx, c); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := service.Tag(ctx, 1, c.ID); err != nil {
		t.Fatalf("Tag() error = %v", err)
	}

	if err := service.Untag(ctx, 1, c.ID); err != nil {
		t.Fatalf("Untag() error = %v", err)
	}
	if err := service.Untag(ctx, 1, c.ID); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("repeated Untag() error = %v, want %s", err, errors.ErrCodeNotFound)
	}
}

func TestCategoryService_Listings(t *testing.T) {
	service, _, _ := newCategoryFixture(t)
	ctx := context.Background()

	design := &category.Category{Name: "Design"}
	writing := &category.Category{Name: "Writing"}
	for _, c := range []*category.Category{design, writing} {
		if err := service.Create(ctx, c); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	if err := service.Tag(ctx, 1, design.ID); err != nil {
		t.Fatalf("Tag() error = %v", err)
	}
	if err := service.Tag(ctx, 1, writing.ID); err != nil {
		t.Fatalf("Tag() error = %v", err)
	}

	mine, err := service.ListByFreelancer(ctx, 1)
	if err != nil {
		t.Fatalf("ListByFreelancer() error = %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("ListByFreelancer() returned %d categories, want 2", len(mine))
	}

	tagged, err := service.ListFreelancers(ctx, design.ID)
	if err != nil {
		t.Fatalf("ListFreelancers() error = %v", err)
	}
	if len(tagged) != 1 || tagged[0].FreelancerID != 1 {
		t.Errorf("ListFreelancers() = %+v, want freelancer 1", tagged)
	}

	if _, err := service.ListFreelancers(ctx, 99); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("ListFreelancers() for unknown category error = %v, want %s", err, errors.ErrCodeNotFound)
	}
}

func TestCategoryService_DeleteRemovesTags(t *testing.T) {
	service, mockCategories, _ := newCategoryFixture(t)
	ctx := context.Background()

	c := &category.Category{Name: "Marketing"}
	if err := service.Create(ctx, c); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := service.Tag(ctx, 1, c.ID); err != nil {
		t.Fatalf("Tag() error = %v", err)
	}

	if err := service.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(mockCategories.Tags) != 0 {
		t.Errorf("Delete() left %d tags behind, want 0", len(mockCategories.Tags))
	}
}
