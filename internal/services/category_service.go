package services

import (
	"context"

	"github.com/nabin-thapa/gighub/internal/domain/category"
	"github.com/nabin-thapa/gighub/internal/domain/subscription"
	"github.com/nabin-thapa/gighub/internal/domain/user"
	"github.com/nabin-thapa/gighub/internal/pkg/errors"
	"github.com/nabin-thapa/gighub/internal/pkg/logger"
)

// CategoryService implements category.Service
type CategoryService struct {
	repo     category.Repository
	userRepo user.Repository
	subsSvc  subscription.Service
	logger   *logger.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(repo category.Repository, userRepo user.Repository, subsSvc subscription.Service, log *logger.Logger) category.Service {
	return &CategoryService{
		repo:     repo,
		userRepo: userRepo,
		subsSvc:  subsSvc,
		logger:   log,
	}
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, c *category.Category) error {
	if c.Name == "" {
		return errors.BadRequest("Category name is required")
	}
	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create category")
		return err
	}
	s.logger.WithFields(map[string]interface{}{
		"category_id": c.ID,
		"name":        c.Name,
	}).Info("Category created")
	return nil
}

// GetByID retrieves a category
func (s *CategoryService) GetByID(ctx context.Context, id int64) (*category.Category, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves all categories
func (s *CategoryService) List(ctx context.Context) ([]*category.Category, error) {
	return s.repo.List(ctx)
}

// Update updates a category
func (s *CategoryService) Update(ctx context.Context, c *category.Category) error {
	if c.Name == "" {
		return errors.BadRequest("Category name is required")
	}
	return s.repo.Update(ctx, c)
}

// Delete deletes a category and its tags
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.WithFields(map[string]interface{}{
		"category_id": id,
	}).Info("Category deleted")
	return nil
}

// Tag tags a freelancer with a category. Only freelancer accounts can
// carry category tags, and tagging is gated behind a current
// subscription like coupon redemption is.
func (s *CategoryService) Tag(ctx context.Context, freelancerID, categoryID int64) error {
	u, err := s.userRepo.GetByID(ctx, freelancerID)
	if err != nil {
		return err
	}
	if u.Role != user.RoleFreelancer {
		return errors.Forbidden("Only freelancers can be tagged with categories")
	}

	entitled, err := s.subsSvc.HasActiveSubscription(ctx, freelancerID)
	if err != nil {
		return err
	}
	if !entitled {
		return errors.Forbidden("An active subscription is required to take category tags")
	}

	if _, err := s.repo.GetByID(ctx, categoryID); err != nil {
		return err
	}

	return s.repo.AddTag(ctx, freelancerID, categoryID)
}

// Untag removes a tag from a freelancer
func (s *CategoryService) Untag(ctx context.Context, freelancerID, categoryID int64) error {
	return s.repo.RemoveTag(ctx, freelancerID, categoryID)
}

// ListByFreelancer retrieves a freelancer's categories
func (s *CategoryService) ListByFreelancer(ctx context.Context, freelancerID int64) ([]*category.Category, error) {
	return s.repo.ListByFreelancer(ctx, freelancerID)
}

// ListFreelancers retrieves freelancers tagged with a category
func (s *CategoryService) ListFreelancers(ctx context.Context, categoryID int64) ([]*category.FreelancerSummary, error) {
	if _, err := s.repo.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.repo.ListFreelancers(ctx, categoryID)
}
