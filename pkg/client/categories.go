package client

import (
	"context"
	"fmt"
)

// CategoryService handles category operations
type CategoryService struct {
	client *Client
}

// List retrieves all categories
func (s *CategoryService) List(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := s.client.doRequest(ctx, "GET", "/api/v1/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Mine retrieves the authenticated freelancer's categories
func (s *CategoryService) Mine(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := s.client.doRequest(ctx, "GET", "/api/v1/categories/mine", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Freelancers retrieves the freelancers tagged with a category
func (s *CategoryService) Freelancers(ctx context.Context, categoryID int64) ([]FreelancerSummary, error) {
	var freelancers []FreelancerSummary
	if err := s.client.doRequest(ctx, "GET", fmt.Sprintf("/api/v1/categories/%d/freelancers", categoryID), nil, &freelancers); err != nil {
		return nil, err
	}
	return freelancers, nil
}

// Tag tags the authenticated freelancer with a category
func (s *CategoryService) Tag(ctx context.Context, categoryID int64) error {
	req := map[string]int64{"category_id": categoryID}
	return s.client.doRequest(ctx, "POST", "/api/v1/categories/tag", req, nil)
}

// Untag removes a tag from the authenticated freelancer
func (s *CategoryService) Untag(ctx context.Context, categoryID int64) error {
	return s.client.doRequest(ctx, "DELETE", fmt.Sprintf("/api/v1/categories/tag/%d", categoryID), nil, nil)
}

// Create creates a category (admin only)
func (s *CategoryService) Create(ctx context.Context, c *Category) (*Category, error) {
	var created Category
	if err := s.client.doRequest(ctx, "POST", "/api/v1/admin/categories", c, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Delete deletes a category (admin only)
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	return s.client.doRequest(ctx, "DELETE", fmt.Sprintf("/api/v1/admin/categories/%d", id), nil, nil)
}
