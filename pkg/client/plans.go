package client

import (
	"context"
	"fmt"
)

// PlanService handles plan catalog operations
type PlanService struct {
	client *Client
}

// List retrieves all plans; set includeCounts for subscriber counts
func (s *PlanService) List(ctx context.Context, includeCounts bool) ([]Plan, error) {
	path := "/api/v1/plans"
	if includeCounts {
		path += "?include_counts=true"
	}

	var plans []Plan
	if err := s.client.doRequest(ctx, "GET", path, nil, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// Get retrieves a single plan
func (s *PlanService) Get(ctx context.Context, id int64) (*Plan, error) {
	var p Plan
	if err := s.client.doRequest(ctx, "GET", fmt.Sprintf("/api/v1/plans/%d", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create creates a new plan (admin only)
func (s *PlanService) Create(ctx context.Context, p *Plan) (*Plan, error) {
	var created Plan
	if err := s.client.doRequest(ctx, "POST", "/api/v1/admin/plans", p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update updates a plan (admin only)
func (s *PlanService) Update(ctx context.Context, id int64, p *Plan) (*Plan, error) {
	var updated Plan
	if err := s.client.doRequest(ctx, "PUT", fmt.Sprintf("/api/v1/admin/plans/%d", id), p, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete deletes a plan (admin only)
func (s *PlanService) Delete(ctx context.Context, id int64) error {
	return s.client.doRequest(ctx, "DELETE", fmt.Sprintf("/api/v1/admin/plans/%d", id), nil, nil)
}
