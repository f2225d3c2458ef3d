package client

import (
	"context"
	"fmt"
	"time"
)

// SubscriptionService handles subscription lifecycle operations
type SubscriptionService struct {
	client *Client
}

// AdminUpdateRequest is a partial subscription override (admin only)
type AdminUpdateRequest struct {
	Status  *string    `json:"status,omitempty"`
	EndDate *time.Time `json:"end_date,omitempty"`
}

// Subscribe starts a subscription for the authenticated freelancer
func (s *SubscriptionService) Subscribe(ctx context.Context, planID int64) (*Subscription, error) {
	req := map[string]int64{"plan_id": planID}

	var sub Subscription
	if err := s.client.doRequest(ctx, "POST", "/api/v1/subscriptions", req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Cancel cancels the authenticated freelancer's active subscription
func (s *SubscriptionService) Cancel(ctx context.Context) (*Subscription, error) {
	var sub Subscription
	if err := s.client.doRequest(ctx, "POST", "/api/v1/subscriptions/cancel", nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Current reports whether the authenticated user holds an entitling
// subscription
func (s *SubscriptionService) Current(ctx context.Context) (bool, error) {
	var resp struct {
		Subscribed bool `json:"subscribed"`
	}
	if err := s.client.doRequest(ctx, "GET", "/api/v1/subscriptions/current", nil, &resp); err != nil {
		return false, err
	}
	return resp.Subscribed, nil
}

// List retrieves all subscriptions (admin only); planID of 0 lists every
// plan
func (s *SubscriptionService) List(ctx context.Context, planID int64) ([]SubscriptionRecord, error) {
	path := "/api/v1/admin/subscriptions"
	if planID > 0 {
		path = fmt.Sprintf("%s?plan_id=%d", path, planID)
	}

	var records []SubscriptionRecord
	if err := s.client.doRequest(ctx, "GET", path, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// AdminUpdate overrides a subscription's status and/or end date (admin
// only)
func (s *SubscriptionService) AdminUpdate(ctx context.Context, id int64, req AdminUpdateRequest) (*Subscription, error) {
	var sub Subscription
	if err := s.client.doRequest(ctx, "PATCH", fmt.Sprintf("/api/v1/admin/subscriptions/%d", id), req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Sweep flips elapsed active subscriptions to expired and returns the
// number of rows affected (admin only)
func (s *SubscriptionService) Sweep(ctx context.Context) (int64, error) {
	var resp struct {
		Swept int64 `json:"swept"`
	}
	if err := s.client.doRequest(ctx, "POST", "/api/v1/admin/subscriptions/sweep", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Swept, nil
}

// AdminDelete removes a subscription outright (admin only)
func (s *SubscriptionService) AdminDelete(ctx context.Context, id int64) error {
	return s.client.doRequest(ctx, "DELETE", fmt.Sprintf("/api/v1/admin/subscriptions/%d", id), nil, nil)
}
