package client

import (
	"context"
	"fmt"
)

// CouponService handles course coupon operations
type CouponService struct {
	client *Client
}

// Redeem redeems a coupon code for the authenticated user
func (s *CouponService) Redeem(ctx context.Context, code string) (*Redemption, error) {
	req := map[string]string{"code": code}

	var red Redemption
	if err := s.client.doRequest(ctx, "POST", "/api/v1/coupons/redeem", req, &red); err != nil {
		return nil, err
	}
	return &red, nil
}

// List retrieves all coupons (admin only)
func (s *CouponService) List(ctx context.Context) ([]Coupon, error) {
	var coupons []Coupon
	if err := s.client.doRequest(ctx, "GET", "/api/v1/admin/coupons", nil, &coupons); err != nil {
		return nil, err
	}
	return coupons, nil
}

// Create creates a coupon (admin only)
func (s *CouponService) Create(ctx context.Context, c *Coupon) (*Coupon, error) {
	var created Coupon
	if err := s.client.doRequest(ctx, "POST", "/api/v1/admin/coupons", c, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Delete deletes a coupon (admin only)
func (s *CouponService) Delete(ctx context.Context, id int64) error {
	return s.client.doRequest(ctx, "DELETE", fmt.Sprintf("/api/v1/admin/coupons/%d", id), nil, nil)
}
