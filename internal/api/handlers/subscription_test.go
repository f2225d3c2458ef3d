package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/nabin-thapa/gighub/internal/api/middleware"
	"github.com/nabin-thapa/gighub/internal/domain/subscription"
	"github.com/nabin-thapa/gighub/internal/pkg/validator"
	"github.com/nabin-thapa/gighub/internal/services"
	"github.com/nabin-thapa/gighub/internal/testutil"
)

func newSubscriptionHandler(t *testing.T) (*SubscriptionHandler, subscription.Service) {
	t.Helper()
	mockRepo := testutil.NewMockSubscriptionRepository()
	mockPlans := testutil.NewMockPlanRepository()
	log := testutil.NewTestLogger()
	testutil.SeedPlan(mockPlans, "Starter Monthly", 9.99, 30, "monthly")

	clk := testutil.NewFixedClock()
	service := services.NewSubscriptionService(
		mockRepo,
		services.NewPlanService(mockPlans, clk, log),
		clk,
		log,
	)
	return NewSubscriptionHandler(service, log, validator.New()), service
}

func authedRequest(method, target string, body []byte, userID int64) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))
}

func TestSubscriptionHandler_Subscribe(t *testing.T) {
	handler, _ := newSubscriptionHandler(t)

	tests := []struct {
		name           string
		userID         int64
		body           string
		expectedStatus int
	}{
		{
			name:           "subscribe succeeds",
			userID:         1,
			body:           `{"plan_id":1}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "second subscribe rejected",
			userID:         1,
			body:           `{"plan_id":1}`,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "unknown plan",
			userID:         2,
			body:           `{"plan_id":99}`,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "missing plan_id",
			userID:         3,
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed body",
			userID:         4,
			body:           `{`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := authedRequest(http.MethodPost, "/api/v1/subscriptions", []byte(tt.body), tt.userID)
			rr := httptest.NewRecorder()

			handler.Subscribe(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
		})
	}
}

func TestSubscriptionHandler_SubscribeConflictPayload(t *testing.T) {
	handler, _ := newSubscriptionHandler(t)

	req := authedRequest(http.MethodPost, "/api/v1/subscriptions", []byte(`{"plan_id":1}`), 1)
	rr := httptest.NewRecorder()
	handler.Subscribe(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("first subscribe status = %d", rr.Code)
	}

	req = authedRequest(http.MethodPost, "/api/v1/subscriptions", []byte(`{"plan_id":1}`), 1)
	rr = httptest.NewRecorder()
	handler.Subscribe(rr, req)
	if rr.Code != http.StatusConflict {
		t.Fatalf("second subscribe status = %d, want %d", rr.Code, http.StatusConflict)
	}

	var resp struct {
		Error struct {
			Code    string                 `json:"code"`
			Details map[string]interface{} `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error.Code != "ALREADY_SUBSCRIBED" {
		t.Errorf("error code = %s, want ALREADY_SUBSCRIBED", resp.Error.Code)
	}
	if _, ok := resp.Error.Details["expires_at"]; !ok {
		t.Error("conflict details missing expires_at")
	}
}

func TestSubscriptionHandler_Cancel(t *testing.T) {
	handler, service := newSubscriptionHandler(t)

	if _, err := service.Subscribe(context.Background(), 1, 1); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	req := authedRequest(http.MethodPost, "/api/v1/subscriptions/cancel", nil, 1)
	rr := httptest.NewRecorder()
	handler.Cancel(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("cancel status = %d, want %d", rr.Code, http.StatusOK)
	}

	// Nothing left to cancel.
	req = authedRequest(http.MethodPost, "/api/v1/subscriptions/cancel", nil, 1)
	rr = httptest.NewRecorder()
	handler.Cancel(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("repeated cancel status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestSubscriptionHandler_Current(t *testing.T) {
	handler, service := newSubscriptionHandler(t)

	req := authedRequest(http.MethodGet, "/api/v1/subscriptions/current", nil, 1)
	rr := httptest.NewRecorder()
	handler.Current(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("current status = %d", rr.Code)
	}

	var resp struct {
		Data map[string]bool `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data["subscribed"] {
		t.Error("subscribed = true before any subscribe")
	}

	if _, err := service.Subscribe(context.Background(), 1, 1); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	rr = httptest.NewRecorder()
	handler.Current(rr, authedRequest(http.MethodGet, "/api/v1/subscriptions/current", nil, 1))
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Data["subscribed"] {
		t.Error("subscribed = false with an open window")
	}
}

func TestSubscriptionHandler_AdminUpdate(t *testing.T) {
	handler, service := newSubscriptionHandler(t)

	sub, err := service.Subscribe(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	tests := []struct {
		name           string
		id             string
		body           string
		expectedStatus int
	}{
		{
			name:           "override status",
			id:             strconv.FormatInt(sub.ID, 10),
			body:           `{"status":"expired"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown status rejected",
			id:             strconv.FormatInt(sub.ID, 10),
			body:           `{"status":"paused"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing subscription",
			id:             "999",
			body:           `{"status":"active"}`,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "bad id",
			id:             "abc",
			body:           `{"status":"active"}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := authedRequest(http.MethodPatch, "/api/v1/admin/subscriptions/"+tt.id, []byte(tt.body), 99)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			rr := httptest.NewRecorder()
			handler.AdminUpdate(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
		})
	}
}

func TestSubscriptionHandler_AdminDelete(t *testing.T) {
	handler, service := newSubscriptionHandler(t)

	sub, err := service.Subscribe(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	del := func(id string) *httptest.ResponseRecorder {
		req := authedRequest(http.MethodDelete, "/api/v1/admin/subscriptions/"+id, nil, 99)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		rr := httptest.NewRecorder()
		handler.AdminDelete(rr, req)
		return rr
	}

	idStr := strconv.FormatInt(sub.ID, 10)
	if rr := del(idStr); rr.Code != http.StatusOK {
		t.Errorf("delete status = %d, want %d", rr.Code, http.StatusOK)
	}
	if rr := del(idStr); rr.Code != http.StatusNotFound {
		t.Errorf("repeated delete status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestSubscriptionHandler_Sweep(t *testing.T) {
	handler, service := newSubscriptionHandler(t)

	if _, err := service.Subscribe(context.Background(), 1, 1); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	req := authedRequest(http.MethodPost, "/api/v1/admin/subscriptions/sweep", nil, 99)
	rr := httptest.NewRecorder()
	handler.Sweep(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("sweep status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp struct {
		Data struct {
			Swept int64 `json:"swept"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Swept != 0 {
		t.Errorf("swept = %d, want 0 while the window is still open", resp.Data.Swept)
	}
}
