package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/nabin-thapa/gighub/internal/api/dto"
	"github.com/nabin-thapa/gighub/internal/api/middleware"
	"github.com/nabin-thapa/gighub/internal/domain/subscription"
	"github.com/nabin-thapa/gighub/internal/pkg/errors"
	"github.com/nabin-thapa/gighub/internal/pkg/logger"
	"github.com/nabin-thapa/gighub/internal/pkg/utils"
	"github.com/nabin-thapa/gighub/internal/pkg/validator"
)

// SubscriptionHandler handles subscription lifecycle requests
type SubscriptionHandler struct {
	subsService subscription.Service
	logger      *logger.Logger
	validator   *validator.Validator
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(
	subsService subscription.Service,
	log *logger.Logger,
	val *validator.Validator,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		subsService: subsService,
		logger:      log,
		validator:   val,
	}
}

// Subscribe handles a freelancer subscribing to a plan
// @Summary Subscribe to a plan
// @Description Start a subscription for the authenticated freelancer; rejected while an earlier window is still open
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body dto.SubscribeRequest true "Plan selection"
// @Success 201 {object} subscription.Subscription
// @Failure 404 {object} utils.ErrorResponse "Plan not found"
// @Failure 409 {object} utils.ErrorResponse "An active subscription already exists"
// @Router /subscriptions [post]
func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Missing authentication token"))
		return
	}

	var req dto.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	sub, err := h.subsService.Subscribe(r.Context(), userID, req.PlanID)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to subscribe")
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, sub)
}

// Cancel handles a freelancer cancelling their subscription
// @Summary Cancel subscription
// @Description Cancel the authenticated freelancer's active subscription
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} subscription.Subscription
// @Failure 400 {object} utils.ErrorResponse "No active subscription"
// @Router /subscriptions/cancel [post]
func (h *SubscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Missing authentication token"))
		return
	}

	sub, err := h.subsService.Cancel(r.Context(), userID)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to cancel subscription")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, sub)
}

// Current handles fetching the caller's subscription state
// @Summary Current subscription
// @Description Report whether the authenticated user currently holds an entitling subscription
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /subscriptions/current [get]
func (h *SubscriptionHandler) Current(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Missing authentication token"))
		return
	}

	entitled, err := h.subsService.HasActiveSubscription(r.Context(), userID)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to check subscription")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, map[string]bool{"subscribed": entitled})
}

// List handles the admin subscription report
// @Summary List subscriptions
// @Description List all subscriptions joined with user and plan details (admin only); filter with plan_id
// @Tags Subscriptions
// @Produce json
// @Param plan_id query int false "Filter by plan"
// @Success 200 {array} subscription.Record
// @Router /admin/subscriptions [get]
func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		records []*subscription.Record
		err     error
	)

	if raw := r.URL.Query().Get("plan_id"); raw != "" {
		planID, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil || planID <= 0 {
			utils.WriteError(w, errors.BadRequest("Invalid plan_id parameter"))
			return
		}
		records, err = h.subsService.ListByPlan(r.Context(), planID)
	} else {
		records, err = h.subsService.ListAll(r.Context())
	}
	if err != nil {
		utils.WriteAppError(w, err, "Failed to list subscriptions")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, records)
}

// AdminUpdate handles an admin override of a subscription
// @Summary Override subscription
// @Description Partially update a subscription's status and/or end date (admin only)
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param id path int true "Subscription ID"
// @Param request body dto.AdminSubscriptionUpdateRequest true "Fields to override"
// @Success 200 {object} subscription.Subscription
// @Failure 404 {object} utils.ErrorResponse "Subscription not found"
// @Router /admin/subscriptions/{id} [patch]
func (h *SubscriptionHandler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		utils.WriteAppError(w, err, "Invalid subscription ID")
		return
	}

	var req dto.AdminSubscriptionUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	update := subscription.AdminUpdateRequest{EndDate: req.EndDate}
	if req.Status != nil {
		status := subscription.Status(*req.Status)
		update.Status = &status
	}

	sub, err := h.subsService.AdminUpdate(r.Context(), id, update)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to update subscription")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, sub)
}

// Sweep handles an admin-triggered expiry sweep
// @Summary Sweep expired subscriptions
// @Description Flip elapsed active subscriptions to expired (admin only)
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} map[string]int64
// @Router /admin/subscriptions/sweep [post]
func (h *SubscriptionHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	swept, err := h.subsService.SweepExpired(r.Context())
	if err != nil {
		utils.WriteAppError(w, err, "Failed to sweep subscriptions")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, map[string]int64{"swept": swept})
}

// AdminDelete handles an admin hard-deleting a subscription
// @Summary Delete subscription
// @Description Remove a subscription outright (admin only)
// @Tags Subscriptions
// @Param id path int true "Subscription ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse "Subscription not found"
// @Router /admin/subscriptions/{id} [delete]
func (h *SubscriptionHandler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		utils.WriteAppError(w, err, "Invalid subscription ID")
		return
	}

	if err := h.subsService.AdminDelete(r.Context(), id); err != nil {
		utils.WriteAppError(w, err, "Failed to delete subscription")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Subscription deleted", nil)
}
