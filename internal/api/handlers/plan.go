package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nabin-thapa/gighub/internal/api/dto"
	"github.com/nabin-thapa/gighub/internal/domain/plan"
	"github.com/nabin-thapa/gighub/internal/pkg/errors"
	"github.com/nabin-thapa/gighub/internal/pkg/logger"
	"github.com/nabin-thapa/gighub/internal/pkg/utils"
	"github.com/nabin-thapa/gighub/internal/pkg/validator"
)

// PlanHandler handles plan catalog requests
type PlanHandler struct {
	planService plan.Service
	logger      *logger.Logger
	validator   *validator.Validator
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(planService plan.Service, log *logger.Logger, val *validator.Validator) *PlanHandler {
	return &PlanHandler{
		planService: planService,
		logger:      log,
		validator:   val,
	}
}

// List handles listing plans
// @Summary List plans
// @Description List all subscription plans; pass include_counts=true for subscriber counts
// @Tags Plans
// @Produce json
// @Param include_counts query bool false "Include subscriber counts"
// @Success 200 {array} plan.WithCount
// @Router /plans [get]
func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	includeCounts := r.URL.Query().Get("include_counts") == "true"

	plans, err := h.planService.List(r.Context(), includeCounts)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to list plans")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, plans)
}

// Get handles fetching one plan
// @Summary Get plan
// @Description Fetch a single plan by ID
// @Tags Plans
// @Produce json
// @Param id path int true "Plan ID"
// @Success 200 {object} plan.Plan
// @Failure 404 {object} utils.ErrorResponse "Plan not found"
// @Router /plans/{id} [get]
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		utils.WriteAppError(w, err, "Invalid plan ID")
		return
	}

	p, err := h.planService.GetByID(r.Context(), id)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to fetch plan")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, p)
}

// Create handles plan creation
// @Summary Create plan
// @Description Create a new subscription plan (admin only)
// @Tags Plans
// @Accept json
// @Produce json
// @Param request body dto.PlanRequest true "Plan details"
// @Success 201 {object} plan.Plan
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Router /admin/plans [post]
func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	p := &plan.Plan{
		Name:         req.Name,
		Price:        req.Price,
		DurationDays: req.DurationDays,
		Description:  req.Description,
		Features:     req.Features,
		PlanType:     req.PlanType,
	}

	if err := h.planService.Create(r.Context(), p); err != nil {
		utils.WriteAppError(w, err, "Failed to create plan")
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, p)
}

// Update handles plan edits
// @Summary Update plan
// @Description Update an existing plan; open subscription windows keep their original duration
// @Tags Plans
// @Accept json
// @Produce json
// @Param id path int true "Plan ID"
// @Param request body dto.PlanRequest true "Plan details"
// @Success 200 {object} plan.Plan
// @Failure 404 {object} utils.ErrorResponse "Plan not found"
// @Router /admin/plans/{id} [put]
func (h *PlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		utils.WriteAppError(w, err, "Invalid plan ID")
		return
	}

	var req dto.PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	p := &plan.Plan{
		ID:           id,
		Name:         req.Name,
		Price:        req.Price,
		DurationDays: req.DurationDays,
		Description:  req.Description,
		Features:     req.Features,
		PlanType:     req.PlanType,
	}

	if err := h.planService.Update(r.Context(), p); err != nil {
		utils.WriteAppError(w, err, "Failed to update plan")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, p)
}

// Delete handles plan deletion
// @Summary Delete plan
// @Description Delete a plan (admin only)
// @Tags Plans
// @Param id path int true "Plan ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse "Plan not found"
// @Router /admin/plans/{id} [delete]
func (h *PlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		utils.WriteAppError(w, err, "Invalid plan ID")
		return
	}

	if err := h.planService.Delete(r.Context(), id); err != nil {
		utils.WriteAppError(w, err, "Failed to delete plan")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Plan deleted", nil)
}
