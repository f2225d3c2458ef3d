package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nabin-thapa/gighub/internal/api/dto"
	"github.com/nabin-thapa/gighub/internal/api/middleware"
	"github.com/nabin-thapa/gighub/internal/domain/coupon"
	"github.com/nabin-thapa/gighub/internal/pkg/errors"
	"github.com/nabin-thapa/gighub/internal/pkg/logger"
	"github.com/nabin-thapa/gighub/internal/pkg/utils"
	"github.com/nabin-thapa/gighub/internal/pkg/validator"
)

// CouponHandler handles course coupon requests
type CouponHandler struct {
	couponService coupon.Service
	logger        *logger.Logger
	validator     *validator.Validator
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(
	couponService coupon.Service,
	log *logger.Logger,
	val *validator.Validator,
) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
		logger:        log,
		validator:     val,
	}
}

// Create handles coupon creation
// @Summary Create coupon
// @Description Create a course coupon (admin only); a code is generated when omitted
// @Tags Coupons
// @Accept json
// @Produce json
// @Param request body dto.CouponRequest true "Coupon details"
// @Success 201 {object} coupon.Coupon
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Router /admin/coupons [post]
func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	c := &coupon.Coupon{
		Code:        req.Code,
		CourseID:    req.CourseID,
		DiscountPct: req.DiscountPct,
		MaxUses:     req.MaxUses,
		ExpiresAt:   req.ExpiresAt,
	}

	if err := h.couponService.Create(r.Context(), c); err != nil {
		utils.WriteAppError(w, err, "Failed to create coupon")
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, c)
}

// List handles listing coupons
// @Summary List coupons
// @Description List all coupons (admin only)
// @Tags Coupons
// @Produce json
// @Success 200 {array} coupon.Coupon
// @Router /admin/coupons [get]
func (h *CouponHandler) List(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.couponService.List(r.Context())
	if err != nil {
		utils.WriteAppError(w, err, "Failed to list coupons")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, coupons)
}

// Delete handles coupon deletion
// @Summary Delete coupon
// @Tags Coupons
// @Param id path int true "Coupon ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse "Coupon not found"
// @Router /admin/coupons/{id} [delete]
func (h *CouponHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		utils.WriteAppError(w, err, "Invalid coupon ID")
		return
	}

	if err := h.couponService.Delete(r.Context(), id); err != nil {
		utils.WriteAppError(w, err, "Failed to delete coupon")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Coupon deleted", nil)
}

// Redeem handles a coupon redemption
// @Summary Redeem coupon
// @Description Redeem a course coupon; requires a currently entitling subscription
// @Tags Coupons
// @Accept json
// @Produce json
// @Param request body dto.RedeemRequest true "Coupon code"
// @Success 200 {object} coupon.Redemption
// @Failure 403 {object} utils.ErrorResponse "An active subscription is required"
// @Failure 409 {object} utils.ErrorResponse "Coupon expired or exhausted"
// @Router /coupons/redeem [post]
func (h *CouponHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Missing authentication token"))
		return
	}

	var req dto.RedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	red, err := h.couponService.Redeem(r.Context(), req.Code, userID)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to redeem coupon")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, red)
}
