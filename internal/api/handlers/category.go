package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nabin-thapa/gighub/internal/api/dto"
	"github.com/nabin-thapa/gighub/internal/api/middleware"
	"github.com/nabin-thapa/gighub/internal/domain/category"
	"github.com/nabin-thapa/gighub/internal/pkg/errors"
	"github.com/nabin-thapa/gighub/internal/pkg/logger"
	"github.com/nabin-thapa/gighub/internal/pkg/utils"
	"github.com/nabin-thapa/gighub/internal/pkg/validator"
)

// CategoryHandler handles category and tagging requests
type CategoryHandler struct {
	categoryService category.Service
	logger          *logger.Logger
	validator       *validator.Validator
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(
	categoryService category.Service,
	log *logger.Logger,
	val *validator.Validator,
) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          log,
		validator:       val,
	}
}

// List handles listing categories
// @Summary List categories
// @Tags Categories
// @Produce json
// @Success 200 {array} category.Category
// @Router /categories [get]
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		utils.WriteAppError(w, err, "Failed to list categories")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, categories)
}

// Create handles category creation
// @Summary Create category
// @Description Create a new category (admin only)
// @Tags Categories
// @Accept json
// @Produce json
// @Param request body dto.CategoryRequest true "Category details"
// @Success 201 {object} category.Category
// @Router /admin/categories [post]
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	c := &category.Category{Name: req.Name, Description: req.Description}
	if err := h.categoryService.Create(r.Context(), c); err != nil {
		utils.WriteAppError(w, err, "Failed to create category")
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, c)
}

// Update handles category edits
// @Summary Update category
// @Tags Categories
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param request body dto.CategoryRequest true "Category details"
// @Success 200 {object} category.Category
// @Failure 404 {object} utils.ErrorResponse "Category not found"
// @Router /admin/categories/{id} [put]
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		utils.WriteAppError(w, err, "Invalid category ID")
		return
	}

	var req dto.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	c := &category.Category{ID: id, Name: req.Name, Description: req.Description}
	if err := h.categoryService.Update(r.Context(), c); err != nil {
		utils.WriteAppError(w, err, "Failed to update category")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, c)
}

// Delete handles category deletion
// @Summary Delete category
// @Description Delete a category and its freelancer tags (admin only)
// @Tags Categories
// @Param id path int true "Category ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse "Category not found"
// @Router /admin/categories/{id} [delete]
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		utils.WriteAppError(w, err, "Invalid category ID")
		return
	}

	if err := h.categoryService.Delete(r.Context(), id); err != nil {
		utils.WriteAppError(w, err, "Failed to delete category")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Category deleted", nil)
}

// Tag handles a freelancer tagging themselves with a category
// @Summary Tag freelancer
// @Description Tag the authenticated freelancer with a category; repeated tags are no-ops
// @Tags Categories
// @Accept json
// @Param request body dto.TagRequest true "Category selection"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse "Only freelancers can be tagged"
// @Router /categories/tag [post]
func (h *CategoryHandler) Tag(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Missing authentication token"))
		return
	}

	var req dto.TagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	if err := h.categoryService.Tag(r.Context(), userID, req.CategoryID); err != nil {
		utils.WriteAppError(w, err, "Failed to tag freelancer")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Tagged", nil)
}

// Untag handles removing a tag
// @Summary Untag freelancer
// @Tags Categories
// @Param id path int true "Category ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse "Tag not found"
// @Router /categories/tag/{id} [delete]
func (h *CategoryHandler) Untag(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Missing authentication token"))
		return
	}

	categoryID, err := parseIDParam(r, "id")
	if err != nil {
		utils.WriteAppError(w, err, "Invalid category ID")
		return
	}

	if err := h.categoryService.Untag(r.Context(), userID, categoryID); err != nil {
		utils.WriteAppError(w, err, "Failed to remove tag")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Tag removed", nil)
}

// MyCategories handles listing the caller's categories
// @Summary My categories
// @Description List the authenticated freelancer's categories
// @Tags Categories
// @Produce json
// @Success 200 {array} category.Category
// @Router /categories/mine [get]
func (h *CategoryHandler) MyCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Missing authentication token"))
		return
	}

	categories, err := h.categoryService.ListByFreelancer(r.Context(), userID)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to list categories")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, categories)
}

// Freelancers handles listing freelancers in a category
// @Summary Freelancers by category
// @Tags Categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {array} category.FreelancerSummary
// @Failure 404 {object} utils.ErrorResponse "Category not found"
// @Router /categories/{id}/freelancers [get]
func (h *CategoryHandler) Freelancers(w http.ResponseWriter, r *http.Request) {
	categoryID, err := parseIDParam(r, "id")
	if err != nil {
		utils.WriteAppError(w, err, "Invalid category ID")
		return
	}

	freelancers, err := h.categoryService.ListFreelancers(r.Context(), categoryID)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to list freelancers")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, freelancers)
}
