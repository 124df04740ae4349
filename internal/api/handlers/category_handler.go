package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/krishnapranayangara/linksdisplay/internal/domain/category"
	"github.com/krishnapranayangara/linksdisplay/internal/pkg/response"
	"github.com/krishnapranayangara/linksdisplay/internal/service"
)

type CategoryHandler struct {
	categoryService service.CategoryService
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// GetCategories godoc
// @Summary List categories with link counts
// @Tags categories
// @Produce json
// @Success 200 {array} category.Category
// @Router /api/categories [get]
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.categoryService.GetAll()
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, categories, "")
}

// GetCategory godoc
// @Summary Get one category
// @Tags categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} category.Category
// @Failure 404 {object} response.Envelope
// @Router /api/categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	cat, err := h.categoryService.GetByID(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, cat, "")
}

// CreateCategory godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Param request body category.CreateCategoryRequest true "Category details"
// @Success 201 {object} category.Category
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /api/categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req category.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Category name is required")
		return
	}

	created, err := h.categoryService.Create(&req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, created, "Category created successfully")
}

// UpdateCategory godoc
// @Summary Update a category
// @Tags categories
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param request body category.UpdateCategoryRequest true "Fields to change"
// @Success 200 {object} category.Category
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /api/categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req category.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.categoryService.Update(id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, updated, "Category updated successfully")
}

// DeleteCategory godoc
// @Summary Delete a category
// @Description Links in the category become uncategorized
// @Tags categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /api/categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.categoryService.Delete(id); err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, nil, "Category deleted, its links are now uncategorized")
}

// GetCategoryStats godoc
// @Summary Category statistics
// @Tags categories
// @Produce json
// @Success 200 {object} category.Stats
// @Router /api/categories/stats [get]
func (h *CategoryHandler) GetCategoryStats(c *gin.Context) {
	stats, err := h.categoryService.Stats()
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats, "")
}
