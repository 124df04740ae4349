package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/krishnapranayangara/linksdisplay/internal/domain/link"
	"github.com/krishnapranayangara/linksdisplay/internal/pkg/response"
	"github.com/krishnapranayangara/linksdisplay/internal/service"
)

type LinkHandler struct {
	linkService service.LinkService
}

func NewLinkHandler(linkService service.LinkService) *LinkHandler {
	return &LinkHandler{
		linkService: linkService,
	}
}

// GetLinks godoc
// @Summary List links
// @Description All links, pinned first then newest first, optionally scoped to a category
// @Tags links
// @Produce json
// @Param category_id query int false "Category filter"
// @Success 200 {array} link.Link
// @Router /api/links [get]
func (h *LinkHandler) GetLinks(c *gin.Context) {
	var categoryID *int64
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid category_id parameter")
			return
		}
		categoryID = &id
	}

	links, err := h.linkService.GetAll(categoryID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, links, "")
}

// GetLink godoc
// @Summary Get one link
// @Tags links
// @Produce json
// @Param id path int true "Link ID"
// @Success 200 {object} link.Link
// @Failure 404 {object} response.Envelope
// @Router /api/links/{id} [get]
func (h *LinkHandler) GetLink(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	l, err := h.linkService.GetByID(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, l, "")
}

// CreateLink godoc
// @Summary Create a link
// @Tags links
// @Accept json
// @Produce json
// @Param request body link.CreateLinkRequest true "Link details"
// @Success 201 {object} link.Link
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /api/links [post]
func (h *LinkHandler) CreateLink(c *gin.Context) {
	var req link.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Title and URL are required")
		return
	}

	created, err := h.linkService.Create(&req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, created, "Link created successfully")
}

// UpdateLink godoc
// @Summary Update a link
// @Description Partial update, only provided fields change
// @Tags links
// @Accept json
// @Produce json
// @Param id path int true "Link ID"
// @Param request body link.UpdateLinkRequest true "Fields to change"
// @Success 200 {object} link.Link
// @Failure 404 {object} response.Envelope
// @Router /api/links/{id} [put]
func (h *LinkHandler) UpdateLink(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req link.UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.linkService.Update(id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, updated, "Link updated successfully")
}

// DeleteLink godoc
// @Summary Delete a link
// @Tags links
// @Produce json
// @Param id path int true "Link ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /api/links/{id} [delete]
func (h *LinkHandler) DeleteLink(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.linkService.Delete(id); err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, nil, "Link deleted successfully")
}

// TogglePin godoc
// @Summary Toggle the pinned flag on a link
// @Tags links
// @Produce json
// @Param id path int true "Link ID"
// @Success 200 {object} link.Link
// @Failure 404 {object} response.Envelope
// @Router /api/links/{id}/pin [patch]
func (h *LinkHandler) TogglePin(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	l, err := h.linkService.TogglePin(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	message := "Link unpinned"
	if l.Pinned {
		message = "Link pinned"
	}
	response.Success(c, http.StatusOK, l, message)
}

// SearchLinks godoc
// @Summary Search links by title
// @Tags links
// @Produce json
// @Param q query string true "Search term (minimum 2 characters)"
// @Success 200 {array} link.Link
// @Failure 400 {object} response.Envelope
// @Router /api/links/search [get]
func (h *LinkHandler) SearchLinks(c *gin.Context) {
	links, err := h.linkService.Search(c.Query("q"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, links, "")
}

// GetPinnedLinks godoc
// @Summary List pinned links
// @Tags links
// @Produce json
// @Success 200 {array} link.Link
// @Router /api/links/pinned [get]
func (h *LinkHandler) GetPinnedLinks(c *gin.Context) {
	links, err := h.linkService.GetPinned()
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, links, "")
}

// GetLinkStats godoc
// @Summary Link collection statistics
// @Tags links
// @Produce json
// @Success 200 {object} link.Stats
// @Router /api/links/stats [get]
func (h *LinkHandler) GetLinkStats(c *gin.Context) {
	stats, err := h.linkService.Stats()
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats, "")
}
