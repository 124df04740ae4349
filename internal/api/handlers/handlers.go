package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/krishnapranayangara/linksdisplay/internal/pkg/response"
	"github.com/krishnapranayangara/linksdisplay/internal/service"
)

// parseIDParam reads the :id path segment as a positive integer
func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "Invalid id parameter")
		return 0, false
	}
	return id, true
}

// dateLayouts are accepted for start_date and end_date query values
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseDateParam returns nil when the parameter is absent and fails
// the request when it is present but unparseable.
func parseDateParam(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, true
		}
	}

	response.Error(c, http.StatusBadRequest, "Invalid "+name+" format, expected ISO 8601")
	return nil, false
}

// handleServiceError maps service failures onto HTTP statuses
func handleServiceError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		response.Error(c, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, service.ErrNotFound):
		response.Error(c, http.StatusNotFound, "Resource not found")
	case errors.Is(err, service.ErrConflict):
		msg := strings.TrimSuffix(err.Error(), ": "+service.ErrConflict.Error())
		response.Error(c, http.StatusConflict, msg)
	default:
		response.Error(c, http.StatusInternalServerError, "Internal server error")
	}
}
