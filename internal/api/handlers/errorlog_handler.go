package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/krishnapranayangara/linksdisplay/internal/domain/errorlog"
	"github.com/krishnapranayangara/linksdisplay/internal/pkg/response"
	"github.com/krishnapranayangara/linksdisplay/internal/service"
)

type ErrorLogHandler struct {
	errorLogService service.ErrorLogService
}

func NewErrorLogHandler(errorLogService service.ErrorLogService) *ErrorLogHandler {
	return &ErrorLogHandler{
		errorLogService: errorLogService,
	}
}

// buildFilter assembles the shared query filter used by listing,
// export and statistics. Reports false if a parameter was invalid
// and the response has already been written.
func (h *ErrorLogHandler) buildFilter(c *gin.Context) (*errorlog.Filter, bool) {
	filter := &errorlog.Filter{
		Method:    c.Query("method"),
		Endpoint:  c.Query("endpoint"),
		ErrorType: c.Query("error_type"),
	}

	if raw := c.Query("status_code"); raw != "" {
		code, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid status_code parameter")
			return nil, false
		}
		filter.StatusCode = code
	}

	start, ok := parseDateParam(c, "start_date")
	if !ok {
		return nil, false
	}
	end, ok := parseDateParam(c, "end_date")
	if !ok {
		return nil, false
	}
	filter.StartDate = start
	filter.EndDate = end

	return filter, true
}

// ListErrors godoc
// @Summary List audit records
// @Description Paginated audit records, most recent first, with optional filters
// @Tags errors
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Page size (max 100)"
// @Param method query string false "HTTP method filter"
// @Param endpoint query string false "Endpoint substring filter"
// @Param status_code query int false "Status code filter"
// @Param error_type query string false "Error type filter"
// @Param start_date query string false "Lower bound (ISO 8601)"
// @Param end_date query string false "Upper bound (ISO 8601)"
// @Success 200 {object} errorlog.Page
// @Failure 400 {object} response.Envelope
// @Router /api/errors [get]
func (h *ErrorLogHandler) ListErrors(c *gin.Context) {
	filter, ok := h.buildFilter(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "0"))

	result, err := h.errorLogService.List(filter, page, perPage)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result, "")
}

// GetError godoc
// @Summary Get one audit record
// @Tags errors
// @Produce json
// @Param id path int true "Record ID"
// @Success 200 {object} errorlog.ErrorLog
// @Failure 404 {object} response.Envelope
// @Router /api/errors/{id} [get]
func (h *ErrorLogHandler) GetError(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	entry, err := h.errorLogService.GetByID(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if entry == nil {
		response.Error(c, http.StatusNotFound, fmt.Sprintf("Error log %d not found", id))
		return
	}

	response.Success(c, http.StatusOK, entry, "")
}

// GetStatistics godoc
// @Summary Audit log statistics
// @Description Aggregate counts and latency over an optional time range
// @Tags errors
// @Produce json
// @Param start_date query string false "Lower bound (ISO 8601)"
// @Param end_date query string false "Upper bound (ISO 8601)"
// @Success 200 {object} errorlog.Statistics
// @Router /api/errors/statistics [get]
func (h *ErrorLogHandler) GetStatistics(c *gin.Context) {
	start, ok := parseDateParam(c, "start_date")
	if !ok {
		return
	}
	end, ok := parseDateParam(c, "end_date")
	if !ok {
		return
	}

	stats, err := h.errorLogService.Statistics(start, end)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats, "")
}

// CleanupErrors godoc
// @Summary Delete old audit records
// @Description Removes records older than the given number of days (default 30)
// @Tags errors
// @Produce json
// @Param days query int false "Retention window in days (minimum 1)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /api/errors/cleanup [delete]
func (h *ErrorLogHandler) CleanupErrors(c *gin.Context) {
	days := service.DefaultRetentionDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid days parameter")
			return
		}
		days = parsed
	}

	deleted, err := h.errorLogService.CleanupOlderThan(days)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"deleted_count": deleted,
		"days_kept":     days,
	}, fmt.Sprintf("Deleted %d error logs older than %d days", deleted, days))
}

// ExportErrors godoc
// @Summary Export audit records
// @Description Streams matching records as JSON or CSV
// @Tags errors
// @Produce json
// @Produce text/csv
// @Param format query string false "json or csv (default json)"
// @Param limit query int false "Maximum records (cap 10000)"
// @Success 200 {array} errorlog.ErrorLog
// @Failure 400 {object} response.Envelope
// @Router /api/errors/export [get]
func (h *ErrorLogHandler) ExportErrors(c *gin.Context) {
	filter, ok := h.buildFilter(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "csv" {
		response.Error(c, http.StatusBadRequest, "Invalid format, expected json or csv")
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	entries, err := h.errorLogService.Export(filter, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	filename := "error_logs_" + time.Now().UTC().Format("20060102_150405")

	if format == "csv" {
		c.Header("Content-Disposition", `attachment; filename="`+filename+`.csv"`)
		c.Header("Content-Type", "text/csv")
		writeCSV(c, entries)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`.json"`)
	response.Success(c, http.StatusOK, gin.H{
		"count":  len(entries),
		"errors": entries,
	}, "")
}

var exportCSVHeader = []string{
	"id", "method", "endpoint", "status_code", "error_type", "error_message",
	"client_ip", "user_agent", "request_time", "response_time", "duration_ms",
	"request_data", "request_params",
}

func writeCSV(c *gin.Context, entries []*errorlog.ErrorLog) {
	w := csv.NewWriter(c.Writer)
	_ = w.Write(exportCSVHeader)

	for _, e := range entries {
		responseTime := ""
		if e.ResponseTime != nil {
			responseTime = e.ResponseTime.UTC().Format(time.RFC3339)
		}

		_ = w.Write([]string{
			strconv.FormatInt(e.ID, 10),
			e.Method,
			e.Endpoint,
			strconv.Itoa(e.StatusCode),
			e.ErrorType,
			e.ErrorMessage,
			e.ClientIP,
			e.UserAgent,
			e.RequestTime.UTC().Format(time.RFC3339),
			responseTime,
			strconv.FormatInt(e.DurationMs, 10),
			marshalCSVField(e.RequestData),
			marshalCSVField(e.RequestParams),
		})
	}

	w.Flush()
}

// marshalCSVField renders a structured column as compact JSON
func marshalCSVField(v interface{}) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	s := string(b)
	if s == "null" {
		return ""
	}
	return s
}
