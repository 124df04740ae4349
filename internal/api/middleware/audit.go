package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/krishnapranayangara/linksdisplay/internal/domain/errorlog"
	"github.com/krishnapranayangara/linksdisplay/internal/pkg/logger"
	"github.com/krishnapranayangara/linksdisplay/internal/service"
)

// endpoints matching any of these substrings are never audited
var auditSkipPatterns = []string{
	"static",
	"health",
	"favicon",
	"robots.txt",
}

// bodyCaptureWriter wraps the ResponseWriter so the interceptor can
// classify failure responses after the handler has written them.
type bodyCaptureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// AuditMiddleware records one audit record per request lifecycle.
// Nothing that happens here may change the client-visible response:
// record building and submission failures are logged and discarded.
func AuditMiddleware(auditSvc service.ErrorLogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestTime := start.UTC()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = c.Request.URL.Path
		}

		// Skip before any buffering work
		if shouldSkipAudit(endpoint) || shouldSkipAudit(c.Request.URL.Path) {
			c.Next()
			return
		}

		c.Header("X-Request-ID", uuid.New().String())

		// Buffer the request body and hand the handler a fresh reader
		var requestBody []byte
		if c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		writer := &bodyCaptureWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = writer

		defer func() {
			if rec := recover(); rec != nil {
				// Best-effort record for an aborted request. The outer
				// recovery middleware owns the 500 response.
				entry := buildAuditEntry(c, endpoint, requestBody, requestTime, start)
				entry.StatusCode = http.StatusInternalServerError
				entry.ErrorMessage = fmt.Sprint(rec)
				entry.ErrorType = panicTypeName(rec)
				submitAuditEntry(auditSvc, entry)
				panic(rec)
			}
		}()

		c.Next()

		entry := buildAuditEntry(c, endpoint, requestBody, requestTime, start)
		entry.StatusCode = c.Writer.Status()

		entry.ResponseData, entry.ErrorMessage, entry.ErrorType =
			errorlog.Classify(entry.StatusCode, writer.body.Bytes())

		submitAuditEntry(auditSvc, entry)
	}
}

// buildAuditEntry extracts everything knowable about the request
// itself; status and failure classification are filled in afterwards.
// It must not panic on partial request data.
func buildAuditEntry(c *gin.Context, endpoint string, requestBody []byte, requestTime time.Time, start time.Time) *errorlog.ErrorLog {
	responseTime := time.Now().UTC()
	durationMs := time.Since(start).Milliseconds()

	entry := &errorlog.ErrorLog{
		Method:         c.Request.Method,
		Endpoint:       endpoint,
		RequestData:    extractRequestData(c.Request.Method, c.ContentType(), requestBody),
		RequestParams:  extractQueryParams(c),
		RequestHeaders: errorlog.SanitizeHeaders(flattenHeaders(c.Request.Header)),
		ClientIP:       c.ClientIP(),
		UserAgent:      c.Request.UserAgent(),
		RequestTime:    requestTime,
		ResponseTime:   &responseTime,
		DurationMs:     durationMs,
	}

	return entry
}

// extractRequestData parses the body only for mutating methods
// carrying JSON; everything else is recorded as absent.
func extractRequestData(method, contentType string, body []byte) map[string]interface{} {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return nil
	}

	if !strings.Contains(contentType, "application/json") || len(body) == 0 {
		return nil
	}

	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil
	}
	return data
}

// extractQueryParams flattens the query string; an empty query is
// recorded as absent, not as an empty map.
func extractQueryParams(c *gin.Context) map[string]string {
	query := c.Request.URL.Query()
	if len(query) == 0 {
		return nil
	}

	params := make(map[string]string, len(query))
	for k, v := range query {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	return params
}

func flattenHeaders(header http.Header) map[string]string {
	if len(header) == 0 {
		return nil
	}

	headers := make(map[string]string, len(header))
	for k, v := range header {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}
	return headers
}

// submitAuditEntry hands the record to the audit service, swallowing
// every failure: logging must never fail the request it describes.
func submitAuditEntry(auditSvc service.ErrorLogService, entry *errorlog.ErrorLog) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Audit submission panicked", zap.Any("panic", rec))
		}
	}()

	if err := auditSvc.Log(entry); err != nil {
		logger.Warn("Audit record rejected",
			zap.String("endpoint", entry.Endpoint),
			zap.Error(err),
		)
	}
}

func shouldSkipAudit(endpoint string) bool {
	endpoint = strings.ToLower(endpoint)
	for _, pattern := range auditSkipPatterns {
		if strings.Contains(endpoint, pattern) {
			return true
		}
	}
	return false
}

func panicTypeName(rec interface{}) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", rec), "*")
}
