package errorlog

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// ErrorLog is one audit record per HTTP transaction, persisted in the
// errors table. Records are append-only: nothing updates them after
// creation and only retention cleanup deletes them.
type ErrorLog struct {
	ID int64 `json:"id"`

	// Request information
	Method         string                 `json:"method"`
	Endpoint       string                 `json:"endpoint"`
	RequestData    map[string]interface{} `json:"request_data"`
	RequestParams  map[string]string      `json:"request_params"`
	RequestHeaders map[string]string      `json:"request_headers"`
	ClientIP       string                 `json:"client_ip,omitempty"`
	UserAgent      string                 `json:"user_agent,omitempty"`

	// Response information
	StatusCode   int                    `json:"status_code"`
	ResponseData map[string]interface{} `json:"response_data"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	ErrorType    string                 `json:"error_type,omitempty"`

	// Timing information
	RequestTime  time.Time  `json:"request_time"`
	ResponseTime *time.Time `json:"response_time"`
	DurationMs   int64      `json:"duration_ms"`

	// Reserved: persisted but not populated by any current collaborator.
	SessionID string `json:"session_id,omitempty"`
	UserID    *int64 `json:"user_id,omitempty"`
}

// Validate checks the fields required at creation time. The method and
// endpoint must be present and the status code must be a real HTTP
// status.
func (e *ErrorLog) Validate() error {
	if e.Method == "" || e.Endpoint == "" {
		return &ValidationError{Message: "method, endpoint, and status_code are required"}
	}
	if e.StatusCode < 100 || e.StatusCode > 599 {
		return &ValidationError{Message: "status_code must be between 100 and 599"}
	}
	return nil
}

// Normalize upper-cases the method and defaults the request time to
// now, matching the behavior expected of records built outside the
// interceptor.
func (e *ErrorLog) Normalize() {
	e.Method = strings.ToUpper(e.Method)
	if e.RequestTime.IsZero() {
		e.RequestTime = time.Now().UTC()
	}
}

// sensitive header names, matched case-insensitively
var sensitiveHeaders = map[string]struct{}{
	"authorization": {},
	"cookie":        {},
	"x-api-key":     {},
}

// SanitizeHeaders strips credential-bearing header fields before
// persistence. A nil input yields nil, distinguishing "no headers
// sent" from "headers sent but all sanitized".
func SanitizeHeaders(headers map[string]string) map[string]string {
	if headers == nil {
		return nil
	}

	sanitized := make(map[string]string, len(headers))
	for k, v := range headers {
		if _, sensitive := sensitiveHeaders[strings.ToLower(k)]; sensitive {
			continue
		}
		sanitized[k] = v
	}
	return sanitized
}

// Classify derives the failure fields of a record from a response
// status and body. Status codes below 400 yield all zero values. For
// failures, a JSON object body becomes response_data with
// error_message taken from its "message" or "error" field; anything
// else falls back to a synthetic "HTTP <status>" message.
func Classify(statusCode int, body []byte) (responseData map[string]interface{}, errorMessage, errorType string) {
	if statusCode < 400 {
		return nil, "", ""
	}

	errorType = "HTTPError"

	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed != nil {
		responseData = parsed
		errorMessage = "Unknown error"
		if msg, ok := parsed["message"].(string); ok {
			errorMessage = msg
		} else if msg, ok := parsed["error"].(string); ok {
			errorMessage = msg
		}
		return responseData, errorMessage, errorType
	}

	errorMessage = "HTTP " + strconv.Itoa(statusCode)
	return nil, errorMessage, errorType
}
