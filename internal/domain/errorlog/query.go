package errorlog

import "time"

// Filter narrows listing, export and statistics queries. Zero values
// mean "no constraint". Method is matched exactly (normalized to
// upper-case), Endpoint as a case-insensitive substring.
type Filter struct {
	Method     string
	Endpoint   string
	StatusCode int
	ErrorType  string
	StartDate  *time.Time
	EndDate    *time.Time
}

// Page is one page of audit records, most recent first.
type Page struct {
	Errors  []*ErrorLog `json:"errors"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	PerPage int         `json:"per_page"`
	Pages   int         `json:"pages"`
	HasNext bool        `json:"has_next"`
	HasPrev bool        `json:"has_prev"`
}

// Statistics aggregates the audit log over an optional time range.
type Statistics struct {
	TotalRequests         int64            `json:"total_requests"`
	StatusCodeCounts      map[string]int64 `json:"status_code_counts"`
	MethodCounts          map[string]int64 `json:"method_counts"`
	TopEndpoints          map[string]int64 `json:"top_endpoints"`
	AverageResponseTimeMs float64          `json:"average_response_time_ms"`
}
