package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/krishnapranayangara/linksdisplay/internal/domain/errorlog"
	"github.com/krishnapranayangara/linksdisplay/internal/pkg/metrics"
)

type ErrorLogRepository interface {
	Create(entry *errorlog.ErrorLog) error
	GetByID(id int64) (*errorlog.ErrorLog, error)
	List(filter *errorlog.Filter, limit, offset int) ([]*errorlog.ErrorLog, error)
	Count(filter *errorlog.Filter) (int64, error)
	DeleteByID(id int64) (bool, error)
	DeleteBefore(cutoff time.Time) (int64, error)
	Statistics(start, end *time.Time) (*errorlog.Statistics, error)
}

type errorLogRepository struct {
	db *sql.DB
}

func NewErrorLogRepository(db *sql.DB) ErrorLogRepository {
	return &errorLogRepository{db: db}
}

const errorLogColumns = `id, method, endpoint, request_data, request_params, request_headers,
	       client_ip, user_agent, status_code, response_data, error_message, error_type,
	       request_time, response_time, duration_ms, session_id, user_id`

func (r *errorLogRepository) Create(entry *errorlog.ErrorLog) error {
	query := `
		INSERT INTO errors (method, endpoint, request_data, request_params, request_headers,
		                    client_ip, user_agent, status_code, response_data, error_message,
		                    error_type, request_time, response_time, duration_ms, session_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id
	`

	metrics.RecordDBQuery("insert", "errors")
	err := r.db.QueryRow(
		query,
		entry.Method,
		entry.Endpoint,
		nullableJSON(entry.RequestData),
		nullableJSON(entry.RequestParams),
		nullableJSON(entry.RequestHeaders),
		nullString(entry.ClientIP),
		nullString(entry.UserAgent),
		entry.StatusCode,
		nullableJSON(entry.ResponseData),
		nullString(entry.ErrorMessage),
		nullString(entry.ErrorType),
		entry.RequestTime,
		entry.ResponseTime,
		entry.DurationMs,
		nullString(entry.SessionID),
		entry.UserID,
	).Scan(&entry.ID)

	if err != nil {
		return &errorlog.DatabaseError{Op: "create error log", Err: err}
	}

	return nil
}

func (r *errorLogRepository) GetByID(id int64) (*errorlog.ErrorLog, error) {
	query := `SELECT ` + errorLogColumns + ` FROM errors WHERE id = $1`

	metrics.RecordDBQuery("select", "errors")
	entry, err := scanErrorLog(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &errorlog.DatabaseError{Op: "get error log", Err: err}
	}

	return entry, nil
}

func (r *errorLogRepository) List(filter *errorlog.Filter, limit, offset int) ([]*errorlog.ErrorLog, error) {
	where, args := buildErrorLogFilter(filter)

	query := fmt.Sprintf(`SELECT `+errorLogColumns+` FROM errors%s ORDER BY request_time DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	metrics.RecordDBQuery("select", "errors")
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, &errorlog.DatabaseError{Op: "list error logs", Err: err}
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := make([]*errorlog.ErrorLog, 0)
	for rows.Next() {
		entry, err := scanErrorLog(rows)
		if err != nil {
			return nil, &errorlog.DatabaseError{Op: "scan error log", Err: err}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, &errorlog.DatabaseError{Op: "list error logs", Err: err}
	}

	return entries, nil
}

func (r *errorLogRepository) Count(filter *errorlog.Filter) (int64, error) {
	where, args := buildErrorLogFilter(filter)

	metrics.RecordDBQuery("select", "errors")
	var total int64
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM errors`+where, args...).Scan(&total); err != nil {
		return 0, &errorlog.DatabaseError{Op: "count error logs", Err: err}
	}

	return total, nil
}

func (r *errorLogRepository) DeleteByID(id int64) (bool, error) {
	metrics.RecordDBQuery("delete", "errors")
	result, err := r.db.Exec(`DELETE FROM errors WHERE id = $1`, id)
	if err != nil {
		return false, &errorlog.DatabaseError{Op: "delete error log", Err: err}
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, &errorlog.DatabaseError{Op: "delete error log", Err: err}
	}

	return affected > 0, nil
}

func (r *errorLogRepository) DeleteBefore(cutoff time.Time) (int64, error) {
	metrics.RecordDBQuery("delete", "errors")
	result, err := r.db.Exec(`DELETE FROM errors WHERE request_time < $1`, cutoff)
	if err != nil {
		return 0, &errorlog.DatabaseError{Op: "delete old error logs", Err: err}
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, &errorlog.DatabaseError{Op: "delete old error logs", Err: err}
	}

	return deleted, nil
}

// Statistics builds the time-range predicate once and applies it
// identically to every aggregate query, so all counts describe the
// same subset of records.
func (r *errorLogRepository) Statistics(start, end *time.Time) (*errorlog.Statistics, error) {
	where, args := buildErrorLogFilter(&errorlog.Filter{StartDate: start, EndDate: end})

	stats := &errorlog.Statistics{
		StatusCodeCounts: make(map[string]int64),
		MethodCounts:     make(map[string]int64),
		TopEndpoints:     make(map[string]int64),
	}

	metrics.RecordDBQuery("select", "errors")
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM errors`+where, args...).Scan(&stats.TotalRequests); err != nil {
		return nil, &errorlog.DatabaseError{Op: "count requests", Err: err}
	}

	statusRows, err := r.db.Query(`SELECT status_code, COUNT(*) FROM errors`+where+` GROUP BY status_code`, args...)
	if err != nil {
		return nil, &errorlog.DatabaseError{Op: "aggregate status codes", Err: err}
	}
	defer func() {
		_ = statusRows.Close()
	}()
	for statusRows.Next() {
		var code int
		var count int64
		if err := statusRows.Scan(&code, &count); err != nil {
			return nil, &errorlog.DatabaseError{Op: "aggregate status codes", Err: err}
		}
		stats.StatusCodeCounts[fmt.Sprintf("%d", code)] = count
	}

	methodRows, err := r.db.Query(`SELECT method, COUNT(*) FROM errors`+where+` GROUP BY method`, args...)
	if err != nil {
		return nil, &errorlog.DatabaseError{Op: "aggregate methods", Err: err}
	}
	defer func() {
		_ = methodRows.Close()
	}()
	for methodRows.Next() {
		var method string
		var count int64
		if err := methodRows.Scan(&method, &count); err != nil {
			return nil, &errorlog.DatabaseError{Op: "aggregate methods", Err: err}
		}
		stats.MethodCounts[method] = count
	}

	endpointRows, err := r.db.Query(
		`SELECT endpoint, COUNT(*) FROM errors`+where+` GROUP BY endpoint ORDER BY COUNT(*) DESC LIMIT 10`, args...)
	if err != nil {
		return nil, &errorlog.DatabaseError{Op: "aggregate endpoints", Err: err}
	}
	defer func() {
		_ = endpointRows.Close()
	}()
	for endpointRows.Next() {
		var endpoint string
		var count int64
		if err := endpointRows.Scan(&endpoint, &count); err != nil {
			return nil, &errorlog.DatabaseError{Op: "aggregate endpoints", Err: err}
		}
		stats.TopEndpoints[endpoint] = count
	}

	// AVG over zero rows is NULL; COALESCE keeps the contract of 0
	if err := r.db.QueryRow(
		`SELECT COALESCE(AVG(duration_ms), 0) FROM errors`+where, args...).Scan(&stats.AverageResponseTimeMs); err != nil {
		return nil, &errorlog.DatabaseError{Op: "average response time", Err: err}
	}

	return stats, nil
}

// buildErrorLogFilter renders the shared WHERE clause for listing,
// counting and aggregation. Returns the clause (with leading " WHERE",
// or empty) and its positional arguments.
func buildErrorLogFilter(f *errorlog.Filter) (string, []interface{}) {
	clauses := []string{}
	args := []interface{}{}
	argPos := 1

	if f != nil {
		if f.Method != "" {
			clauses = append(clauses, fmt.Sprintf("method = $%d", argPos))
			args = append(args, strings.ToUpper(f.Method))
			argPos++
		}
		if f.Endpoint != "" {
			clauses = append(clauses, fmt.Sprintf("endpoint ILIKE $%d", argPos))
			args = append(args, "%"+f.Endpoint+"%")
			argPos++
		}
		if f.StatusCode != 0 {
			clauses = append(clauses, fmt.Sprintf("status_code = $%d", argPos))
			args = append(args, f.StatusCode)
			argPos++
		}
		if f.ErrorType != "" {
			clauses = append(clauses, fmt.Sprintf("error_type = $%d", argPos))
			args = append(args, f.ErrorType)
			argPos++
		}
		if f.StartDate != nil {
			clauses = append(clauses, fmt.Sprintf("request_time >= $%d", argPos))
			args = append(args, *f.StartDate)
			argPos++
		}
		if f.EndDate != nil {
			clauses = append(clauses, fmt.Sprintf("request_time <= $%d", argPos))
			args = append(args, *f.EndDate)
			argPos++
		}
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanErrorLog(row rowScanner) (*errorlog.ErrorLog, error) {
	entry := &errorlog.ErrorLog{}
	var (
		requestData, requestParams, requestHeaders, responseData []byte
		clientIP, userAgent, errorMessage, errorType, sessionID  sql.NullString
		responseTime                                             sql.NullTime
		durationMs, userID                                       sql.NullInt64
	)

	err := row.Scan(
		&entry.ID,
		&entry.Method,
		&entry.Endpoint,
		&requestData,
		&requestParams,
		&requestHeaders,
		&clientIP,
		&userAgent,
		&entry.StatusCode,
		&responseData,
		&errorMessage,
		&errorType,
		&entry.RequestTime,
		&responseTime,
		&durationMs,
		&sessionID,
		&userID,
	)
	if err != nil {
		return nil, err
	}

	if len(requestData) > 0 {
		_ = json.Unmarshal(requestData, &entry.RequestData)
	}
	if len(requestParams) > 0 {
		_ = json.Unmarshal(requestParams, &entry.RequestParams)
	}
	if len(requestHeaders) > 0 {
		_ = json.Unmarshal(requestHeaders, &entry.RequestHeaders)
	}
	if len(responseData) > 0 {
		_ = json.Unmarshal(responseData, &entry.ResponseData)
	}

	entry.ClientIP = clientIP.String
	entry.UserAgent = userAgent.String
	entry.ErrorMessage = errorMessage.String
	entry.ErrorType = errorType.String
	entry.SessionID = sessionID.String
	entry.DurationMs = durationMs.Int64
	if responseTime.Valid {
		entry.ResponseTime = &responseTime.Time
	}
	if userID.Valid {
		entry.UserID = &userID.Int64
	}

	return entry, nil
}

// nullableJSON serializes a map column, storing SQL NULL for absent
// maps rather than the JSON literal "null".
func nullableJSON(v interface{}) interface{} {
	switch m := v.(type) {
	case map[string]interface{}:
		if m == nil {
			return nil
		}
	case map[string]string:
		if m == nil {
			return nil
		}
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
