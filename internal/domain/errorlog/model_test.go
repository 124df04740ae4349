package errorlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorLog_Validate(t *testing.T) {
	entry := ErrorLog{
		Method:     "GET",
		Endpoint:   "/api/links",
		StatusCode: 200,
	}
	assert.NoError(t, entry.Validate())
}

func TestErrorLog_Validate_MissingFields(t *testing.T) {
	cases := []struct {
		name  string
		entry ErrorLog
	}{
		{"missing method", ErrorLog{Endpoint: "/api/links", StatusCode: 200}},
		{"missing endpoint", ErrorLog{Method: "GET", StatusCode: 200}},
		{"zero status code", ErrorLog{Method: "GET", Endpoint: "/api/links"}},
		{"status code too low", ErrorLog{Method: "GET", Endpoint: "/api/links", StatusCode: 99}},
		{"status code too high", ErrorLog{Method: "GET", Endpoint: "/api/links", StatusCode: 600}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.entry.Validate()
			assert.Error(t, err)

			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestErrorLog_Normalize(t *testing.T) {
	entry := ErrorLog{
		Method:     "post",
		Endpoint:   "/api/links",
		StatusCode: 201,
	}

	entry.Normalize()

	assert.Equal(t, "POST", entry.Method)
	assert.False(t, entry.RequestTime.IsZero())
}

func TestErrorLog_Normalize_KeepsExplicitRequestTime(t *testing.T) {
	requestTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entry := ErrorLog{
		Method:      "GET",
		Endpoint:    "/api/links",
		StatusCode:  200,
		RequestTime: requestTime,
	}

	entry.Normalize()

	assert.Equal(t, requestTime, entry.RequestTime)
}

func TestSanitizeHeaders_StripsSensitiveKeys(t *testing.T) {
	headers := map[string]string{
		"Authorization": "Bearer secret",
		"Cookie":        "session=abc",
		"X-Api-Key":     "key-123",
		"Content-Type":  "application/json",
		"Accept":        "application/json",
	}

	sanitized := SanitizeHeaders(headers)

	assert.Len(t, sanitized, 2)
	assert.Contains(t, sanitized, "Content-Type")
	assert.Contains(t, sanitized, "Accept")
	assert.NotContains(t, sanitized, "Authorization")
	assert.NotContains(t, sanitized, "Cookie")
	assert.NotContains(t, sanitized, "X-Api-Key")
}

func TestSanitizeHeaders_CaseInsensitive(t *testing.T) {
	headers := map[string]string{
		"AUTHORIZATION": "Bearer secret",
		"cookie":        "session=abc",
		"x-API-kEy":     "key-123",
	}

	sanitized := SanitizeHeaders(headers)

	assert.NotNil(t, sanitized)
	assert.Empty(t, sanitized)
}

func TestSanitizeHeaders_NilInput(t *testing.T) {
	assert.Nil(t, SanitizeHeaders(nil))
}

func TestClassify_Success(t *testing.T) {
	data, msg, errType := Classify(200, []byte(`{"success":true}`))

	assert.Nil(t, data)
	assert.Empty(t, msg)
	assert.Empty(t, errType)
}

func TestClassify_FailureWithMessage(t *testing.T) {
	data, msg, errType := Classify(404, []byte(`{"message":"not found"}`))

	assert.Equal(t, "not found", msg)
	assert.Equal(t, "HTTPError", errType)
	assert.Equal(t, map[string]interface{}{"message": "not found"}, data)
}

func TestClassify_FailureWithErrorField(t *testing.T) {
	data, msg, errType := Classify(409, []byte(`{"success":false,"error":"category already exists"}`))

	assert.Equal(t, "category already exists", msg)
	assert.Equal(t, "HTTPError", errType)
	assert.Equal(t, false, data["success"])
}

func TestClassify_FailureWithoutMessageField(t *testing.T) {
	data, msg, errType := Classify(400, []byte(`{"detail":"bad input"}`))

	assert.Equal(t, "Unknown error", msg)
	assert.Equal(t, "HTTPError", errType)
	assert.Contains(t, data, "detail")
}

func TestClassify_FailureNonJSONBody(t *testing.T) {
	data, msg, errType := Classify(404, []byte("not json"))

	assert.Nil(t, data)
	assert.Equal(t, "HTTP 404", msg)
	assert.Equal(t, "HTTPError", errType)
}

func TestClassify_FailureEmptyBody(t *testing.T) {
	data, msg, errType := Classify(500, nil)

	assert.Nil(t, data)
	assert.Equal(t, "HTTP 500", msg)
	assert.Equal(t, "HTTPError", errType)
}
