package response

import (
	"github.com/gin-gonic/gin"
)

// Envelope is the response shape shared by every endpoint:
// {success, data?, message?, error?} with the HTTP status code
// carrying the primary signal.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success writes a standardized success response.
func Success(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Envelope{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// Error writes a standardized error response.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{
		Success: false,
		Message: message,
	})
}

// ErrorWithDetail writes an error response carrying extra detail
// alongside the message.
func ErrorWithDetail(c *gin.Context, status int, message, detail string) {
	c.JSON(status, Envelope{
		Success: false,
		Message: message,
		Error:   detail,
	})
}
