package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response body every endpoint returns.
// Success: {statusCode, data, message, success:true}
// Failure: {statusCode, message, success:false, errors}
type Envelope[T any] struct {
	StatusCode int    `json:"statusCode"`
	Data       T      `json:"data,omitempty"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
	Errors     any    `json:"errors,omitempty"`
}

// Success writes the success envelope with the given status.
func Success[T any](c *gin.Context, status int, data T, message string) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, Envelope[T]{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// Error writes the failure envelope with the given status. errs carries
// field-level details when available (validation), otherwise nil.
func Error(c *gin.Context, status int, message string, errs any) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, Envelope[any]{
		StatusCode: status,
		Message:    message,
		Success:    false,
		Errors:     errs,
	})
}

// AbortError writes the failure envelope and stops the handler chain.
func AbortError(c *gin.Context, status int, message string, errs any) {
	Error(c, status, message, errs)
	c.Abort()
}
