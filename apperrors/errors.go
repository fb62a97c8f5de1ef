// Package apperrors defines the HTTP-facing application error type.
package apperrors

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error represents an application error with an HTTP status code.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error.
func New(code int, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Respond writes the error to the gin context as JSON.
func Respond(c *gin.Context, e *Error) {
	c.JSON(e.Code, gin.H{"error": e.Message})
}

// Common error values.
var (
	ErrJobNotFound = New(http.StatusNotFound, "Job not found", nil)
)
