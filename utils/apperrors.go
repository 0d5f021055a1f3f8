// utils/apperrors.go
package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// FieldViolation carries enough detail for the API layer to render a
// user-facing message: the field, the offending value and what went wrong.
type FieldViolation struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidationError collects every violated field, not just the first, so a
// caller can fix a whole record in one pass.
type ValidationError struct {
	Violations []FieldViolation `json:"violations"`
}

func (e *ValidationError) Add(field, message string, value interface{}) {
	e.Violations = append(e.Violations, FieldViolation{Field: field, Message: message, Value: value})
}

func (e *ValidationError) HasViolations() bool {
	return len(e.Violations) > 0
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+" "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NotFoundError identifies an unknown id. Recoverable.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ConflictError covers referential-integrity and concurrent-update
// conflicts. The caller re-reads current state and retries.
type ConflictError struct {
	Resource string
	Reason   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Resource, e.Reason)
}

// OutOfRangeError reports a customization override outside its allowed
// bounds. No silent clamping; the exact bound is surfaced.
type OutOfRangeError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s %.2f outside allowed range %.2f-%.2f", e.Field, e.Value, e.Min, e.Max)
}

func RespondWithError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// RespondWithAppError maps the error taxonomy onto HTTP statuses:
// validation/out-of-range 400, not-found 404, conflict 409, everything
// else 500.
func RespondWithAppError(c *gin.Context, err error) {
	var validationErr *ValidationError
	var notFoundErr *NotFoundError
	var conflictErr *ConflictError
	var rangeErr *OutOfRangeError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error(), "violations": validationErr.Violations})
	case errors.As(err, &rangeErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": rangeErr.Error(),
			"field": rangeErr.Field, "value": rangeErr.Value,
			"min": rangeErr.Min, "max": rangeErr.Max,
		})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{"error": conflictErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
