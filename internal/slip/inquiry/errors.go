package inquiry

import (
	"errors"
	"fmt"
)

// ErrorCategory normalizes inquiry failures for callers and metrics.
type ErrorCategory string

const (
	// CategoryTransport covers timeouts, connection failures, and anything
	// that prevented a response from arriving.
	CategoryTransport ErrorCategory = "transport"

	// CategoryStatus means the service answered with a non-2xx status.
	CategoryStatus ErrorCategory = "status"

	// CategoryBadData means the response body did not look like an inquiry
	// result at all.
	CategoryBadData ErrorCategory = "bad_data"
)

// APIError wraps a failed remote inquiry. It aborts the verification
// pipeline and is never downgraded to a validation outcome; a slip the
// service legitimately rejects comes back as a structured result instead.
type APIError struct {
	Category   ErrorCategory
	Status     int
	Message    string
	Underlying error
}

func (e *APIError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("inquiry [%s]: %s: %v", e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("inquiry [%s]: %s", e.Category, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Underlying
}

// NewAPIError builds a categorized inquiry error.
func NewAPIError(category ErrorCategory, message string, underlying error) *APIError {
	return &APIError{Category: category, Message: message, Underlying: underlying}
}

// IsAPIError reports whether err is (or wraps) an APIError.
func IsAPIError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae)
}

// GetCategory extracts the category from an inquiry error, defaulting to
// transport for unrecognized errors.
func GetCategory(err error) ErrorCategory {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Category
	}
	return CategoryTransport
}
