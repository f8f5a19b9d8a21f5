package rootapi

import "fmt"

// APIError is returned when the Root Signals API answers with a non-2xx
// status or the request cannot be delivered at all (StatusCode 0).
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Root Signals API error (HTTP %d): %s", e.StatusCode, e.Detail)
}

// ValidationError is returned when an API response does not match the
// expected schema, e.g. a required field is missing.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("response validation error: %s", e.Message)
}
