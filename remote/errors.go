package remote

import "fmt"

// GatewayError represents an error from a remote gateway operation
// It provides structured error information including HTTP status codes,
// operation context, and the underlying error message
type GatewayError struct {
	Operation  string // e.g., "UpsertTask", "FetchCategories"
	StatusCode int    // HTTP status code (0 if not an HTTP error)
	Message    string // Human-readable error message
	Table      string // Optional: remote table involved
	SyncID     string // Optional: affected record id
	Body       string // Optional: response body for debugging
	Err        error  // Optional: underlying error
}

// Error implements the error interface
func (e *GatewayError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s failed with status %d: %s", e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the underlying error for error wrapping
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// IsNotFound returns true if the error is a 404 Not Found
func (e *GatewayError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized returns true if the error is a 401 Unauthorized or 403 Forbidden
func (e *GatewayError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// IsServerError returns true if the error is a 5xx server error
func (e *GatewayError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// NewGatewayError creates a new GatewayError
func NewGatewayError(operation string, statusCode int, message string) *GatewayError {
	return &GatewayError{
		Operation:  operation,
		StatusCode: statusCode,
		Message:    message,
	}
}

// WithTable adds the remote table to the error for context
func (e *GatewayError) WithTable(table string) *GatewayError {
	e.Table = table
	return e
}

// WithSyncID adds the record id to the error for context
func (e *GatewayError) WithSyncID(id string) *GatewayError {
	e.SyncID = id
	return e
}

// WithBody adds the response body to the error for debugging
func (e *GatewayError) WithBody(body string) *GatewayError {
	e.Body = body
	return e
}

// WithError wraps an underlying error
func (e *GatewayError) WithError(err error) *GatewayError {
	e.Err = err
	return e
}
