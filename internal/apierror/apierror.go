// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// ConflictError carries structured data about a business-state conflict
// (insufficient funds, insufficient stock, session already open, ...) so the
// caller can decide its next action without re-querying.
type ConflictError struct {
	Detail string                 `json:"detail"`
	Data   map[string]interface{} `json:"data,omitempty"`
}

func NewConflict(msg string, data map[string]interface{}) *ConflictError {
	return &ConflictError{Detail: msg, Data: data}
}
