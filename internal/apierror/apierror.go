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

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// OutcomeError is the error envelope of structure operations. It carries the
// same estado/mensaje pair as successful outcomes, so clients render every
// result the same way, plus the stable error code.
type OutcomeError struct {
	Estado  string `json:"estado"`
	Mensaje string `json:"mensaje"`
	Detail  string `json:"detail"`
	Codigo  string `json:"codigo"`
}

func NewOutcome(code, msg string) *OutcomeError {
	return &OutcomeError{Estado: "error", Mensaje: msg, Detail: msg, Codigo: code}
}
