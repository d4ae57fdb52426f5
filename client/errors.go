package client

import (
	"errors"
	"fmt"
	"time"
)

// APIError is the base failure type for everything the SDK surfaces. Every
// error returned by an accessor either is an *APIError or wraps one, so
// callers can always recover the message, machine code, HTTP status, and the
// server's original error payload.
type APIError struct {
	Message    string
	Code       string
	StatusCode int
	Detail     map[string]any
}

func (e *APIError) Error() string { return e.Message }

// AuthenticationError is returned for 401 responses.
type AuthenticationError struct{ *APIError }

func (e *AuthenticationError) Unwrap() error { return e.APIError }

// ValidationError is returned for 400 responses.
type ValidationError struct{ *APIError }

func (e *ValidationError) Unwrap() error { return e.APIError }

// NotFoundError is returned for 404 responses.
type NotFoundError struct{ *APIError }

func (e *NotFoundError) Unwrap() error { return e.APIError }

// ServerError is returned once a 5xx response has exhausted the retry budget.
type ServerError struct{ *APIError }

func (e *ServerError) Unwrap() error { return e.APIError }

// RateLimitError is returned for 429 responses. RetryAfter carries the
// server-provided wait, or 60 seconds when the header is absent. The SDK
// never waits on the caller's behalf.
type RateLimitError struct {
	*APIError
	RetryAfter time.Duration
}

func (e *RateLimitError) Unwrap() error { return e.APIError }

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsAuthentication(err error) bool {
	var e *AuthenticationError
	return errors.As(err, &e)
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsServerError(err error) bool {
	var e *ServerError
	return errors.As(err, &e)
}

// AsRateLimit checks whether err is a RateLimitError and returns it.
func AsRateLimit(err error) (*RateLimitError, bool) {
	var e *RateLimitError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Error codes used for failures the SDK raises itself, without a
// corresponding HTTP status classification.
const (
	codeConnection   = "CONNECTION_ERROR"
	codeDecode       = "DECODE_ERROR"
	codeCancelled    = "CANCELLED"
	codeGraphQL      = "GRAPHQL_ERROR"
	codeEnvelope     = "API_ERROR"
	codeJobFailed    = "JOB_FAILED"
	codeJobCancelled = "JOB_CANCELLED"
	codeTimeout      = "TIMEOUT"
	codeUnknown      = "UNKNOWN_ERROR"
)

func genericError(code, format string, a ...any) *APIError {
	return &APIError{
		Message: fmt.Sprintf(format, a...),
		Code:    code,
		Detail:  map[string]any{},
	}
}

func statusError(status int, detail map[string]any, fallback string) *APIError {
	return &APIError{
		Message:    detailMessage(detail, fallback),
		Code:       detailCode(detail),
		StatusCode: status,
		Detail:     detail,
	}
}

func detailMessage(detail map[string]any, fallback string) string {
	if m, ok := detail["message"].(string); ok && m != "" {
		return m
	}
	return fallback
}

func detailCode(detail map[string]any) string {
	if c, ok := detail["code"].(string); ok && c != "" {
		return c
	}
	return codeUnknown
}
