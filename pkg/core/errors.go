package core

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of an exchange error.
type ErrorType int

// Error type constants categorize API errors for handling decisions.
const (
	// ErrorTypeUnknown indicates an unclassified error.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeNetwork indicates a network connectivity issue.
	ErrorTypeNetwork
	// ErrorTypeTimeout indicates the request exceeded its deadline.
	ErrorTypeTimeout
	// ErrorTypeRateLimit indicates rate limit was exceeded.
	ErrorTypeRateLimit
	// ErrorTypeAuthentication indicates invalid or expired credentials.
	ErrorTypeAuthentication
	// ErrorTypeBadRequest indicates invalid request parameters.
	ErrorTypeBadRequest
	// ErrorTypeNotFound indicates the requested resource does not exist.
	ErrorTypeNotFound
	// ErrorTypeServerError indicates a server-side error.
	ErrorTypeServerError
	// ErrorTypeInsufficientFunds indicates account lacks required balance.
	ErrorTypeInsufficientFunds
	// ErrorTypeInvalidOrder indicates the order violates exchange rules.
	ErrorTypeInvalidOrder
)

// String returns the string representation of the error type.
func (t ErrorType) String() string {
	names := [...]string{
		"UNKNOWN",
		"NETWORK",
		"TIMEOUT",
		"RATE_LIMIT",
		"AUTHENTICATION",
		"BAD_REQUEST",
		"NOT_FOUND",
		"SERVER_ERROR",
		"INSUFFICIENT_FUNDS",
		"INVALID_ORDER",
	}
	if t < 0 || int(t) >= len(names) {
		return "UNKNOWN"
	}
	return names[t]
}

// Sentinel errors for common error conditions.
var (
	// ErrEmptyPrivateKey is returned when credentials are built without a private key.
	ErrEmptyPrivateKey = errors.New("private key is empty")
	// ErrEmptyPublicKey is returned when credentials are built without a public key.
	ErrEmptyPublicKey = errors.New("public key is empty")
	// ErrNoCredentials is returned when a private endpoint is called without credentials.
	ErrNoCredentials = errors.New("no credentials configured")
	// ErrInvalidSegment is returned for a path segment that is empty or contains a separator.
	ErrInvalidSegment = errors.New("invalid path segment")
	// ErrInvalidHeader is returned for a header name or value that cannot be sent.
	ErrInvalidHeader = errors.New("invalid header")
	// ErrInvalidBody is returned for a request body that is not valid UTF-8.
	ErrInvalidBody = errors.New("body is not valid UTF-8")
	// ErrInvalidURL is returned when the base URL cannot be parsed.
	ErrInvalidURL = errors.New("invalid base url")
	// ErrNilOrder is returned when an order command is nil.
	ErrNilOrder = errors.New("order command is nil")
)

// TransportError wraps a failure of the HTTP transport itself.
// The request may or may not have reached the exchange.
type TransportError struct {
	Op  Operation
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RequestBuildError reports a request that could not be assembled.
// It indicates a programming error and the request is never sent.
type RequestBuildError struct {
	Reason string
	Err    error
}

func (e *RequestBuildError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("build request: %v", e.Err)
	}
	return fmt.Sprintf("build request: %s: %v", e.Reason, e.Err)
}

func (e *RequestBuildError) Unwrap() error {
	return e.Err
}

// APIError is the structured error envelope returned by the exchange.
type APIError struct {
	// StatusCode is the HTTP status code from the response.
	StatusCode int `json:"status_code"`
	// Code is the exchange-specific error code.
	Code int `json:"code"`
	// Message is the human-readable error summary.
	Message string `json:"message"`
	// Description carries optional detail, often the offending field.
	Description string `json:"description,omitempty"`
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("api error %d (%d/%s): %s: %s",
			e.StatusCode, e.Code, e.Type(), e.Message, e.Description)
	}
	return fmt.Sprintf("api error %d (%d/%s): %s", e.StatusCode, e.Code, e.Type(), e.Message)
}

// Type classifies the error code.
func (e *APIError) Type() ErrorType {
	return ClassifyAPICode(e.Code, e.StatusCode)
}

// DeserializationError reports a response body that did not match the
// expected schema. Body holds the raw bytes as received.
type DeserializationError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("decode response (status %d, %d bytes): %v", e.StatusCode, len(e.Body), e.Err)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}

// NewRequestBuildError creates a RequestBuildError.
func NewRequestBuildError(reason string, err error) *RequestBuildError {
	return &RequestBuildError{Reason: reason, Err: err}
}

// NewDeserializationError creates a DeserializationError keeping the raw body.
func NewDeserializationError(status int, body []byte, err error) *DeserializationError {
	return &DeserializationError{StatusCode: status, Body: body, Err: err}
}

// IsAPIError returns true if err is or wraps an APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// IsTransportError returns true if err is or wraps a TransportError.
func IsTransportError(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}

// IsRequestBuildError returns true if err is or wraps a RequestBuildError.
func IsRequestBuildError(err error) bool {
	var bErr *RequestBuildError
	return errors.As(err, &bErr)
}

// IsDeserializationError returns true if err is or wraps a DeserializationError.
func IsDeserializationError(err error) bool {
	var dErr *DeserializationError
	return errors.As(err, &dErr)
}

// IsRateLimitError returns true if the error is a rate limit violation reported by the exchange.
func IsRateLimitError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type() == ErrorTypeRateLimit
	}
	return false
}

// IsAuthenticationError returns true if the exchange rejected the credentials or signature.
func IsAuthenticationError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type() == ErrorTypeAuthentication
	}
	return false
}

// IsTerminalError returns true if the error indicates a terminal condition.
// Terminal errors should not be retried as they will not succeed.
func IsTerminalError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t := apiErr.Type()
		return t == ErrorTypeInsufficientFunds ||
			t == ErrorTypeInvalidOrder ||
			t == ErrorTypeNotFound
	}
	return IsRequestBuildError(err)
}
