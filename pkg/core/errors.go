package core

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind represents the category of a client error.
type ErrorKind int

// Error kind constants separate failures the caller can fix from failures
// raised by the network or the remote service.
const (
	// KindUnknown indicates an unclassified error.
	KindUnknown ErrorKind = iota
	// KindValidation indicates the request was rejected before any network activity.
	KindValidation
	// KindTransport indicates the request failed while being dispatched.
	KindTransport
	// KindService indicates the service answered with an error payload.
	KindService
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	return [...]string{
		"UNKNOWN",
		"VALIDATION",
		"TRANSPORT",
		"SERVICE",
	}[k]
}

// Sentinel errors for common error conditions.
var (
	// ErrClientClosed is returned when attempting to use a closed client.
	ErrClientClosed = errors.New("client is closed")
	// ErrNoCredentials is returned when an authenticated call has no secret to sign with.
	ErrNoCredentials = errors.New("no credentials configured")
	// ErrLimiterRequired is returned when a client is built without a shared rate limiter.
	ErrLimiterRequired = errors.New("rate limiter is required")
)

// SwapError is the structured error returned by every client operation.
type SwapError struct {
	// Kind categorizes the error for programmatic handling.
	Kind ErrorKind `json:"kind"`
	// Code is a stable machine-readable identifier.
	Code ErrorCode `json:"code"`
	// StatusCode is the HTTP status code, zero when no response was received.
	StatusCode int `json:"status_code,omitempty"`
	// Message is the human-readable error description.
	Message string `json:"message"`
	// Err is the underlying cause, if any.
	Err error `json:"-"`
	// Timestamp is when the error occurred.
	Timestamp time.Time `json:"timestamp"`
}

// Error implements the error interface for SwapError.
func (e *SwapError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (%d/%s): %s", e.Kind, e.StatusCode, e.Code, msg)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, msg)
}

// Unwrap returns the underlying cause.
func (e *SwapError) Unwrap() error {
	return e.Err
}

// WithStatus sets the HTTP status code and returns the error for chaining.
func (e *SwapError) WithStatus(status int) *SwapError {
	e.StatusCode = status
	return e
}

// NewValidationError creates an error for input rejected before dispatch.
func NewValidationError(code ErrorCode, format string, args ...any) *SwapError {
	return &SwapError{
		Kind:      KindValidation,
		Code:      code,
		Message:   fmt.Sprintf(format, args...),
		Timestamp: time.Now(),
	}
}

// NewTransportError wraps a dispatch failure. The cause is kept unchanged.
func NewTransportError(message string, err error) *SwapError {
	return &SwapError{
		Kind:      KindTransport,
		Code:      ErrCodeTransport,
		Message:   message,
		Err:       err,
		Timestamp: time.Now(),
	}
}

// NewServiceError creates an error for a remote failure payload.
func NewServiceError(message string) *SwapError {
	return &SwapError{
		Kind:      KindService,
		Code:      ErrCodeService,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func kindOf(err error) ErrorKind {
	var e *SwapError
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsValidationError returns true if the request was rejected before dispatch.
// Validation errors are fixed by correcting the input, never by retrying.
func IsValidationError(err error) bool {
	return kindOf(err) == KindValidation
}

// IsTransportError returns true if the request failed during dispatch.
func IsTransportError(err error) bool {
	return kindOf(err) == KindTransport
}

// IsServiceError returns true if the service reported a failure in its payload.
func IsServiceError(err error) bool {
	return kindOf(err) == KindService
}
