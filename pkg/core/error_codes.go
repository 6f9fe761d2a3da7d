package core

import "errors"

// ErrorCode represents a client-specific error identifier.
// Error codes provide a stable, machine-readable way to identify specific error conditions.
type ErrorCode string

const (
	// ErrCodeInvalidPair indicates a pair-shaped value missing from the pair catalog.
	ErrCodeInvalidPair ErrorCode = "INVALID_PAIR"
	// ErrCodeMissingConfine indicates a required path argument was empty.
	ErrCodeMissingConfine ErrorCode = "MISSING_CONFINE"
	// ErrCodeInvalidParam indicates a request parameter failed validation.
	ErrCodeInvalidParam ErrorCode = "INVALID_PARAM"
	// ErrCodeInvalidCoin indicates a malformed or unknown coin symbol.
	ErrCodeInvalidCoin ErrorCode = "INVALID_COIN"

	// Configuration errors
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"

	// Dispatch and remote errors
	ErrCodeTransport ErrorCode = "TRANSPORT_ERROR"
	ErrCodeService   ErrorCode = "SERVICE_ERROR"

	// Authentication errors
	ErrCodeNoCredentials ErrorCode = "NO_CREDENTIALS"
)

// IsErrorCode checks if the error matches the specified error code.
func IsErrorCode(err error, code ErrorCode) bool {
	var swapErr *SwapError
	if errors.As(err, &swapErr) {
		return swapErr.Code == code
	}
	return false
}
