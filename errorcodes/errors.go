package errorcodes

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCode describes the kind of failure reported by an encode, decode, validate or build operation.
type ErrorCode string

const (
	// INVALID_ADDRESS indicates a contract or parameter address that is not 20 bytes of hex.
	INVALID_ADDRESS ErrorCode = "INVALID_ADDRESS"

	// INVALID_PARAMETER indicates a parameter value that failed validation, or a malformed type descriptor.
	INVALID_PARAMETER ErrorCode = "INVALID_PARAMETER"

	// ENCODING_FAILED indicates a failure while constructing calldata after validation succeeded.
	ENCODING_FAILED ErrorCode = "ENCODING_FAILED"

	// DECODING_FAILED indicates malformed or truncated calldata, or a selector mismatch.
	DECODING_FAILED ErrorCode = "DECODING_FAILED"

	// FUNCTION_NOT_FOUND indicates that no function of the ABI matched the requested signature or selector.
	FUNCTION_NOT_FOUND ErrorCode = "FUNCTION_NOT_FOUND"
)

// ActionBuilderError is an `error` type carrying an ErrorCode, the offending field (if any) and a human-readable
// message. An optional cause is kept for unwrapping.
type ActionBuilderError struct {
	// Code describes the kind of failure.
	Code ErrorCode

	// Field is the name of the parameter the error relates to. Empty if the error is not field-specific.
	Field string

	// Message is a human-readable description of the failure.
	Message string

	// cause is the underlying error, if any.
	cause error
}

// New creates a new ActionBuilderError with the provided code and message.
func New(code ErrorCode, message string) *ActionBuilderError {
	return &ActionBuilderError{Code: code, Message: message}
}

// Newf creates a new ActionBuilderError with the provided code and a formatted message.
func Newf(code ErrorCode, format string, args ...any) *ActionBuilderError {
	return &ActionBuilderError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new ActionBuilderError with the provided code and message, keeping cause as the underlying error.
// The cause is annotated with a stack trace if it does not carry one yet.
func Wrap(cause error, code ErrorCode, message string) *ActionBuilderError {
	return &ActionBuilderError{Code: code, Message: message, cause: errors.WithStack(cause)}
}

// WithField returns a copy of the error attributed to the provided parameter field.
func (e *ActionBuilderError) WithField(field string) *ActionBuilderError {
	c := *e
	c.Field = field
	return &c
}

// Error returns the error message string, implementing the `error` interface.
func (e *ActionBuilderError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, msg)
	}
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying cause, if any.
func (e *ActionBuilderError) Unwrap() error {
	return e.cause
}

// GetErrorCode returns the ErrorCode of the first ActionBuilderError in err's chain, and whether one was found.
func GetErrorCode(err error) (ErrorCode, bool) {
	var abErr *ActionBuilderError
	if errors.As(err, &abErr) {
		return abErr.Code, true
	}
	return "", false
}

// Is reports whether err carries the provided ErrorCode.
func Is(err error, code ErrorCode) bool {
	c, ok := GetErrorCode(err)
	return ok && c == code
}
