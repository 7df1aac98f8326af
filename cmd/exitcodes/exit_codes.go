package exitcodes

import "github.com/tokamak-network/dao-action-builder/errorcodes"

const (
	// ================================
	// Platform-universal exit codes
	// ================================

	// ExitCodeSuccess indicates no errors or failures had occurred.
	ExitCodeSuccess = 0

	// ExitCodeGeneralError indicates some type of general error occurred.
	ExitCodeGeneralError = 1

	// ================================
	// Application-specific exit codes
	// ================================
	// Note: Despite not being standardized, exit codes 2-5 are often used for common use cases, so we avoid them.

	// ExitCodeHandledError indicates that there was an error that was logged already and does not need to be handled
	// by main.
	ExitCodeHandledError = 6

	// ExitCodeInvalidInput indicates an invalid address or parameter was provided.
	ExitCodeInvalidInput = 7

	// ExitCodeFunctionNotFound indicates the requested function is not part of the ABI.
	ExitCodeFunctionNotFound = 8

	// ExitCodeCodecFailure indicates calldata could not be encoded or decoded.
	ExitCodeCodecFailure = 9
)

// ExitCodeForErrorCode maps a domain error code to the exit code reported for it.
func ExitCodeForErrorCode(code errorcodes.ErrorCode) int {
	switch code {
	case errorcodes.INVALID_ADDRESS, errorcodes.INVALID_PARAMETER:
		return ExitCodeInvalidInput
	case errorcodes.FUNCTION_NOT_FOUND:
		return ExitCodeFunctionNotFound
	case errorcodes.ENCODING_FAILED, errorcodes.DECODING_FAILED:
		return ExitCodeCodecFailure
	default:
		return ExitCodeGeneralError
	}
}
