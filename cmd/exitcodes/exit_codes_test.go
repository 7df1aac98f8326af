package exitcodes

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/tokamak-network/dao-action-builder/errorcodes"
)

// TestGetInnerErrorAndExitCode checks the exit code derived from each kind of error.
func TestGetInnerErrorAndExitCode(t *testing.T) {
	err, code := GetInnerErrorAndExitCode(nil)
	assert.NoError(t, err)
	assert.Equal(t, ExitCodeSuccess, code)

	inner := fmt.Errorf("boom")
	err, code = GetInnerErrorAndExitCode(NewErrorWithExitCode(inner, ExitCodeHandledError))
	assert.Equal(t, inner, err)
	assert.Equal(t, ExitCodeHandledError, code)

	_, code = GetInnerErrorAndExitCode(inner)
	assert.Equal(t, ExitCodeGeneralError, code)

	cases := map[errorcodes.ErrorCode]int{
		errorcodes.INVALID_ADDRESS:    ExitCodeInvalidInput,
		errorcodes.INVALID_PARAMETER:  ExitCodeInvalidInput,
		errorcodes.FUNCTION_NOT_FOUND: ExitCodeFunctionNotFound,
		errorcodes.ENCODING_FAILED:    ExitCodeCodecFailure,
		errorcodes.DECODING_FAILED:    ExitCodeCodecFailure,
	}
	for errorCode, expected := range cases {
		wrapped := errors.WithMessage(errorcodes.New(errorCode, "failed"), "context")
		err, code = GetInnerErrorAndExitCode(wrapped)
		assert.Equal(t, wrapped, err)
		assert.Equal(t, expected, code, string(errorCode))
	}
}
