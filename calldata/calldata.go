package calldata

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/tokamak-network/dao-action-builder/abi"
	"github.com/tokamak-network/dao-action-builder/errorcodes"
	"github.com/tokamak-network/dao-action-builder/logging"
	"github.com/tokamak-network/dao-action-builder/validation"
)

// EncodeResult describes the calldata produced for a function call.
type EncodeResult struct {
	// Calldata is the 0x-prefixed hex of the selector followed by the encoded arguments.
	Calldata string

	// FunctionSignature is the canonical signature of the encoded function.
	FunctionSignature string

	// FunctionName is the name of the encoded function.
	FunctionName string

	// Function is the ABI entry that was encoded.
	Function abi.Function
}

// DecodeResult describes a function call recovered from calldata.
type DecodeResult struct {
	// FunctionName is the name of the decoded function.
	FunctionName string

	// FunctionSignature is the canonical signature of the decoded function.
	FunctionSignature string

	// Parameters maps parameter keys to decoded values.
	Parameters map[string]abi.Value

	// ParameterNames lists the parameter keys in declaration order.
	ParameterNames []string

	// ParameterTypes lists the canonical parameter types in declaration order.
	ParameterTypes []string

	// Values lists the decoded values in declaration order.
	Values []abi.Value
}

// logger returns the sub-logger of the calldata package.
func logger() *logging.Logger {
	return logging.GlobalLogger.NewSubLogger("module", logging.CALLDATA_SERVICE)
}

// EncodeCalldata encodes a call to the function of functions matching functionSignature, with parameters given as
// text keyed by parameter name (param<i> for unnamed parameters). Arrays and tuples are given as JSON literals.
//
// Fails with FUNCTION_NOT_FOUND if no function matches, INVALID_PARAMETER (or INVALID_ADDRESS) naming the first
// invalid field, or ENCODING_FAILED.
func EncodeCalldata(functions abi.ABI, functionSignature string, params map[string]string) (*EncodeResult, error) {
	fn, err := abi.FindFunctionBySignature(functions, functionSignature)
	if err != nil {
		return nil, err
	}
	return encodeParams(*fn, params)
}

// EncodeCalldataWithValues is EncodeCalldata for parameters given as values rather than text: any input accepted by
// validation.ValidateParameterType, including abi.Value.
func EncodeCalldataWithValues(functions abi.ABI, functionSignature string, params map[string]any) (*EncodeResult, error) {
	fn, err := abi.FindFunctionBySignature(functions, functionSignature)
	if err != nil {
		return nil, err
	}
	return encodeParams(*fn, params)
}

// EncodeCalldataByName is EncodeCalldata for a function given by name. Overloads are told apart by the parameter keys
// supplied; if none or several match, it fails with FUNCTION_NOT_FOUND.
func EncodeCalldataByName(functions abi.ABI, name string, params map[string]string) (*EncodeResult, error) {
	candidates := abi.FindFunctionsByName(functions, name)
	if len(candidates) == 0 {
		return nil, errorcodes.Newf(errorcodes.FUNCTION_NOT_FOUND, "function %q not found in ABI", name)
	}
	if len(candidates) == 1 {
		return encodeParams(candidates[0], params)
	}

	var matches []abi.Function
	for _, candidate := range candidates {
		if sameKeys(candidate.InputKeys(), params) {
			matches = append(matches, candidate)
		}
	}
	if len(matches) != 1 {
		return nil, errorcodes.Newf(errorcodes.FUNCTION_NOT_FOUND, "function %q is overloaded and the parameters match %d overloads", name, len(matches))
	}
	return encodeParams(matches[0], params)
}

// EncodeFunctionCall returns the selector of fn followed by the encoding of values.
func EncodeFunctionCall(fn abi.Function, values []abi.Value) ([]byte, error) {
	signature, err := abi.FunctionSignature(fn)
	if err != nil {
		return nil, errorcodes.Wrap(err, errorcodes.ENCODING_FAILED, "invalid function "+fn.Name)
	}
	types, err := fn.InputTypes()
	if err != nil {
		return nil, errorcodes.Wrap(err, errorcodes.ENCODING_FAILED, "invalid function "+fn.Name)
	}

	body, err := EncodeArguments(types, values)
	if err != nil {
		return nil, err
	}
	selector := abi.Selector(signature)
	return append(selector[:], body...), nil
}

// encodeParams validates params against fn and encodes the call.
func encodeParams[V any](fn abi.Function, params map[string]V) (*EncodeResult, error) {
	signature, err := abi.FunctionSignature(fn)
	if err != nil {
		return nil, errorcodes.Wrap(err, errorcodes.ENCODING_FAILED, "invalid function "+fn.Name)
	}

	values, err := validation.PrepareParametersForEncoding(fn, params)
	if err != nil {
		logger().Debug("Rejected parameters for ", signature, err)
		return nil, err
	}

	encoded, err := EncodeFunctionCall(fn, values)
	if err != nil {
		logger().Error("Failed to encode ", signature, err)
		return nil, err
	}

	logger().Debug("Encoded ", signature, logging.StructuredLogInfo{"bytes": len(encoded)})
	return &EncodeResult{
		Calldata:          hexutil.Encode(encoded),
		FunctionSignature: signature,
		FunctionName:      fn.Name,
		Function:          fn,
	}, nil
}

// DecodeCalldata decodes calldata given as 0x-prefixed hex, resolving the function by its selector.
//
// Fails with FUNCTION_NOT_FOUND if no function of the ABI has the selector, or DECODING_FAILED for malformed or
// truncated calldata.
func DecodeCalldata(calldataHex string, functions abi.ABI) (*DecodeResult, error) {
	data, err := decodeHex(calldataHex)
	if err != nil {
		return nil, err
	}

	var selector [abi.SelectorLength]byte
	copy(selector[:], data)
	fn, err := abi.FindFunctionBySelector(functions, selector)
	if err != nil {
		return nil, err
	}
	return decodeFunctionCall(*fn, data)
}

// DecodeCalldataBySignature decodes calldata against the function of functions matching functionSignature. A
// selector that does not match the function fails with DECODING_FAILED.
func DecodeCalldataBySignature(calldataHex string, functions abi.ABI, functionSignature string) (*DecodeResult, error) {
	fn, err := abi.FindFunctionBySignature(functions, functionSignature)
	if err != nil {
		return nil, err
	}
	data, err := decodeHex(calldataHex)
	if err != nil {
		return nil, err
	}
	return decodeFunctionCall(*fn, data)
}

// TryDecodeCalldata is DecodeCalldata reporting failure as a boolean.
func TryDecodeCalldata(calldataHex string, functions abi.ABI) (*DecodeResult, bool) {
	result, err := DecodeCalldata(calldataHex, functions)
	if err != nil {
		logger().Debug("Could not decode calldata", err)
		return nil, false
	}
	return result, true
}

// FormatDecodedParameters renders every decoded parameter as display text, see
// validation.DenormalizeParameterValue.
func FormatDecodedParameters(result *DecodeResult) (map[string]string, error) {
	formatted := make(map[string]string, len(result.Parameters))
	for key, value := range result.Parameters {
		text, err := validation.DenormalizeParameterValue(value)
		if err != nil {
			return nil, err
		}
		formatted[key] = text
	}
	return formatted, nil
}

// decodeHex converts calldata hex to bytes, requiring the 0x prefix, an even number of digits and a full selector.
func decodeHex(calldataHex string) ([]byte, error) {
	data, err := hexutil.Decode(calldataHex)
	if err != nil {
		return nil, errorcodes.Wrap(err, errorcodes.DECODING_FAILED, "invalid calldata hex")
	}
	if len(data) < abi.SelectorLength {
		return nil, errorcodes.Newf(errorcodes.DECODING_FAILED, "calldata of %d bytes is shorter than a selector", len(data))
	}
	return data, nil
}

// decodeFunctionCall checks the selector of data against fn and decodes the arguments.
func decodeFunctionCall(fn abi.Function, data []byte) (*DecodeResult, error) {
	signature, err := abi.FunctionSignature(fn)
	if err != nil {
		return nil, errorcodes.Wrap(err, errorcodes.DECODING_FAILED, "invalid function "+fn.Name)
	}
	selector := abi.Selector(signature)
	if string(selector[:]) != string(data[:abi.SelectorLength]) {
		return nil, errorcodes.Newf(errorcodes.DECODING_FAILED, "selector 0x%x does not match %s", data[:abi.SelectorLength], signature)
	}

	body := data[abi.SelectorLength:]
	if len(body)%WordSize != 0 {
		return nil, errorcodes.Newf(errorcodes.DECODING_FAILED, "argument data of %d bytes is not a multiple of %d", len(body), WordSize)
	}

	types, err := fn.InputTypes()
	if err != nil {
		return nil, errorcodes.Wrap(err, errorcodes.DECODING_FAILED, "invalid function "+fn.Name)
	}
	values, err := DecodeArguments(types, body)
	if err != nil {
		logger().Debug("Failed to decode arguments of ", signature, err)
		return nil, err
	}

	result := &DecodeResult{
		FunctionName:      fn.Name,
		FunctionSignature: signature,
		Parameters:        make(map[string]abi.Value, len(values)),
		ParameterNames:    fn.InputKeys(),
		ParameterTypes:    make([]string, len(types)),
		Values:            values,
	}
	for i, t := range types {
		result.Parameters[result.ParameterNames[i]] = values[i]
		result.ParameterTypes[i] = t.String()
	}
	return result, nil
}

// sameKeys reports whether params has exactly the provided keys.
func sameKeys[V any](keys []string, params map[string]V) bool {
	if len(keys) != len(params) {
		return false
	}
	for _, key := range keys {
		if _, ok := params[key]; !ok {
			return false
		}
	}
	return true
}
