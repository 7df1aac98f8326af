package validation

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/tokamak-network/dao-action-builder/abi"
	"github.com/tokamak-network/dao-action-builder/errorcodes"
	"github.com/tokamak-network/dao-action-builder/utils"
)

// FieldErrors maps parameter keys to the reason their value was rejected.
type FieldErrors map[string]string

// NormalizeParameterValue validates input against t and returns its normalized value, or an error carrying the
// validation failure.
func NormalizeParameterValue(input any, t abi.ParsedType) (abi.Value, error) {
	r := ValidateParameterType(input, t)
	if !r.IsValid {
		return nil, errorcodes.New(r.Code, r.Error)
	}
	return r.NormalizedValue, nil
}

// DenormalizeParameterValue renders a normalized value as text that validates back to the same value: integers in
// decimal, addresses and bytes as lowercase 0x hex, booleans as true/false, strings verbatim, and arrays and tuples
// as JSON.
func DenormalizeParameterValue(v abi.Value) (string, error) {
	switch value := v.(type) {
	case abi.ArrayValue, abi.TupleValue:
		display, err := toDisplay(value)
		if err != nil {
			return "", err
		}
		b, err := json.Marshal(display)
		if err != nil {
			return "", errors.WithStack(err)
		}
		return string(b), nil
	default:
		display, err := toDisplay(value)
		if err != nil {
			return "", err
		}
		return display.(string), nil
	}
}

// toDisplay converts a value to a tree of strings, slices and maps suitable for JSON rendering.
func toDisplay(v abi.Value) (any, error) {
	switch value := v.(type) {
	case abi.AddressValue:
		return utils.AddressToLowerHex(common.Address(value)), nil
	case abi.BoolValue:
		if value {
			return "true", nil
		}
		return "false", nil
	case abi.IntegerValue:
		if value.Int == nil {
			return nil, errorcodes.New(errorcodes.INVALID_PARAMETER, "nil integer value")
		}
		return value.Int.String(), nil
	case abi.BytesValue:
		return "0x" + hex.EncodeToString(value), nil
	case abi.StringValue:
		return string(value), nil
	case abi.ArrayValue:
		elems := make([]any, len(value))
		for i, e := range value {
			d, err := toDisplay(e)
			if err != nil {
				return nil, err
			}
			elems[i] = d
		}
		return elems, nil
	case abi.TupleValue:
		fields := make(map[string]any, len(value))
		for k, e := range value {
			d, err := toDisplay(e)
			if err != nil {
				return nil, err
			}
			fields[k] = d
		}
		return fields, nil
	default:
		return nil, errorcodes.Newf(errorcodes.INVALID_PARAMETER, "unsupported value %T", v)
	}
}

// PrepareParametersForEncoding validates the parameters of fn, keyed by input key, and returns their normalized
// values in declaration order. It stops at the first missing, unknown or invalid parameter and returns an
// INVALID_PARAMETER (or INVALID_ADDRESS) error naming the field. Types that cannot be encoded fail with ENCODING_FAILED.
func PrepareParametersForEncoding[V any](fn abi.Function, params map[string]V) ([]abi.Value, error) {
	keys := fn.InputKeys()
	if unknown := unknownKeys(params, keys); len(unknown) > 0 {
		return nil, errorcodes.Newf(errorcodes.INVALID_PARAMETER, "unknown parameter for %s", fn.Name).WithField(unknown[0])
	}

	values := make([]abi.Value, len(fn.Inputs))
	for i, input := range fn.Inputs {
		t, err := input.ParsedType()
		if err == nil {
			err = t.Check()
		}
		if err != nil {
			return nil, errorcodes.New(errorcodes.ENCODING_FAILED, messageOf(err)).WithField(keys[i])
		}
		value, ok := params[keys[i]]
		if !ok {
			return nil, errorcodes.New(errorcodes.INVALID_PARAMETER, "missing value").WithField(keys[i])
		}
		r := ValidateParameterType(any(value), t)
		if !r.IsValid {
			return nil, r.Err(keys[i])
		}
		values[i] = r.NormalizedValue
	}
	return values, nil
}

// ValidateFunctionParameters validates every parameter of fn and collects the failures per field, so that all
// invalid fields can be reported at once. Returns nil if every parameter is valid.
func ValidateFunctionParameters[V any](fn abi.Function, params map[string]V) FieldErrors {
	fieldErrors := make(FieldErrors)
	keys := fn.InputKeys()
	for _, key := range unknownKeys(params, keys) {
		fieldErrors[key] = "unknown parameter"
	}

	for i, input := range fn.Inputs {
		t, err := input.ParsedType()
		if err != nil {
			fieldErrors[keys[i]] = messageOf(err)
			continue
		}
		value, ok := params[keys[i]]
		if !ok {
			fieldErrors[keys[i]] = "missing value"
			continue
		}
		if r := ValidateParameterType(any(value), t); !r.IsValid {
			fieldErrors[keys[i]] = r.Error
		}
	}

	if len(fieldErrors) == 0 {
		return nil
	}
	return fieldErrors
}

// GetParameterTypeErrorMessage returns a hint describing the input expected for the provided type string.
func GetParameterTypeErrorMessage(typeString string) string {
	t, err := abi.ParseType(typeString, nil)
	if err != nil {
		return fmt.Sprintf("Unsupported type %q", typeString)
	}
	if t.IsArray() {
		dim := t.OuterDimension()
		if dim.Dynamic {
			return fmt.Sprintf("Expected a JSON array of %s values, e.g. [a, b]", t.Elem().String())
		}
		return fmt.Sprintf("Expected a JSON array of exactly %d %s values", dim.Size, t.Elem().String())
	}

	kind, size, err := t.Kind()
	if err != nil {
		return fmt.Sprintf("Unsupported type %q", typeString)
	}
	switch kind {
	case abi.AddressKind:
		return "Expected an address: 0x followed by 40 hex characters"
	case abi.BoolKind:
		return "Expected true or false"
	case abi.UintKind:
		_, max := utils.GetIntegerConstraints(false, size)
		return fmt.Sprintf("Expected an unsigned integer between 0 and %s", max)
	case abi.IntKind:
		min, max := utils.GetIntegerConstraints(true, size)
		return fmt.Sprintf("Expected an integer between %s and %s", min, max)
	case abi.FixedBytesKind:
		return fmt.Sprintf("Expected %d bytes of hex: 0x followed by %d hex characters", size, 2*size)
	case abi.BytesKind:
		return "Expected hex bytes: 0x followed by an even number of hex characters"
	case abi.StringKind:
		return "Expected text"
	case abi.TupleKind:
		return fmt.Sprintf("Expected a JSON object with the fields %s", strings.Join(t.ComponentKeys(), ", "))
	default:
		return fmt.Sprintf("Unsupported type %q", typeString)
	}
}
