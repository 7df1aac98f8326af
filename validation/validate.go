package validation

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/tokamak-network/dao-action-builder/abi"
	"github.com/tokamak-network/dao-action-builder/errorcodes"
	"github.com/tokamak-network/dao-action-builder/utils"
)

// Result describes the outcome of validating a single value against a type.
type Result struct {
	// IsValid indicates whether the value conforms to the type.
	IsValid bool

	// Code is the kind of failure. Empty when the value is valid.
	Code errorcodes.ErrorCode

	// Error is a human-readable reason the value was rejected. Empty when the value is valid.
	Error string

	// NormalizedValue is the canonical form of the value. Nil when the value is invalid.
	NormalizedValue abi.Value
}

// valid wraps a normalized value in a successful Result.
func valid(v abi.Value) Result {
	return Result{IsValid: true, NormalizedValue: v}
}

// invalid creates a failed Result.
func invalid(code errorcodes.ErrorCode, format string, args ...any) Result {
	return Result{Code: code, Error: fmt.Sprintf(format, args...)}
}

// Err converts a failed Result into an error attributed to field. Returns nil for a valid Result.
func (r Result) Err(field string) error {
	if r.IsValid {
		return nil
	}
	return errorcodes.New(r.Code, r.Error).WithField(field)
}

// ValidateParameterType checks input against the provided type and normalizes it. input may be a string, a bool, an
// integer (*big.Int, int, int64, uint64 or json.Number), a []any, a map[string]any, or an abi.Value. Arrays and
// tuples may also be given as literal text, see ParseLiteral.
func ValidateParameterType(input any, t abi.ParsedType) Result {
	if t.IsArray() {
		return ValidateArray(input, t)
	}

	kind, size, err := t.Kind()
	if err != nil {
		return invalid(errorcodes.ENCODING_FAILED, "%s", messageOf(err))
	}

	switch kind {
	case abi.AddressKind:
		return ValidateAddress(input)
	case abi.BoolKind:
		return ValidateBool(input)
	case abi.UintKind:
		return ValidateUint(input, size)
	case abi.IntKind:
		return ValidateInt(input, size)
	case abi.FixedBytesKind:
		return ValidateBytes(input, size)
	case abi.BytesKind:
		return ValidateBytes(input, 0)
	case abi.StringKind:
		return ValidateString(input)
	case abi.TupleKind:
		return ValidateTuple(input, t)
	default:
		return invalid(errorcodes.INVALID_PARAMETER, "unsupported type %q", t.String())
	}
}

// ValidateAddress accepts exactly 40 hex digits with an optional 0x prefix, in any casing.
func ValidateAddress(input any) Result {
	switch v := input.(type) {
	case string:
		address, err := utils.HexStringToAddress(v)
		if err != nil {
			return invalid(errorcodes.INVALID_ADDRESS, "invalid address %q: %v", v, err)
		}
		return valid(abi.AddressValue(*address))
	case abi.AddressValue:
		return valid(v)
	case common.Address:
		return valid(abi.AddressValue(v))
	default:
		return invalid(errorcodes.INVALID_ADDRESS, "expected an address, got %T", input)
	}
}

// ValidateBool accepts a boolean or the text true/false in any casing.
func ValidateBool(input any) Result {
	switch v := input.(type) {
	case bool:
		return valid(abi.BoolValue(v))
	case abi.BoolValue:
		return valid(v)
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true":
			return valid(abi.BoolValue(true))
		case "false":
			return valid(abi.BoolValue(false))
		}
		return invalid(errorcodes.INVALID_PARAMETER, "expected true or false, got %q", v)
	default:
		return invalid(errorcodes.INVALID_PARAMETER, "expected a boolean, got %T", input)
	}
}

// ValidateUint accepts an unsigned integer in the range [0, 2^bits - 1].
func ValidateUint(input any, bits int) Result {
	return validateInteger(input, false, bits)
}

// ValidateInt accepts a signed integer in the range [-2^(bits-1), 2^(bits-1) - 1].
func ValidateInt(input any, bits int) Result {
	return validateInteger(input, true, bits)
}

// validateInteger parses input and checks it against the bounds of the provided integer type.
func validateInteger(input any, signed bool, bits int) Result {
	typeName := fmt.Sprintf("uint%d", bits)
	if signed {
		typeName = fmt.Sprintf("int%d", bits)
	}

	b, err := toBigInt(input)
	if err != nil {
		return invalid(errorcodes.INVALID_PARAMETER, "invalid %s: %v", typeName, err)
	}
	if !utils.IsIntegerInBounds(b, signed, bits) {
		min, max := utils.GetIntegerConstraints(signed, bits)
		return invalid(errorcodes.INVALID_PARAMETER, "%s out of range [%s, %s]: %s", typeName, min, max, b)
	}
	return valid(abi.IntegerValue{Int: b})
}

// toBigInt converts the supported integer representations to a fresh *big.Int.
func toBigInt(input any) (*big.Int, error) {
	switch v := input.(type) {
	case string:
		return ParseInteger(v)
	case json.Number:
		return ParseInteger(v.String())
	case *big.Int:
		if v == nil {
			return nil, fmt.Errorf("nil integer")
		}
		return new(big.Int).Set(v), nil
	case abi.IntegerValue:
		if v.Int == nil {
			return nil, fmt.Errorf("nil integer")
		}
		return new(big.Int).Set(v.Int), nil
	case int:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	default:
		return nil, fmt.Errorf("expected an integer, got %T", input)
	}
}

// maxDecimalExponent bounds exponent notation before the value is expanded to an integer.
const maxDecimalExponent = 100

// ParseInteger parses integer text: decimal, optionally in exponent notation (1e18), or 0x-prefixed hex. The value
// must be integral.
func ParseInteger(text string) (*big.Int, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil, fmt.Errorf("empty value")
	}

	negative := false
	unsigned := s
	if strings.HasPrefix(unsigned, "-") {
		negative, unsigned = true, unsigned[1:]
	}
	if digits := utils.TrimHexPrefix(unsigned); len(digits) != len(unsigned) {
		if digits == "" || !utils.IsHexString(digits) {
			return nil, fmt.Errorf("invalid hex integer %q", text)
		}
		b, _ := new(big.Int).SetString(digits, 16)
		if negative {
			b.Neg(b)
		}
		return b, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", text)
	}
	if !d.IsInteger() {
		return nil, fmt.Errorf("not an integer: %q", text)
	}
	// No 256-bit value needs more digits than this
	if d.Exponent() > maxDecimalExponent && !d.IsZero() {
		return nil, fmt.Errorf("value too large: %q", text)
	}
	return d.BigInt(), nil
}

// ValidateBytes accepts hex text with an optional 0x prefix and an even number of digits. A size of zero checks a
// dynamic bytes value, otherwise exactly size bytes are required.
func ValidateBytes(input any, size int) Result {
	var b []byte
	switch v := input.(type) {
	case string:
		digits := utils.TrimHexPrefix(strings.TrimSpace(v))
		if !utils.IsHexString(digits) {
			return invalid(errorcodes.INVALID_PARAMETER, "invalid hex %q", v)
		}
		if len(digits)%2 != 0 {
			return invalid(errorcodes.INVALID_PARAMETER, "hex %q has an odd number of digits", v)
		}
		b, _ = hex.DecodeString(digits)
	case []byte:
		b = append([]byte{}, v...)
	case abi.BytesValue:
		b = append([]byte{}, v...)
	default:
		return invalid(errorcodes.INVALID_PARAMETER, "expected hex bytes, got %T", input)
	}

	if size > 0 && len(b) != size {
		return invalid(errorcodes.INVALID_PARAMETER, "expected %d bytes, got %d", size, len(b))
	}
	return valid(abi.BytesValue(b))
}

// ValidateString accepts any text.
func ValidateString(input any) Result {
	switch v := input.(type) {
	case string:
		return valid(abi.StringValue(v))
	case abi.StringValue:
		return valid(v)
	case json.Number:
		return valid(abi.StringValue(v.String()))
	default:
		return invalid(errorcodes.INVALID_PARAMETER, "expected a string, got %T", input)
	}
}

// ValidateArray checks a fixed or dynamic array. Every element is validated against the element type, and the first
// invalid element invalidates the array.
func ValidateArray(input any, t abi.ParsedType) Result {
	if !t.IsArray() {
		return invalid(errorcodes.INVALID_PARAMETER, "type %s is not an array", t.String())
	}

	var elems []any
	switch v := input.(type) {
	case string:
		parsed, err := ParseLiteral(v)
		if err != nil {
			return invalid(errorcodes.INVALID_PARAMETER, "expected an array for %s: %v", t.String(), err)
		}
		list, ok := parsed.([]any)
		if !ok {
			return invalid(errorcodes.INVALID_PARAMETER, "expected an array for %s", t.String())
		}
		elems = list
	case []any:
		elems = v
	case []string:
		elems = make([]any, len(v))
		for i, s := range v {
			elems[i] = s
		}
	case abi.ArrayValue:
		elems = make([]any, len(v))
		for i, e := range v {
			elems[i] = e
		}
	default:
		return invalid(errorcodes.INVALID_PARAMETER, "expected an array for %s, got %T", t.String(), input)
	}

	dim := t.OuterDimension()
	if !dim.Dynamic && len(elems) != dim.Size {
		return invalid(errorcodes.INVALID_PARAMETER, "expected %d elements for %s, got %d", dim.Size, t.String(), len(elems))
	}

	elemType := t.Elem()
	normalized := make(abi.ArrayValue, len(elems))
	for i, elem := range elems {
		r := ValidateParameterType(elem, elemType)
		if !r.IsValid {
			return Result{Code: r.Code, Error: fmt.Sprintf("element %d: %s", i, r.Error)}
		}
		normalized[i] = r.NormalizedValue
	}
	return valid(normalized)
}

// ValidateTuple checks a tuple given as a mapping of component keys to values. Missing and unknown keys are both
// rejected.
func ValidateTuple(input any, t abi.ParsedType) Result {
	if !t.IsTuple() || t.IsArray() {
		return invalid(errorcodes.INVALID_PARAMETER, "type %s is not a tuple", t.String())
	}

	var fields map[string]any
	switch v := input.(type) {
	case string:
		parsed, err := ParseLiteral(v)
		if err != nil {
			return invalid(errorcodes.INVALID_PARAMETER, "expected an object for %s: %v", t.String(), err)
		}
		m, ok := parsed.(map[string]any)
		if !ok {
			return invalid(errorcodes.INVALID_PARAMETER, "expected an object for %s", t.String())
		}
		fields = m
	case map[string]any:
		fields = v
	case map[string]string:
		fields = make(map[string]any, len(v))
		for k, s := range v {
			fields[k] = s
		}
	case abi.TupleValue:
		fields = make(map[string]any, len(v))
		for k, e := range v {
			fields[k] = e
		}
	default:
		return invalid(errorcodes.INVALID_PARAMETER, "expected an object for %s, got %T", t.String(), input)
	}

	keys := t.ComponentKeys()
	if unknown := unknownKeys(fields, keys); len(unknown) > 0 {
		return invalid(errorcodes.INVALID_PARAMETER, "unknown field %q for %s", unknown[0], t.String())
	}

	normalized := make(abi.TupleValue, len(keys))
	for i, key := range keys {
		value, ok := fields[key]
		if !ok {
			return invalid(errorcodes.INVALID_PARAMETER, "missing field %q for %s", key, t.String())
		}
		r := ValidateParameterType(value, t.TupleElems[i])
		if !r.IsValid {
			return Result{Code: r.Code, Error: fmt.Sprintf("field %s: %s", key, r.Error)}
		}
		normalized[key] = r.NormalizedValue
	}
	return valid(normalized)
}

// messageOf returns the message of an ActionBuilderError without its code prefix, or the error text otherwise.
func messageOf(err error) string {
	var abErr *errorcodes.ActionBuilderError
	if errors.As(err, &abErr) {
		return abErr.Message
	}
	return err.Error()
}

// unknownKeys returns the sorted keys of m which are not in allowed.
func unknownKeys[V any](m map[string]V, allowed []string) []string {
	known := make(map[string]struct{}, len(allowed))
	for _, k := range allowed {
		known[k] = struct{}{}
	}
	var unknown []string
	for k := range m {
		if _, ok := known[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	return unknown
}
