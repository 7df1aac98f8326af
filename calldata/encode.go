package calldata

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/tokamak-network/dao-action-builder/abi"
	"github.com/tokamak-network/dao-action-builder/errorcodes"
	"github.com/tokamak-network/dao-action-builder/utils"
)

// WordSize is the size in bytes of an ABI word.
const WordSize = 32

// EncodeArguments encodes values of the provided types with the ABI head/tail layout, as found in calldata after the
// selector. Values must already be normalized, see the validation package.
func EncodeArguments(types []abi.ParsedType, values []abi.Value) ([]byte, error) {
	if len(types) != len(values) {
		return nil, errorcodes.Newf(errorcodes.ENCODING_FAILED, "expected %d values, got %d", len(types), len(values))
	}
	return encodeSequence(types, values)
}

// encodeSequence lays out values as a head region, holding static encodings and offsets, followed by a tail region
// holding the dynamic encodings in head order. Offsets are measured from the start of the head region.
func encodeSequence(types []abi.ParsedType, values []abi.Value) ([]byte, error) {
	headSize := 0
	for _, t := range types {
		headSize += t.HeadSize()
	}

	head := make([]byte, 0, headSize)
	var tail []byte
	for i, t := range types {
		encoded, err := encodeValue(t, values[i])
		if err != nil {
			return nil, err
		}
		if t.IsDynamic() {
			head = append(head, uintWord(uint64(headSize+len(tail)))...)
			tail = append(tail, encoded...)
		} else {
			head = append(head, encoded...)
		}
	}
	return append(head, tail...), nil
}

// encodeValue encodes a single value. Static values encode to their inline form, dynamic values to the data their
// offset points to.
func encodeValue(t abi.ParsedType, value abi.Value) ([]byte, error) {
	if t.IsArray() {
		return encodeArray(t, value)
	}

	kind, size, err := t.Kind()
	if err != nil {
		return nil, errorcodes.Wrap(err, errorcodes.ENCODING_FAILED, "cannot encode type "+t.String())
	}

	switch kind {
	case abi.AddressKind:
		v, ok := value.(abi.AddressValue)
		if !ok {
			return nil, mismatch(t, value)
		}
		word := make([]byte, WordSize)
		copy(word[WordSize-len(v):], v[:])
		return word, nil
	case abi.BoolKind:
		v, ok := value.(abi.BoolValue)
		if !ok {
			return nil, mismatch(t, value)
		}
		if v {
			return uintWord(1), nil
		}
		return uintWord(0), nil
	case abi.UintKind, abi.IntKind:
		v, ok := value.(abi.IntegerValue)
		if !ok || v.Int == nil {
			return nil, mismatch(t, value)
		}
		return integerWord(v.Int, kind == abi.IntKind, size)
	case abi.FixedBytesKind:
		v, ok := value.(abi.BytesValue)
		if !ok {
			return nil, mismatch(t, value)
		}
		if len(v) != size {
			return nil, errorcodes.Newf(errorcodes.ENCODING_FAILED, "expected %d bytes for %s, got %d", size, t.String(), len(v))
		}
		word := make([]byte, WordSize)
		copy(word, v)
		return word, nil
	case abi.BytesKind:
		v, ok := value.(abi.BytesValue)
		if !ok {
			return nil, mismatch(t, value)
		}
		return encodeDynamicBytes(v), nil
	case abi.StringKind:
		v, ok := value.(abi.StringValue)
		if !ok {
			return nil, mismatch(t, value)
		}
		return encodeDynamicBytes([]byte(v)), nil
	case abi.TupleKind:
		v, ok := value.(abi.TupleValue)
		if !ok {
			return nil, mismatch(t, value)
		}
		keys := t.ComponentKeys()
		ordered := make([]abi.Value, len(keys))
		for i, key := range keys {
			component, exists := v[key]
			if !exists {
				return nil, errorcodes.Newf(errorcodes.ENCODING_FAILED, "missing tuple component %q for %s", key, t.String())
			}
			ordered[i] = component
		}
		return encodeSequence(t.TupleElems, ordered)
	default:
		return nil, errorcodes.Newf(errorcodes.ENCODING_FAILED, "unsupported type %s", t.String())
	}
}

// encodeArray encodes the elements of a fixed or dynamic array as a sequence. Dynamic arrays are prefixed with their
// element count.
func encodeArray(t abi.ParsedType, value abi.Value) ([]byte, error) {
	v, ok := value.(abi.ArrayValue)
	if !ok {
		return nil, mismatch(t, value)
	}

	dim := t.OuterDimension()
	if !dim.Dynamic && len(v) != dim.Size {
		return nil, errorcodes.Newf(errorcodes.ENCODING_FAILED, "expected %d elements for %s, got %d", dim.Size, t.String(), len(v))
	}

	body, err := encodeSequence(repeatType(t.Elem(), len(v)), v)
	if err != nil {
		return nil, err
	}
	if dim.Dynamic {
		return append(uintWord(uint64(len(v))), body...), nil
	}
	return body, nil
}

// encodeDynamicBytes encodes a length word followed by b, right-padded with zeros to a word boundary.
func encodeDynamicBytes(b []byte) []byte {
	encoded := make([]byte, WordSize+utils.RoundUpToMultiple(len(b), WordSize))
	copy(encoded, uintWord(uint64(len(b))))
	copy(encoded[WordSize:], b)
	return encoded
}

// integerWord encodes an integer as a big-endian 32-byte word, using two's complement for negative values. The value
// must fit the provided integer type.
func integerWord(b *big.Int, signed bool, bits int) ([]byte, error) {
	if !utils.IsIntegerInBounds(b, signed, bits) {
		typeName := "uint"
		if signed {
			typeName = "int"
		}
		return nil, errorcodes.Newf(errorcodes.ENCODING_FAILED, "value %s does not fit %s%d", b, typeName, bits)
	}

	word := new(uint256.Int)
	word.SetFromBig(new(big.Int).Abs(b))
	if b.Sign() < 0 {
		word.Neg(word)
	}
	encoded := word.Bytes32()
	return encoded[:], nil
}

// uintWord encodes an unsigned value, such as an offset or a length, as a 32-byte word.
func uintWord(v uint64) []byte {
	encoded := uint256.NewInt(v).Bytes32()
	return encoded[:]
}

// repeatType returns a slice holding count copies of t.
func repeatType(t abi.ParsedType, count int) []abi.ParsedType {
	types := make([]abi.ParsedType, count)
	for i := range types {
		types[i] = t
	}
	return types
}

// mismatch reports a value whose variant does not match the shape of its type.
func mismatch(t abi.ParsedType, value abi.Value) error {
	return errorcodes.Newf(errorcodes.ENCODING_FAILED, "cannot encode %T as %s", value, t.String())
}
