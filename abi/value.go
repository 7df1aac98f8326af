package abi

import (
	"bytes"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tokamak-network/dao-action-builder/errorcodes"
)

// Value is a normalized parameter value. It is implemented only by the types of this package: AddressValue,
// BoolValue, IntegerValue, BytesValue, StringValue, ArrayValue and TupleValue. Code switching over a Value should
// handle each of them and fail explicitly on anything else.
type Value interface {
	isValue()
}

// AddressValue is a 20-byte account address.
type AddressValue common.Address

// BoolValue is a boolean.
type BoolValue bool

// IntegerValue is a signed or unsigned integer of any width.
type IntegerValue struct {
	Int *big.Int
}

// BytesValue holds the raw bytes of a bytes or bytesN value.
type BytesValue []byte

// StringValue is a UTF-8 string.
type StringValue string

// ArrayValue holds the elements of a fixed or dynamic array, in order.
type ArrayValue []Value

// TupleValue maps component keys to component values.
type TupleValue map[string]Value

func (AddressValue) isValue() {}
func (BoolValue) isValue()    {}
func (IntegerValue) isValue() {}
func (BytesValue) isValue()   {}
func (StringValue) isValue()  {}
func (ArrayValue) isValue()   {}
func (TupleValue) isValue()   {}

// NewIntegerValue wraps a copy of b.
func NewIntegerValue(b *big.Int) IntegerValue {
	return IntegerValue{Int: new(big.Int).Set(b)}
}

// ValuesEqual compares two values structurally. Integers are compared by numeric value.
func ValuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case AddressValue:
		bv, ok := b.(AddressValue)
		return ok && av == bv
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av == bv
	case IntegerValue:
		bv, ok := b.(IntegerValue)
		return ok && av.Int != nil && bv.Int != nil && av.Int.Cmp(bv.Int) == 0
	case BytesValue:
		bv, ok := b.(BytesValue)
		return ok && bytes.Equal(av, bv)
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && av == bv
	case ArrayValue:
		bv, ok := b.(ArrayValue)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !ValuesEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case TupleValue:
		bv, ok := b.(TupleValue)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			other, exists := bv[k]
			if !exists || !ValuesEqual(v, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// ZeroValue returns the zero value of a type: zero integers and addresses, false, empty bytes and strings, empty
// dynamic arrays, fixed arrays of zero values and tuples of zero components.
func ZeroValue(t ParsedType) (Value, error) {
	if t.IsArray() {
		dim := t.OuterDimension()
		if dim.Dynamic {
			return ArrayValue{}, nil
		}
		elems := make(ArrayValue, dim.Size)
		for i := range elems {
			elem, err := ZeroValue(t.Elem())
			if err != nil {
				return nil, err
			}
			elems[i] = elem
		}
		return elems, nil
	}

	kind, size, err := t.Kind()
	if err != nil {
		return nil, err
	}
	switch kind {
	case AddressKind:
		return AddressValue{}, nil
	case BoolKind:
		return BoolValue(false), nil
	case UintKind, IntKind:
		return IntegerValue{Int: new(big.Int)}, nil
	case FixedBytesKind:
		return BytesValue(make([]byte, size)), nil
	case BytesKind:
		return BytesValue{}, nil
	case StringKind:
		return StringValue(""), nil
	case TupleKind:
		tuple := make(TupleValue, len(t.TupleElems))
		keys := t.ComponentKeys()
		for i, elem := range t.TupleElems {
			v, err := ZeroValue(elem)
			if err != nil {
				return nil, err
			}
			tuple[keys[i]] = v
		}
		return tuple, nil
	default:
		return nil, errorcodes.Newf(errorcodes.INVALID_PARAMETER, "unsupported type %q", t.String())
	}
}
