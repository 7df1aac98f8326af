package calldata

import (
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/tokamak-network/dao-action-builder/abi"
	"github.com/tokamak-network/dao-action-builder/errorcodes"
	"github.com/tokamak-network/dao-action-builder/utils"
)

// decodeBudgetPerWord bounds the values and copied words a decode may produce per word of input. Sibling offsets may
// point at the same data.
const decodeBudgetPerWord = 32

// decoder decodes a single body, tracking the work left before it gives up.
type decoder struct {
	budget int
}

// spend consumes n units of the budget, failing once it is exhausted.
func (d *decoder) spend(n int) error {
	d.budget -= n
	if d.budget < 0 {
		return errorcodes.New(errorcodes.DECODING_FAILED, "calldata expands to more values than its size allows")
	}
	return nil
}

// DecodeArguments decodes a head/tail encoded body into values of the provided types. It is the inverse of
// EncodeArguments. Every offset and length is checked against the data, and non-canonical words (dirty padding,
// booleans other than 0/1, integers out of the range of their type) are rejected. The amount of decoded output is
// bounded by the size of data. No partial result is returned.
func DecodeArguments(types []abi.ParsedType, data []byte) ([]abi.Value, error) {
	d := &decoder{budget: decodeBudgetPerWord * (len(data)/WordSize + 1)}
	return d.decodeSequence(types, data)
}

// decodeSequence decodes values laid out head/tail at the start of region. Offsets are relative to region.
func (d *decoder) decodeSequence(types []abi.ParsedType, region []byte) ([]abi.Value, error) {
	values := make([]abi.Value, len(types))
	headOffset := 0
	for i, t := range types {
		if !t.IsDynamic() {
			if headOffset > len(region) {
				return nil, outOfBounds(headOffset, len(region))
			}
			value, err := d.decodeValue(t, region[headOffset:])
			if err != nil {
				return nil, err
			}
			values[i] = value
			headOffset += t.HeadSize()
			continue
		}

		offset, err := readLength(region, headOffset)
		if err != nil {
			return nil, err
		}
		if offset > len(region) {
			return nil, errorcodes.Newf(errorcodes.DECODING_FAILED, "offset %d of %s points outside of %d bytes", offset, t.String(), len(region))
		}
		value, err := d.decodeValue(t, region[offset:])
		if err != nil {
			return nil, err
		}
		values[i] = value
		headOffset += WordSize
	}
	return values, nil
}

// decodeValue decodes a single value at the start of data.
func (d *decoder) decodeValue(t abi.ParsedType, data []byte) (abi.Value, error) {
	if err := d.spend(1); err != nil {
		return nil, err
	}
	if t.IsArray() {
		return d.decodeArray(t, data)
	}

	kind, size, err := t.Kind()
	if err != nil {
		return nil, errorcodes.Wrap(err, errorcodes.DECODING_FAILED, "cannot decode type "+t.String())
	}

	switch kind {
	case abi.TupleKind:
		values, err := d.decodeSequence(t.TupleElems, data)
		if err != nil {
			return nil, err
		}
		tuple := make(abi.TupleValue, len(values))
		for i, key := range t.ComponentKeys() {
			tuple[key] = values[i]
		}
		return tuple, nil
	case abi.BytesKind, abi.StringKind:
		b, err := d.readDynamicBytes(data)
		if err != nil {
			return nil, err
		}
		if kind == abi.StringKind {
			return abi.StringValue(b), nil
		}
		return abi.BytesValue(b), nil
	}

	word, err := readWord(data, 0)
	if err != nil {
		return nil, err
	}
	switch kind {
	case abi.AddressKind:
		if !isZero(word[:WordSize-common.AddressLength]) {
			return nil, errorcodes.New(errorcodes.DECODING_FAILED, "address has non-zero padding")
		}
		return abi.AddressValue(common.BytesToAddress(word)), nil
	case abi.BoolKind:
		if !isZero(word[:WordSize-1]) || word[WordSize-1] > 1 {
			return nil, errorcodes.New(errorcodes.DECODING_FAILED, "bool is neither 0 nor 1")
		}
		return abi.BoolValue(word[WordSize-1] == 1), nil
	case abi.UintKind, abi.IntKind:
		b := wordToBig(word, kind == abi.IntKind)
		if !utils.IsIntegerInBounds(b, kind == abi.IntKind, size) {
			return nil, errorcodes.Newf(errorcodes.DECODING_FAILED, "value does not fit %s", t.String())
		}
		return abi.IntegerValue{Int: b}, nil
	case abi.FixedBytesKind:
		if !isZero(word[size:]) {
			return nil, errorcodes.Newf(errorcodes.DECODING_FAILED, "%s has non-zero padding", t.String())
		}
		return abi.BytesValue(append([]byte{}, word[:size]...)), nil
	default:
		return nil, errorcodes.Newf(errorcodes.DECODING_FAILED, "unsupported type %s", t.String())
	}
}

// decodeArray decodes a fixed array in place, or a dynamic array from its count word followed by its elements.
func (d *decoder) decodeArray(t abi.ParsedType, data []byte) (abi.Value, error) {
	dim := t.OuterDimension()
	count, body := dim.Size, data
	if dim.Dynamic {
		var err error
		count, err = readLength(data, 0)
		if err != nil {
			return nil, err
		}
		body = data[WordSize:]
	}

	// Every element takes at least one word of head, so the count can be checked before allocating.
	if count > len(body)/WordSize {
		return nil, errorcodes.Newf(errorcodes.DECODING_FAILED, "%d elements of %s do not fit in %d bytes", count, t.String(), len(body))
	}
	if err := d.spend(count); err != nil {
		return nil, err
	}

	values, err := d.decodeSequence(repeatType(t.Elem(), count), body)
	if err != nil {
		return nil, err
	}
	return abi.ArrayValue(values), nil
}

// readDynamicBytes reads a length word followed by that many bytes, zero-padded to a word boundary.
func (d *decoder) readDynamicBytes(data []byte) ([]byte, error) {
	length, err := readLength(data, 0)
	if err != nil {
		return nil, err
	}
	padded := utils.RoundUpToMultiple(length, WordSize)
	if padded > len(data)-WordSize {
		return nil, errorcodes.Newf(errorcodes.DECODING_FAILED, "%d bytes of data exceed the %d available", length, len(data)-WordSize)
	}
	if err := d.spend(padded / WordSize); err != nil {
		return nil, err
	}
	content := data[WordSize : WordSize+padded]
	if !isZero(content[length:]) {
		return nil, errorcodes.New(errorcodes.DECODING_FAILED, "dynamic bytes have non-zero padding")
	}
	return append([]byte{}, content[:length]...), nil
}

// readWord returns the 32-byte word at offset of data.
func readWord(data []byte, offset int) ([]byte, error) {
	if offset < 0 || offset > len(data)-WordSize {
		return nil, outOfBounds(offset, len(data))
	}
	return data[offset : offset+WordSize], nil
}

// readLength reads the word at offset as an offset or a length. Values which cannot index a Go slice are rejected.
func readLength(data []byte, offset int) (int, error) {
	word, err := readWord(data, offset)
	if err != nil {
		return 0, err
	}
	var v uint256.Int
	v.SetBytes32(word)
	if !v.IsUint64() || v.Uint64() > math.MaxInt32 {
		return 0, errorcodes.Newf(errorcodes.DECODING_FAILED, "length or offset 0x%s is too large", v.Hex()[2:])
	}
	return int(v.Uint64()), nil
}

// wordToBig converts a word to an integer, interpreting it as two's complement if signed.
func wordToBig(word []byte, signed bool) *big.Int {
	var v uint256.Int
	v.SetBytes32(word)
	if signed && v.Sign() < 0 {
		v.Neg(&v)
		return new(big.Int).Neg(v.ToBig())
	}
	return v.ToBig()
}

// isZero reports whether every byte of b is zero.
func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

// outOfBounds reports a read past the end of the data.
func outOfBounds(offset int, length int) error {
	return errorcodes.Newf(errorcodes.DECODING_FAILED, "read at offset %d exceeds %d bytes of data", offset, length)
}
