package abi

import (
	"strconv"
	"strings"

	"github.com/tokamak-network/dao-action-builder/errorcodes"
)

// Kind is the elementary kind of a type once array dimensions are removed.
type Kind int

const (
	AddressKind Kind = iota
	BoolKind
	UintKind
	IntKind
	FixedBytesKind
	BytesKind
	StringKind
	TupleKind
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case AddressKind:
		return "address"
	case BoolKind:
		return "bool"
	case UintKind:
		return "uint"
	case IntKind:
		return "int"
	case FixedBytesKind:
		return "bytesN"
	case BytesKind:
		return "bytes"
	case StringKind:
		return "string"
	case TupleKind:
		return "tuple"
	default:
		return "unknown"
	}
}

// ArrayDimension is a single []/[N] group of an array type.
type ArrayDimension struct {
	// Size is the length of a fixed-size dimension. Zero for dynamic dimensions.
	Size int
	// Dynamic indicates a [] dimension.
	Dynamic bool
}

// ParsedType is the structured form of an ABI type string.
//
// ArrayDimensions are kept in the order they are written. The last dimension is the outermost one, so that
// bytes32[3][] is a dynamic array whose elements are bytes32[3].
type ParsedType struct {
	// BaseType is the type with all array dimensions removed. uint and int are canonicalized to uint256/int256.
	BaseType string

	// ArrayDimensions lists the array dimensions in written order.
	ArrayDimensions []ArrayDimension

	// Components are the raw tuple component declarations. Set only for tuples.
	Components []Parameter

	// TupleElems are the parsed types of Components, in order.
	TupleElems []ParsedType
}

// ParseType parses a type string such as uint256, address[], bytes32[3][] or tuple[], using components for the
// members of a tuple. Inline tuple types such as (uint256,address)[] are accepted too, with unnamed members.
func ParseType(typeString string, components []Parameter) (ParsedType, error) {
	s := strings.TrimSpace(typeString)
	if s == "" {
		return ParsedType{}, errorcodes.New(errorcodes.INVALID_PARAMETER, "empty type")
	}

	// Strip array groups from the right, then restore written order.
	var dims []ArrayDimension
	for strings.HasSuffix(s, "]") {
		open := strings.LastIndex(s, "[")
		if open == -1 {
			return ParsedType{}, errorcodes.Newf(errorcodes.INVALID_PARAMETER, "unbalanced brackets in type %q", typeString)
		}
		inner := strings.TrimSpace(s[open+1 : len(s)-1])
		dim := ArrayDimension{Dynamic: true}
		if inner != "" {
			size, err := strconv.Atoi(inner)
			if err != nil || size <= 0 {
				return ParsedType{}, errorcodes.Newf(errorcodes.INVALID_PARAMETER, "invalid array size %q in type %q", inner, typeString)
			}
			dim = ArrayDimension{Size: size}
		}
		dims = append(dims, dim)
		s = strings.TrimSpace(s[:open])
	}
	for i, j := 0, len(dims)-1; i < j; i, j = i+1, j-1 {
		dims[i], dims[j] = dims[j], dims[i]
	}

	parsed := ParsedType{ArrayDimensions: dims}

	if strings.HasPrefix(s, "tuple(") {
		s = s[len("tuple"):]
	}
	switch {
	case strings.HasPrefix(s, "("):
		if !strings.HasSuffix(s, ")") {
			return ParsedType{}, errorcodes.Newf(errorcodes.INVALID_PARAMETER, "malformed tuple type %q", typeString)
		}
		parts, err := splitTopLevel(s[1 : len(s)-1])
		if err != nil {
			return ParsedType{}, errorcodes.Newf(errorcodes.INVALID_PARAMETER, "malformed tuple type %q: %v", typeString, err)
		}
		components = make([]Parameter, len(parts))
		for i, part := range parts {
			components[i] = Parameter{Type: part}
		}
		s = "tuple"
	case strings.ContainsAny(s, "[]()"):
		return ParsedType{}, errorcodes.Newf(errorcodes.INVALID_PARAMETER, "malformed type %q", typeString)
	}

	switch s {
	case "uint":
		s = "uint256"
	case "int":
		s = "int256"
	case "tuple":
		if len(components) == 0 {
			return ParsedType{}, errorcodes.Newf(errorcodes.INVALID_PARAMETER, "tuple type %q has no components", typeString)
		}
		parsed.Components = components
		parsed.TupleElems = make([]ParsedType, len(components))
		for i, c := range components {
			elem, err := ParseType(c.Type, c.Components)
			if err != nil {
				return ParsedType{}, err
			}
			parsed.TupleElems[i] = elem
		}
	}
	parsed.BaseType = s
	return parsed, nil
}

// IsArray reports whether the type has at least one array dimension.
func (t ParsedType) IsArray() bool {
	return len(t.ArrayDimensions) > 0
}

// IsTuple reports whether the base type is a tuple.
func (t ParsedType) IsTuple() bool {
	return t.BaseType == "tuple"
}

// OuterDimension returns the outermost array dimension. It must only be called on array types.
func (t ParsedType) OuterDimension() ArrayDimension {
	return t.ArrayDimensions[len(t.ArrayDimensions)-1]
}

// Elem returns the element type of an array type, with the outermost dimension removed.
func (t ParsedType) Elem() ParsedType {
	elem := t
	elem.ArrayDimensions = t.ArrayDimensions[:len(t.ArrayDimensions)-1]
	return elem
}

// ComponentKeys returns the key of every tuple component, in order.
func (t ParsedType) ComponentKeys() []string {
	keys := make([]string, len(t.Components))
	for i, c := range t.Components {
		keys[i] = ParameterKey(c, i)
	}
	return keys
}

// Kind resolves the elementary kind of the base type and, for uintN/intN/bytesN, its width (bits for integers,
// bytes for fixed bytes). Widths are checked here: integers must be a multiple of 8 in 8..256, fixed bytes 1..32.
func (t ParsedType) Kind() (Kind, int, error) {
	base := t.BaseType
	switch base {
	case "address":
		return AddressKind, 0, nil
	case "bool":
		return BoolKind, 0, nil
	case "bytes":
		return BytesKind, 0, nil
	case "string":
		return StringKind, 0, nil
	case "tuple":
		return TupleKind, 0, nil
	}

	var kind Kind
	var digits string
	switch {
	case strings.HasPrefix(base, "uint"):
		kind, digits = UintKind, base[len("uint"):]
	case strings.HasPrefix(base, "int"):
		kind, digits = IntKind, base[len("int"):]
	case strings.HasPrefix(base, "bytes"):
		kind, digits = FixedBytesKind, base[len("bytes"):]
	default:
		return 0, 0, errorcodes.Newf(errorcodes.INVALID_PARAMETER, "unsupported type %q", base)
	}

	size, err := strconv.Atoi(digits)
	if err != nil || strings.HasPrefix(digits, "0") || strings.HasPrefix(digits, "+") {
		return 0, 0, errorcodes.Newf(errorcodes.INVALID_PARAMETER, "unsupported type %q", base)
	}
	if kind == FixedBytesKind {
		if size < 1 || size > 32 {
			return 0, 0, errorcodes.Newf(errorcodes.INVALID_PARAMETER, "invalid fixed bytes size in type %q", base)
		}
	} else if size < 8 || size > 256 || size%8 != 0 {
		return 0, 0, errorcodes.Newf(errorcodes.INVALID_PARAMETER, "invalid integer width in type %q", base)
	}
	return kind, size, nil
}

// Check verifies that the base type and every tuple element type are supported.
func (t ParsedType) Check() error {
	if _, _, err := t.Kind(); err != nil {
		return err
	}
	for _, elem := range t.TupleElems {
		if err := elem.Check(); err != nil {
			return err
		}
	}
	return nil
}

// IsDynamic reports whether the encoded size of the type depends on its value: string, bytes, dynamic arrays and
// any tuple or fixed array containing one of those.
func (t ParsedType) IsDynamic() bool {
	if t.IsArray() {
		if t.OuterDimension().Dynamic {
			return true
		}
		return t.Elem().IsDynamic()
	}
	switch t.BaseType {
	case "string", "bytes":
		return true
	case "tuple":
		for _, elem := range t.TupleElems {
			if elem.IsDynamic() {
				return true
			}
		}
	}
	return false
}

// HeadSize returns the number of bytes the type occupies in the head region: one word for dynamic types, the full
// inline size for static ones.
func (t ParsedType) HeadSize() int {
	if t.IsDynamic() {
		return 32
	}
	if t.IsArray() {
		return t.OuterDimension().Size * t.Elem().HeadSize()
	}
	if t.IsTuple() {
		size := 0
		for _, elem := range t.TupleElems {
			size += elem.HeadSize()
		}
		return size
	}
	return 32
}

// String renders the canonical form of the type, as used in function signatures: tuples are expanded to (t1,t2).
func (t ParsedType) String() string {
	var sb strings.Builder
	if t.IsTuple() {
		sb.WriteString("(")
		for i, elem := range t.TupleElems {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(elem.String())
		}
		sb.WriteString(")")
	} else {
		sb.WriteString(t.BaseType)
	}
	for _, dim := range t.ArrayDimensions {
		if dim.Dynamic {
			sb.WriteString("[]")
		} else {
			sb.WriteString("[" + strconv.Itoa(dim.Size) + "]")
		}
	}
	return sb.String()
}
