package abi

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/tokamak-network/dao-action-builder/errorcodes"
	"github.com/tokamak-network/dao-action-builder/utils"
	"golang.org/x/crypto/sha3"
)

// SelectorLength is the number of bytes of a function selector.
const SelectorLength = 4

// FunctionSignature returns the canonical signature name(t1,t2,...) of a function, with parameter names removed and
// tuples expanded to (t1,t2).
func FunctionSignature(fn Function) (string, error) {
	types, err := fn.InputTypes()
	if err != nil {
		return "", err
	}
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return fn.Name + "(" + strings.Join(parts, ",") + ")", nil
}

// NormalizeSignature rewrites a human-written signature such as "transfer(address to, uint amount)" or
// "submit(tuple(uint a, bytes b)[] items)" into its canonical form "submit((uint256,bytes)[])".
func NormalizeSignature(signature string) (string, error) {
	s := strings.TrimSpace(signature)
	open := strings.Index(s, "(")
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return "", errorcodes.Newf(errorcodes.INVALID_PARAMETER, "malformed function signature %q", signature)
	}
	name := strings.TrimSpace(s[:open])
	if strings.ContainsAny(name, " \t\n,()[]") {
		return "", errorcodes.Newf(errorcodes.INVALID_PARAMETER, "malformed function name in signature %q", signature)
	}

	params, err := normalizeParameterList(s[open+1 : len(s)-1])
	if err != nil {
		return "", errorcodes.Newf(errorcodes.INVALID_PARAMETER, "malformed function signature %q: %v", signature, err)
	}
	return name + "(" + params + ")", nil
}

// normalizeParameterList canonicalizes a comma separated list of parameter declarations.
func normalizeParameterList(list string) (string, error) {
	parts, err := splitTopLevel(list)
	if err != nil {
		return "", err
	}
	for i, part := range parts {
		parts[i], err = normalizeParameter(part)
		if err != nil {
			return "", err
		}
	}
	return strings.Join(parts, ","), nil
}

// normalizeParameter canonicalizes a single declaration, dropping its name and any data location keyword.
func normalizeParameter(decl string) (string, error) {
	decl = strings.TrimSpace(decl)
	if strings.HasPrefix(decl, "tuple") && strings.HasPrefix(strings.TrimSpace(decl[len("tuple"):]), "(") {
		decl = strings.TrimSpace(decl[len("tuple"):])
	}

	if strings.HasPrefix(decl, "(") {
		closing, err := matchingParen(decl)
		if err != nil {
			return "", err
		}
		inner, err := normalizeParameterList(decl[1:closing])
		if err != nil {
			return "", err
		}

		// Array groups may follow the tuple, possibly separated by whitespace, then the name.
		rest := decl[closing+1:]
		var dims strings.Builder
		for {
			rest = strings.TrimLeft(rest, " \t\n")
			if !strings.HasPrefix(rest, "[") {
				break
			}
			end := strings.Index(rest, "]")
			if end == -1 {
				return "", fmt.Errorf("unbalanced brackets in %q", decl)
			}
			dims.WriteString(rest[:end+1])
			rest = rest[end+1:]
		}
		t, err := ParseType("("+inner+")"+dims.String(), nil)
		if err != nil {
			return "", err
		}
		return t.String(), nil
	}

	fields := strings.Fields(decl)
	if len(fields) == 0 {
		return "", fmt.Errorf("empty parameter")
	}
	// Array groups written with spaces ("uint256 [2]") belong to the type.
	typeString := fields[0]
	for _, f := range fields[1:] {
		if !strings.HasPrefix(f, "[") {
			break
		}
		typeString += f
	}
	t, err := ParseType(typeString, nil)
	if err != nil {
		return "", err
	}
	return t.String(), nil
}

// matchingParen returns the index of the parenthesis closing the one at index 0 of s.
func matchingParen(s string) (int, error) {
	depth := 0
	for i, c := range s {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("unbalanced parentheses in %q", s)
}

// splitTopLevel splits s on the commas which are not nested in parentheses or brackets. An empty or blank s yields
// no parts.
func splitTopLevel(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var parts []string
	depth, start := 0, 0
	for i, c := range s {
		switch c {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced parentheses in %q", s)
			}
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced parentheses in %q", s)
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("empty entry in %q", s)
		}
	}
	return parts, nil
}

// Selector returns the first four bytes of the keccak-256 hash of the provided signature. The signature is hashed as
// given and should be canonical.
func Selector(signature string) [SelectorLength]byte {
	hash := sha3.NewLegacyKeccak256()
	hash.Write([]byte(signature))
	var selector [SelectorLength]byte
	copy(selector[:], hash.Sum(nil))
	return selector
}

// SelectorHex returns the selector of the provided signature as 0x-prefixed hex.
func SelectorHex(signature string) string {
	selector := Selector(signature)
	return "0x" + hex.EncodeToString(selector[:])
}

// FindFunctionBySignature returns the function whose canonical signature matches signature once normalized.
func FindFunctionBySignature(abi ABI, signature string) (*Function, error) {
	normalized, err := NormalizeSignature(signature)
	if err != nil {
		return nil, errorcodes.Newf(errorcodes.FUNCTION_NOT_FOUND, "function %q not found in ABI: %v", signature, err)
	}
	for i := range abi {
		candidate, err := FunctionSignature(abi[i])
		if err != nil {
			continue
		}
		if candidate == normalized {
			return &abi[i], nil
		}
	}
	return nil, errorcodes.Newf(errorcodes.FUNCTION_NOT_FOUND, "function %q not found in ABI", normalized)
}

// FindFunctionsByName returns every function with the provided name, in ABI order.
func FindFunctionsByName(abi ABI, name string) []Function {
	return utils.SliceWhere(abi, func(fn Function) bool {
		return fn.Name == name
	})
}

// FindFunctionBySelector returns the first function whose selector equals the provided one.
func FindFunctionBySelector(abi ABI, selector [SelectorLength]byte) (*Function, error) {
	for i := range abi {
		signature, err := FunctionSignature(abi[i])
		if err != nil {
			continue
		}
		if Selector(signature) == selector {
			return &abi[i], nil
		}
	}
	return nil, errorcodes.Newf(errorcodes.FUNCTION_NOT_FOUND, "no function with selector 0x%x in ABI", selector[:])
}

// FilterStateChangingFunctions returns the nonpayable and payable functions of the ABI.
func FilterStateChangingFunctions(abi ABI) ABI {
	return utils.SliceWhere(abi, Function.IsStateChanging)
}

// IsValidAddress reports whether s is 40 hex digits with an optional 0x prefix.
func IsValidAddress(s string) bool {
	_, err := utils.HexStringToAddress(s)
	return err == nil
}
