package abi

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/tokamak-network/dao-action-builder/errorcodes"
)

// StateMutability describes whether a function reads or modifies chain state and whether it accepts value.
type StateMutability string

const (
	Pure       StateMutability = "pure"
	View       StateMutability = "view"
	NonPayable StateMutability = "nonpayable"
	Payable    StateMutability = "payable"
)

// Parameter is a raw ABI parameter declaration, as found in Solidity ABI JSON.
type Parameter struct {
	Name         string      `json:"name"`
	Type         string      `json:"type"`
	InternalType string      `json:"internalType,omitempty"`
	Indexed      bool        `json:"indexed,omitempty"`
	Components   []Parameter `json:"components,omitempty"`
}

// ParsedType parses the declared type of the parameter, including its tuple components.
func (p Parameter) ParsedType() (ParsedType, error) {
	return ParseType(p.Type, p.Components)
}

// ParameterKey returns the key used to address a parameter or tuple component: its declared name, or param<i> for
// an unnamed entry at position i.
func ParameterKey(p Parameter, index int) string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("param%d", index)
}

// Function is a single function entry of an ABI definition.
type Function struct {
	Type            string          `json:"type,omitempty"`
	Name            string          `json:"name"`
	Inputs          []Parameter     `json:"inputs"`
	Outputs         []Parameter     `json:"outputs,omitempty"`
	StateMutability StateMutability `json:"stateMutability,omitempty"`
}

// IsStateChanging reports whether calling the function may modify state.
func (f Function) IsStateChanging() bool {
	return f.StateMutability == NonPayable || f.StateMutability == Payable
}

// InputKeys returns the key of every input parameter, in declaration order.
func (f Function) InputKeys() []string {
	keys := make([]string, len(f.Inputs))
	for i, input := range f.Inputs {
		keys[i] = ParameterKey(input, i)
	}
	return keys
}

// InputTypes parses the type of every input parameter, in declaration order.
func (f Function) InputTypes() ([]ParsedType, error) {
	types := make([]ParsedType, len(f.Inputs))
	for i, input := range f.Inputs {
		t, err := input.ParsedType()
		if err != nil {
			return nil, err
		}
		types[i] = t
	}
	return types, nil
}

// ABI is an ordered list of function definitions.
type ABI []Function

// ParseABI parses a JSON ABI definition. Entries which are not functions (events, errors, constructors, ...) are
// skipped. An entry without a type is treated as a function. Entries of older compilers without stateMutability take
// it from their payable and constant flags.
func ParseABI(data []byte) (ABI, error) {
	var entries []struct {
		Function
		Payable  bool `json:"payable"`
		Constant bool `json:"constant"`
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errorcodes.Wrap(errors.WithStack(err), errorcodes.INVALID_PARAMETER, "invalid ABI JSON")
	}

	functions := make(ABI, 0, len(entries))
	for _, entry := range entries {
		if entry.Type != "" && entry.Type != "function" {
			continue
		}
		if entry.Type == "" {
			entry.Type = "function"
		}
		if entry.StateMutability == "" {
			switch {
			case entry.Payable:
				entry.StateMutability = Payable
			case entry.Constant:
				entry.StateMutability = View
			default:
				entry.StateMutability = NonPayable
			}
		}
		functions = append(functions, entry.Function)
	}
	return functions, nil
}
