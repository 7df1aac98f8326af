package actions

import (
	"math/big"

	"github.com/tokamak-network/dao-action-builder/abi"
	"github.com/tokamak-network/dao-action-builder/calldata"
	"github.com/tokamak-network/dao-action-builder/errorcodes"
	"github.com/tokamak-network/dao-action-builder/registry"
)

// ActionBuilder assembles a BuildActionInput step by step. Setters return the builder so calls can be chained. An
// ActionBuilder is not safe for concurrent use.
type ActionBuilder struct {
	contractAddress   string
	functions         abi.ABI
	functionSignature string
	parameters        map[string]any
	value             *big.Int
}

// NewActionBuilder returns an empty ActionBuilder.
func NewActionBuilder() *ActionBuilder {
	return &ActionBuilder{parameters: make(map[string]any)}
}

// SetContractAddress sets the address of the called contract.
func (b *ActionBuilder) SetContractAddress(address string) *ActionBuilder {
	b.contractAddress = address
	return b
}

// SetABI sets the ABI holding the called function.
func (b *ActionBuilder) SetABI(functions abi.ABI) *ActionBuilder {
	b.functions = functions
	return b
}

// SetPredefinedMethod sets the ABI of a registry entry and, if the entry has an address on network, the contract
// address.
func (b *ActionBuilder) SetPredefinedMethod(method registry.PredefinedMethod, network string) *ActionBuilder {
	b.functions = method.ABI
	if address, ok := method.AddressFor(network); ok {
		b.contractAddress = address
	}
	return b
}

// SetFunction sets the signature of the called function. Changing the function clears the parameters.
func (b *ActionBuilder) SetFunction(signature string) *ActionBuilder {
	if signature != b.functionSignature {
		b.parameters = make(map[string]any)
	}
	b.functionSignature = signature
	return b
}

// SetParameter sets a single parameter value.
func (b *ActionBuilder) SetParameter(key string, value any) *ActionBuilder {
	b.parameters[key] = value
	return b
}

// SetParameters sets several parameter values, keeping the ones already set under other keys.
func (b *ActionBuilder) SetParameters(params map[string]any) *ActionBuilder {
	for key, value := range params {
		b.parameters[key] = value
	}
	return b
}

// SetValue sets the amount of wei sent with the call.
func (b *ActionBuilder) SetValue(value *big.Int) *ActionBuilder {
	b.value = value
	return b
}

// Input returns the BuildActionInput assembled so far.
func (b *ActionBuilder) Input() BuildActionInput {
	params := make(map[string]any, len(b.parameters))
	for key, value := range b.parameters {
		params[key] = value
	}
	return BuildActionInput{
		ContractAddress:   b.contractAddress,
		ABI:               b.functions,
		FunctionSignature: b.functionSignature,
		Parameters:        params,
		Value:             b.value,
	}
}

// Build builds the action. See BuildAction.
func (b *ActionBuilder) Build() (*Action, error) {
	if b.functionSignature == "" {
		return nil, errorcodes.New(errorcodes.FUNCTION_NOT_FOUND, "no function selected")
	}
	return BuildAction(b.Input())
}

// BuildAndVerify builds the action and checks it with VerifyAction, returning the decoded call along with it.
func (b *ActionBuilder) BuildAndVerify() (*Action, *calldata.DecodeResult, error) {
	action, err := b.Build()
	if err != nil {
		return nil, nil, err
	}
	decoded, err := VerifyAction(action)
	if err != nil {
		return nil, nil, err
	}
	return action, decoded, nil
}

// Reset clears every field of the builder.
func (b *ActionBuilder) Reset() *ActionBuilder {
	*b = ActionBuilder{parameters: make(map[string]any)}
	return b
}
