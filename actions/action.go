package actions

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/tokamak-network/dao-action-builder/abi"
	"github.com/tokamak-network/dao-action-builder/calldata"
	"github.com/tokamak-network/dao-action-builder/errorcodes"
	"github.com/tokamak-network/dao-action-builder/logging"
	"github.com/tokamak-network/dao-action-builder/utils"
)

// Action describes a single contract call ready to be submitted, e.g. as one step of a DAO agenda.
type Action struct {
	// ContractAddress is the lowercase, 0x-prefixed address of the called contract.
	ContractAddress string `json:"contractAddress"`

	// FunctionSignature is the canonical signature of the called function.
	FunctionSignature string `json:"functionSignature"`

	// FunctionName is the name of the called function.
	FunctionName string `json:"functionName"`

	// Calldata is the 0x-prefixed hex of the selector and the encoded arguments.
	Calldata string `json:"calldata"`

	// ABI is the ABI the action was built from.
	ABI abi.ABI `json:"abi"`

	// Value is the amount of wei sent with the call. Nil when no value is sent.
	Value *big.Int `json:"value,omitempty"`
}

// BuildActionInput describes the inputs of BuildAction.
type BuildActionInput struct {
	// ContractAddress is the address of the called contract, 40 hex digits with an optional 0x prefix.
	ContractAddress string

	// ABI holds the called function.
	ABI abi.ABI

	// FunctionSignature selects the called function. Parameter names and whitespace are allowed.
	FunctionSignature string

	// Parameters maps parameter keys to values: text, or any input accepted by validation.ValidateParameterType.
	Parameters map[string]any

	// Value is the amount of wei to send with the call, if any.
	Value *big.Int
}

// logger returns the sub-logger of the actions package.
func logger() *logging.Logger {
	return logging.GlobalLogger.NewSubLogger("module", logging.ACTIONS_SERVICE)
}

// BuildAction validates the contract address and value, encodes the call and assembles the Action.
//
// Fails with INVALID_ADDRESS for a malformed contract address, INVALID_PARAMETER for a negative value, a value sent to
// a non-payable function or an invalid parameter, and otherwise with the errors of calldata.EncodeCalldataWithValues.
func BuildAction(input BuildActionInput) (*Action, error) {
	address, err := utils.HexStringToAddress(input.ContractAddress)
	if err != nil {
		return nil, errorcodes.Newf(errorcodes.INVALID_ADDRESS, "invalid contract address %q: %v", input.ContractAddress, err)
	}

	result, err := calldata.EncodeCalldataWithValues(input.ABI, input.FunctionSignature, input.Parameters)
	if err != nil {
		return nil, err
	}

	if input.Value != nil {
		if input.Value.Sign() < 0 {
			return nil, errorcodes.Newf(errorcodes.INVALID_PARAMETER, "negative value %s", input.Value).WithField("value")
		}
		if input.Value.Sign() > 0 && result.Function.StateMutability != abi.Payable {
			return nil, errorcodes.Newf(errorcodes.INVALID_PARAMETER, "%s is not payable", result.FunctionSignature).WithField("value")
		}
	}

	action := &Action{
		ContractAddress:   utils.AddressToLowerHex(*address),
		FunctionSignature: result.FunctionSignature,
		FunctionName:      result.FunctionName,
		Calldata:          result.Calldata,
		ABI:               input.ABI,
	}
	if input.Value != nil {
		action.Value = new(big.Int).Set(input.Value)
	}

	logger().Debug("Built action ", action.FunctionSignature, " on ", action.ContractAddress)
	return action, nil
}

// VerifyAction decodes the calldata of an action with its own ABI and re-encodes the decoded values. It fails with
// DECODING_FAILED if the calldata does not decode to the action's function, or if re-encoding does not reproduce it.
func VerifyAction(action *Action) (*calldata.DecodeResult, error) {
	fn, err := abi.FindFunctionBySignature(action.ABI, action.FunctionSignature)
	if err != nil {
		return nil, err
	}
	decoded, err := calldata.DecodeCalldataBySignature(action.Calldata, action.ABI, action.FunctionSignature)
	if err != nil {
		return nil, err
	}

	reencoded, err := calldata.EncodeFunctionCall(*fn, decoded.Values)
	if err != nil {
		return nil, err
	}
	if hexutil.Encode(reencoded) != action.Calldata {
		logger().Warn("Calldata of ", action.FunctionSignature, " is not in canonical form")
		return nil, errorcodes.Newf(errorcodes.DECODING_FAILED, "calldata of %s does not re-encode to itself", action.FunctionSignature)
	}
	return decoded, nil
}
