package actions

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/tokamak-network/dao-action-builder/abi"
	"github.com/tokamak-network/dao-action-builder/errorcodes"
	"github.com/tokamak-network/dao-action-builder/utils"
)

// GovernorProposeSignature is the signature of OpenZeppelin Governor's propose function.
const GovernorProposeSignature = "propose(address[],uint256[],bytes[],string)"

// Batch is an ordered list of actions executed together, such as the steps of a DAO agenda or a Governor proposal.
type Batch struct {
	actions []Action
}

// NewBatch returns a batch holding the provided actions.
func NewBatch(actions ...Action) *Batch {
	return &Batch{actions: append([]Action{}, actions...)}
}

// Add appends an action to the batch.
func (b *Batch) Add(action Action) {
	b.actions = append(b.actions, action)
}

// Actions returns the actions of the batch, in order.
func (b *Batch) Actions() []Action {
	return append([]Action{}, b.actions...)
}

// Len returns the number of actions in the batch.
func (b *Batch) Len() int {
	return len(b.actions)
}

// Targets returns the contract address of every action.
func (b *Batch) Targets() []common.Address {
	return utils.SliceSelect(b.actions, func(action Action) common.Address {
		return common.HexToAddress(action.ContractAddress)
	})
}

// Values returns the value of every action, zero where none is sent.
func (b *Batch) Values() []*big.Int {
	return utils.SliceSelect(b.actions, func(action Action) *big.Int {
		if action.Value == nil {
			return new(big.Int)
		}
		return new(big.Int).Set(action.Value)
	})
}

// TotalValue returns the sum of the values of every action.
func (b *Batch) TotalValue() *big.Int {
	total := new(big.Int)
	for _, value := range b.Values() {
		total.Add(total, value)
	}
	return total
}

// Calldatas returns the decoded calldata of every action.
func (b *Batch) Calldatas() ([][]byte, error) {
	calldatas := make([][]byte, len(b.actions))
	for i, action := range b.actions {
		data, err := hexutil.Decode(action.Calldata)
		if err != nil {
			return nil, errorcodes.Wrap(errors.WithStack(err), errorcodes.ENCODING_FAILED, "invalid calldata of action "+action.FunctionSignature)
		}
		calldatas[i] = data
	}
	return calldatas, nil
}

// GovernorProposalValues returns the parameters of a Governor propose call executing the batch, keyed like the
// parameters of GovernorProposeSignature: targets, values, calldatas and description.
func (b *Batch) GovernorProposalValues(description string) (map[string]any, error) {
	calldatas, err := b.Calldatas()
	if err != nil {
		return nil, err
	}

	targets := make(abi.ArrayValue, b.Len())
	for i, target := range b.Targets() {
		targets[i] = abi.AddressValue(target)
	}
	values := make(abi.ArrayValue, b.Len())
	for i, value := range b.Values() {
		values[i] = abi.IntegerValue{Int: value}
	}
	data := make(abi.ArrayValue, b.Len())
	for i, calldata := range calldatas {
		data[i] = abi.BytesValue(calldata)
	}

	return map[string]any{
		"targets":     targets,
		"values":      values,
		"calldatas":   data,
		"description": abi.StringValue(description),
	}, nil
}

// BuildGovernorProposal builds the action submitting the batch as a proposal to the Governor at governorAddress.
// governorABI must hold propose(address[],uint256[],bytes[],string) with the parameter names targets, values,
// calldatas and description.
func (b *Batch) BuildGovernorProposal(governorAddress string, governorABI abi.ABI, description string) (*Action, error) {
	params, err := b.GovernorProposalValues(description)
	if err != nil {
		return nil, err
	}
	return BuildAction(BuildActionInput{
		ContractAddress:   governorAddress,
		ABI:               governorABI,
		FunctionSignature: GovernorProposeSignature,
		Parameters:        params,
	})
}
