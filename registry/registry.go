package registry

import (
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/tokamak-network/dao-action-builder/abi"
	"github.com/tokamak-network/dao-action-builder/errorcodes"
	"github.com/tokamak-network/dao-action-builder/events"
	"github.com/tokamak-network/dao-action-builder/logging"
	"github.com/tokamak-network/dao-action-builder/utils"
)

// Networks on which predefined contracts may be deployed.
const (
	NetworkMainnet = "mainnet"
	NetworkSepolia = "sepolia"
)

// ContractAddresses holds the deployment address of a contract on each supported network.
type ContractAddresses struct {
	Mainnet string `json:"mainnet,omitempty"`
	Sepolia string `json:"sepolia,omitempty"`
}

// PredefinedMethod is a named, reusable ABI such as a token standard or a DAO contract.
type PredefinedMethod struct {
	// ID uniquely identifies the entry in a Registry.
	ID string `json:"id"`

	// Name is a human-readable name.
	Name string `json:"name"`

	// Description is a short description of the contract.
	Description string `json:"description"`

	// ABI holds the functions of the contract.
	ABI abi.ABI `json:"abi"`

	// Addresses holds the deployments of the contract, if it is a specific contract rather than a standard.
	Addresses *ContractAddresses `json:"addresses,omitempty"`
}

// AddressFor returns the lowercase address of the contract on network, if it is deployed there.
func (m PredefinedMethod) AddressFor(network string) (string, bool) {
	if m.Addresses == nil {
		return "", false
	}
	var address string
	switch strings.ToLower(network) {
	case NetworkMainnet:
		address = m.Addresses.Mainnet
	case NetworkSepolia:
		address = m.Addresses.Sepolia
	}
	if address == "" {
		return "", false
	}
	parsed, err := utils.HexStringToAddress(address)
	if err != nil {
		return "", false
	}
	return utils.AddressToLowerHex(*parsed), true
}

// Validate checks that the entry has an ID and that every function of its ABI is well formed.
func (m PredefinedMethod) Validate() error {
	if m.ID == "" {
		return errorcodes.New(errorcodes.INVALID_PARAMETER, "predefined method has no id").WithField("id")
	}
	for _, fn := range m.ABI {
		types, err := fn.InputTypes()
		if err == nil {
			for _, t := range types {
				if err = t.Check(); err != nil {
					break
				}
			}
		}
		if err != nil {
			return errorcodes.Wrap(err, errorcodes.INVALID_PARAMETER, "invalid function "+fn.Name+" in "+m.ID).WithField("abi")
		}
	}
	if m.Addresses != nil {
		for network, address := range map[string]string{NetworkMainnet: m.Addresses.Mainnet, NetworkSepolia: m.Addresses.Sepolia} {
			if address != "" && !abi.IsValidAddress(address) {
				return errorcodes.Newf(errorcodes.INVALID_ADDRESS, "invalid %s address %q of %s", network, address, m.ID).WithField("addresses")
			}
		}
	}
	return nil
}

// ParsePredefinedMethod parses a predefined method from JSON. Non-function ABI entries are dropped.
func ParsePredefinedMethod(data []byte) (*PredefinedMethod, error) {
	var raw struct {
		ID          string             `json:"id"`
		Name        string             `json:"name"`
		Description string             `json:"description"`
		ABI         json.RawMessage    `json:"abi"`
		Addresses   *ContractAddresses `json:"addresses"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errorcodes.Wrap(errors.WithStack(err), errorcodes.INVALID_PARAMETER, "invalid predefined method JSON")
	}

	functions := abi.ABI{}
	if len(raw.ABI) > 0 {
		var err error
		functions, err = abi.ParseABI(raw.ABI)
		if err != nil {
			return nil, err
		}
	}

	method := &PredefinedMethod{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		ABI:         functions,
		Addresses:   raw.Addresses,
	}
	if err := method.Validate(); err != nil {
		return nil, err
	}
	return method, nil
}

// LoadPredefinedMethodFile reads and parses a predefined method from a JSON file.
func LoadPredefinedMethodFile(path string) (*PredefinedMethod, error) {
	data, err := utils.ReadFile(path)
	if err != nil {
		return nil, errorcodes.Wrap(err, errorcodes.INVALID_PARAMETER, "could not read "+path)
	}
	return ParsePredefinedMethod(data)
}

// Lookup resolves predefined methods by ID.
type Lookup interface {
	Get(id string) (PredefinedMethod, bool)
	GetAll() []PredefinedMethod
}

// ChangeKind describes how the content of a Registry changed.
type ChangeKind string

const (
	MethodRegistered ChangeKind = "registered"
	MethodRemoved    ChangeKind = "removed"
	RegistryCleared  ChangeKind = "cleared"
	RegistryReset    ChangeKind = "reset"
)

// ChangedEvent is published by a Registry after its content changed. ID is empty for RegistryCleared and
// RegistryReset.
type ChangedEvent struct {
	Kind ChangeKind
	ID   string
}

// Registry is a thread-safe collection of predefined methods keyed by ID.
type Registry struct {
	// Changed publishes a ChangedEvent after every change, once the registry lock has been released.
	Changed events.EventEmitter[ChangedEvent]

	methods  map[string]PredefinedMethod
	snapshot []PredefinedMethod
	mutex    sync.RWMutex
}

// logger returns the sub-logger of the registry package.
func logger() *logging.Logger {
	return logging.GlobalLogger.NewSubLogger("module", logging.REGISTRY_SERVICE)
}

// NewRegistry returns a registry, holding the built-in catalogue if withBuiltIn is set.
func NewRegistry(withBuiltIn bool) (*Registry, error) {
	r := &Registry{
		methods: make(map[string]PredefinedMethod),
	}
	if withBuiltIn {
		methods, err := BuiltInMethods()
		if err != nil {
			return nil, err
		}
		r.snapshot = methods
		for _, method := range methods {
			r.methods[method.ID] = method
		}
	}
	return r, nil
}

// Register adds a method, replacing any method with the same ID.
func (r *Registry) Register(method PredefinedMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}
	r.mutex.Lock()
	if _, exists := r.methods[method.ID]; exists {
		logger().Debug("Replacing predefined method ", method.ID)
	}
	r.methods[method.ID] = method
	r.mutex.Unlock()

	r.Changed.Publish(ChangedEvent{Kind: MethodRegistered, ID: method.ID})
	return nil
}

// RegisterAll adds every method, stopping at the first invalid one.
func (r *Registry) RegisterAll(methods []PredefinedMethod) error {
	for _, method := range methods {
		if err := r.Register(method); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the method with the provided ID.
func (r *Registry) Get(id string) (PredefinedMethod, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	method, ok := r.methods[id]
	return method, ok
}

// GetAll returns every method, sorted by ID.
func (r *Registry) GetAll() []PredefinedMethod {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	methods := make([]PredefinedMethod, 0, len(r.methods))
	for _, method := range r.methods {
		methods = append(methods, method)
	}
	sort.Slice(methods, func(i, j int) bool {
		return methods[i].ID < methods[j].ID
	})
	return methods
}

// GetABI returns the ABI of the method with the provided ID, or FUNCTION_NOT_FOUND if there is none.
func (r *Registry) GetABI(id string) (abi.ABI, error) {
	method, ok := r.Get(id)
	if !ok {
		return nil, errorcodes.Newf(errorcodes.FUNCTION_NOT_FOUND, "no predefined method with id %q", id)
	}
	return method.ABI, nil
}

// Has reports whether a method with the provided ID is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.Get(id)
	return ok
}

// Remove removes the method with the provided ID, reporting whether it was registered.
func (r *Registry) Remove(id string) bool {
	r.mutex.Lock()
	_, ok := r.methods[id]
	delete(r.methods, id)
	r.mutex.Unlock()

	if ok {
		r.Changed.Publish(ChangedEvent{Kind: MethodRemoved, ID: id})
	}
	return ok
}

// Clear removes every method.
func (r *Registry) Clear() {
	r.mutex.Lock()
	r.methods = make(map[string]PredefinedMethod)
	r.mutex.Unlock()

	r.Changed.Publish(ChangedEvent{Kind: RegistryCleared})
}

// Reset restores the registry to its initial content.
func (r *Registry) Reset() {
	r.mutex.Lock()
	r.methods = make(map[string]PredefinedMethod, len(r.snapshot))
	for _, method := range r.snapshot {
		r.methods[method.ID] = method
	}
	r.mutex.Unlock()

	r.Changed.Publish(ChangedEvent{Kind: RegistryReset})
}

// LoadStore registers every method held by store.
func (r *Registry) LoadStore(store *Store) error {
	methods, err := store.List()
	if err != nil {
		return err
	}
	logger().Debug("Loaded ", len(methods), " predefined methods from ", store.Path())
	return r.RegisterAll(methods)
}

// LoadFiles registers the methods of the provided JSON files.
func (r *Registry) LoadFiles(paths []string) error {
	for _, path := range paths {
		method, err := LoadPredefinedMethodFile(path)
		if err != nil {
			return err
		}
		if err = r.Register(*method); err != nil {
			return err
		}
	}
	return nil
}
