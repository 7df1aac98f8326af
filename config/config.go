package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/tokamak-network/dao-action-builder/registry"
)

// DefaultProjectConfigFilename is the name of the project configuration file looked up by the CLI.
const DefaultProjectConfigFilename = "actionbuilder.json"

type ProjectConfig struct {
	// Network selects which deployment address of a predefined method is used, "mainnet" or "sepolia".
	Network string `json:"network"`

	// Registry describes where predefined methods come from.
	Registry RegistryConfig `json:"registry"`

	// Encoding describes the configuration used when building actions.
	Encoding EncodingConfig `json:"encoding"`

	// Logging describes the configuration used for logging.
	Logging LoggingConfig `json:"logging"`
}

// RegistryConfig describes the sources of predefined methods.
type RegistryConfig struct {
	// StorePath is the path of the database holding user-defined methods. If empty, no store is used and the
	// methods commands cannot add or remove entries.
	StorePath string `json:"storePath"`

	// DisableBuiltIn excludes the built-in catalogue from the registry.
	DisableBuiltIn bool `json:"disableBuiltIn"`

	// MethodFiles lists JSON files describing additional predefined methods.
	MethodFiles []string `json:"methodFiles"`
}

// EncodingConfig describes the configuration used when building actions.
type EncodingConfig struct {
	// VerifyRoundTrip describes whether built actions are decoded and re-encoded before being reported.
	VerifyRoundTrip bool `json:"verifyRoundTrip"`
}

// LoggingConfig describes the configuration options for logging.
type LoggingConfig struct {
	// Level describes whether logs of certain severity levels (eg info, warning, etc.) will be emitted or discarded.
	// Increasing level values represent more severe logs
	Level zerolog.Level `json:"level"`

	// EnableConsoleLogging describes whether console logging is enabled
	EnableConsoleLogging bool `json:"enableConsoleLogging"`

	// LogDirectory describes the directory where structured log _files_ will be outputted. If the string is empty, then
	// no log files are kept
	LogDirectory string `json:"logDirectory"`
}

// ReadProjectConfigFromFile reads a JSON-serialized ProjectConfig from a provided file path. Fields missing from the
// file keep their default values.
// Returns the ProjectConfig if it succeeds, or an error if one occurs.
func ReadProjectConfigFromFile(path string) (*ProjectConfig, error) {
	// Read our project configuration file data
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Parse the project configuration
	projectConfig := GetDefaultProjectConfig()
	err = json.Unmarshal(b, projectConfig)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return projectConfig, nil
}

// WriteToFile writes the ProjectConfig to a provided file path in a JSON-serialized format.
// Returns an error if one occurs.
func (p *ProjectConfig) WriteToFile(path string) error {
	// Serialize the configuration
	b, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return errors.WithStack(err)
	}

	// Save it to the provided output path and return the result
	err = os.WriteFile(path, b, 0644)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// Validate validates that the ProjectConfig meets certain requirements.
// Returns an error if one occurs.
func (p *ProjectConfig) Validate() error {
	// Verify the network is one predefined methods have addresses for
	switch strings.ToLower(p.Network) {
	case registry.NetworkMainnet, registry.NetworkSepolia:
	default:
		return errors.Errorf("unsupported network %q, expected %q or %q", p.Network, registry.NetworkMainnet, registry.NetworkSepolia)
	}

	// Verify method files are named
	for _, file := range p.Registry.MethodFiles {
		if strings.TrimSpace(file) == "" {
			return errors.Errorf("method file paths cannot be empty")
		}
	}

	// Verify the log level is one zerolog knows about
	if p.Logging.Level < zerolog.TraceLevel || p.Logging.Level > zerolog.Disabled {
		return errors.Errorf("invalid log level %d", p.Logging.Level)
	}

	return nil
}
