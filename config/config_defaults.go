package config

import (
	"github.com/rs/zerolog"
	"github.com/tokamak-network/dao-action-builder/registry"
)

// GetDefaultProjectConfig obtains a default configuration for a project: mainnet addresses, the built-in catalogue
// without a store, verified actions and info level console logging.
func GetDefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Network: registry.NetworkMainnet,
		Registry: RegistryConfig{
			StorePath:      "",
			DisableBuiltIn: false,
			MethodFiles:    []string{},
		},
		Encoding: EncodingConfig{
			VerifyRoundTrip: true,
		},
		Logging: LoggingConfig{
			Level:                zerolog.InfoLevel,
			EnableConsoleLogging: true,
			LogDirectory:         "",
		},
	}
}
