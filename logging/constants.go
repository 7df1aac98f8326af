package logging

// Services which create sub-loggers. Each is attached to log events under the "module" key so output can be filtered.
const (
	// CLI_SERVICE is the constant used to identify the cmd package
	CLI_SERVICE = "cli"
	// CALLDATA_SERVICE is the constant used to identify the calldata package
	CALLDATA_SERVICE = "calldata"
	// ACTIONS_SERVICE is the constant used to identify the actions package
	ACTIONS_SERVICE = "actions"
	// REGISTRY_SERVICE is the constant used to identify the registry package
	REGISTRY_SERVICE = "registry"
)
