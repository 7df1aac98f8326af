package cmd

// FunctionFlagDescription describes the --function flag shared by several commands.
const FunctionFlagDescription = "function to call, as a signature such as \"transfer(address,uint256)\" or a name such as \"transfer\""

// ParamFlagDescription describes the --param flag shared by several commands.
const ParamFlagDescription = "parameter value as key=value, repeatable. Unnamed parameters are keyed param<index>, arrays and tuples are given as JSON"
