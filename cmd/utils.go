package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tokamak-network/dao-action-builder/abi"
	"github.com/tokamak-network/dao-action-builder/config"
	"github.com/tokamak-network/dao-action-builder/errorcodes"
	"github.com/tokamak-network/dao-action-builder/logging/colors"
	"github.com/tokamak-network/dao-action-builder/registry"
	"github.com/tokamak-network/dao-action-builder/utils"
)

// etherDecimals is the number of decimals of an ether amount expressed in wei.
const etherDecimals = 18

// cmdValidUnusedFlags returns the flags of the command that have not been used yet, for dynamic completion.
func cmdValidUnusedFlags(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var unusedFlags []string
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if !flag.Changed {
			unusedFlags = append(unusedFlags, "--"+flag.Name)
		}
	})
	return unusedFlags, cobra.ShellCompDirectiveNoFileComp
}

// addABISourceFlags adds the flags selecting the ABI a command works with.
func addABISourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("abi", "", "path to a JSON ABI file")
	cmd.Flags().String("method", "", "id of a predefined method providing the ABI (see the methods command)")
	cmd.MarkFlagsMutuallyExclusive("abi", "method")
}

// parseParams converts key=value pairs into a parameter map. Only the first "=" separates the key from the value.
func parseParams(pairs []string) (map[string]string, error) {
	params := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("malformed parameter %q, expected key=value", pair)
		}
		if _, exists := params[key]; exists {
			return nil, fmt.Errorf("parameter %q was provided more than once", key)
		}
		params[key] = value
	}
	return params, nil
}

// paramsToValues widens a text parameter map for the encoders taking values.
func paramsToValues(params map[string]string) map[string]any {
	values := make(map[string]any, len(params))
	for key, value := range params {
		values[key] = value
	}
	return values
}

// parseEtherValue converts an ether amount such as "1.5" to wei. Amounts with more than 18 decimals or negative
// amounts are rejected.
func parseEtherValue(text string) (*big.Int, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid ether amount %q", text)
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("ether amount %q is negative", text)
	}
	wei := amount.Shift(etherDecimals)
	if !wei.Equal(wei.Truncate(0)) {
		return nil, fmt.Errorf("ether amount %q has more than %d decimals", text, etherDecimals)
	}
	return wei.BigInt(), nil
}

// parseWeiValue converts a decimal or 0x-prefixed hex wei amount.
func parseWeiValue(text string) (*big.Int, error) {
	wei, ok := new(big.Int).SetString(strings.TrimSpace(text), 0)
	if !ok {
		return nil, fmt.Errorf("invalid wei amount %q", text)
	}
	if wei.Sign() < 0 {
		return nil, fmt.Errorf("wei amount %q is negative", text)
	}
	return wei, nil
}

// loadRegistry builds the registry described by the project configuration: the built-in catalogue unless disabled,
// the configured method files and the methods of the store, if one is configured. The store is returned open, or nil
// if none is configured.
func loadRegistry(projectConfig *config.ProjectConfig) (*registry.Registry, *registry.Store, error) {
	methods, err := registry.NewRegistry(!projectConfig.Registry.DisableBuiltIn)
	if err != nil {
		return nil, nil, err
	}
	methods.Changed.Subscribe(func(event registry.ChangedEvent) {
		cmdLogger.Debug("Predefined method ", colors.Bold, event.ID, colors.Reset, " ", event.Kind)
	})

	err = methods.LoadFiles(projectConfig.Registry.MethodFiles)
	if err != nil {
		return nil, nil, err
	}

	if projectConfig.Registry.StorePath == "" {
		return methods, nil, nil
	}
	store, err := registry.OpenStore(projectConfig.Registry.StorePath)
	if err != nil {
		return nil, nil, err
	}
	err = methods.LoadStore(store)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return methods, store, nil
}

// resolveABI returns the ABI selected by the --abi or --method flag. For --method, the predefined method is returned
// as well.
func resolveABI(cmd *cobra.Command, methods registry.Lookup) (abi.ABI, *registry.PredefinedMethod, error) {
	abiPath, err := cmd.Flags().GetString("abi")
	if err != nil {
		return nil, nil, err
	}
	methodID, err := cmd.Flags().GetString("method")
	if err != nil {
		return nil, nil, err
	}

	switch {
	case abiPath != "":
		b, err := utils.ReadFile(abiPath)
		if err != nil {
			return nil, nil, err
		}
		functions, err := abi.ParseABI(b)
		if err != nil {
			return nil, nil, err
		}
		return functions, nil, nil
	case methodID != "":
		method, ok := methods.Get(methodID)
		if !ok {
			return nil, nil, fmt.Errorf("unknown predefined method %q", methodID)
		}
		return method.ABI, &method, nil
	default:
		return nil, nil, fmt.Errorf("either --abi or --method must be provided")
	}
}

// resolveFunctionSignature returns function unchanged if it is a signature, or the signature of the only function of
// functions with that name.
func resolveFunctionSignature(functions abi.ABI, function string) (string, error) {
	if strings.Contains(function, "(") {
		return function, nil
	}
	candidates := abi.FindFunctionsByName(functions, function)
	switch len(candidates) {
	case 0:
		return "", errorcodes.Newf(errorcodes.FUNCTION_NOT_FOUND, "function %q not found in ABI", function)
	case 1:
		return abi.FunctionSignature(candidates[0])
	default:
		return "", errorcodes.Newf(errorcodes.FUNCTION_NOT_FOUND, "function %q is overloaded, provide its signature", function)
	}
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(out io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}
	_, err = fmt.Fprintln(out, string(b))
	return errors.WithStack(err)
}
