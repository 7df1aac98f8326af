package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tokamak-network/dao-action-builder/calldata"
)

// decodeCmd represents the command provider for decode
var decodeCmd = &cobra.Command{
	Use:   "decode <calldata>",
	Short: "Decodes the calldata of a function call",
	Long: `Decodes 0x-prefixed calldata against an ABI (--abi or --method). The function is resolved from the selector
unless --function is provided.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: cmdValidUnusedFlags,
	RunE:              cmdRunDecode,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	// Prevent alphabetical sorting of usage message
	decodeCmd.Flags().SortFlags = false

	addABISourceFlags(decodeCmd)
	decodeCmd.Flags().String("function", "", "signature of the expected function, e.g. \"transfer(address,uint256)\"")
	decodeCmd.Flags().Bool("json", false, "print the result as JSON")

	rootCmd.AddCommand(decodeCmd)
}

// decodeOutput is the JSON output of the decode command.
type decodeOutput struct {
	FunctionName      string            `json:"functionName"`
	FunctionSignature string            `json:"functionSignature"`
	ParameterNames    []string          `json:"parameterNames"`
	ParameterTypes    []string          `json:"parameterTypes"`
	Parameters        map[string]string `json:"parameters"`
}

// cmdRunDecode executes the decode CLI command
func cmdRunDecode(cmd *cobra.Command, args []string) error {
	projectConfig, err := loadProjectConfig(cmd)
	if err != nil {
		cmdLogger.Error("Failed to run the decode command", err)
		return err
	}
	methods, store, err := loadRegistry(projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the decode command", err)
		return err
	}
	if store != nil {
		defer store.Close()
	}

	functions, _, err := resolveABI(cmd, methods)
	if err != nil {
		cmdLogger.Error("Failed to run the decode command", err)
		return err
	}

	var result *calldata.DecodeResult
	if function, _ := cmd.Flags().GetString("function"); function != "" {
		result, err = calldata.DecodeCalldataBySignature(args[0], functions, function)
	} else {
		result, err = calldata.DecodeCalldata(args[0], functions)
	}
	if err != nil {
		cmdLogger.Error("Failed to decode the calldata", err)
		return err
	}

	formatted, err := calldata.FormatDecodedParameters(result)
	if err != nil {
		cmdLogger.Error("Failed to format the decoded parameters", err)
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(out, decodeOutput{
			FunctionName:      result.FunctionName,
			FunctionSignature: result.FunctionSignature,
			ParameterNames:    result.ParameterNames,
			ParameterTypes:    result.ParameterTypes,
			Parameters:        formatted,
		})
	}

	fmt.Fprintln(out, result.FunctionSignature)
	for i, name := range result.ParameterNames {
		fmt.Fprintf(out, "  %s (%s): %s\n", name, result.ParameterTypes[i], formatted[name])
	}
	return nil
}
