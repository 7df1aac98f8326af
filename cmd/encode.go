package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tokamak-network/dao-action-builder/calldata"
	"github.com/tokamak-network/dao-action-builder/logging/colors"
)

// encodeCmd represents the command provider for encode
var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encodes the calldata of a function call",
	Long: `Encodes the calldata of a function call, given an ABI (--abi or --method), a function and its parameters.

Example:
  actionbuilder encode --method erc20 --function "transfer(address,uint256)" \
    --param to=0x1111111111111111111111111111111111111111 --param amount=1000`,
	Args:              cobra.NoArgs,
	ValidArgsFunction: cmdValidUnusedFlags,
	RunE:              cmdRunEncode,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	// Prevent alphabetical sorting of usage message
	encodeCmd.Flags().SortFlags = false

	addABISourceFlags(encodeCmd)
	encodeCmd.Flags().String("function", "", FunctionFlagDescription)
	encodeCmd.Flags().StringArray("param", []string{}, ParamFlagDescription)
	encodeCmd.Flags().Bool("json", false, "print the result as JSON")
	_ = encodeCmd.MarkFlagRequired("function")

	rootCmd.AddCommand(encodeCmd)
}

// encodeOutput is the JSON output of the encode command.
type encodeOutput struct {
	Calldata          string `json:"calldata"`
	FunctionSignature string `json:"functionSignature"`
	FunctionName      string `json:"functionName"`
}

// cmdRunEncode executes the encode CLI command
func cmdRunEncode(cmd *cobra.Command, args []string) error {
	projectConfig, err := loadProjectConfig(cmd)
	if err != nil {
		cmdLogger.Error("Failed to run the encode command", err)
		return err
	}
	methods, store, err := loadRegistry(projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the encode command", err)
		return err
	}
	if store != nil {
		defer store.Close()
	}

	functions, _, err := resolveABI(cmd, methods)
	if err != nil {
		cmdLogger.Error("Failed to run the encode command", err)
		return err
	}

	function, _ := cmd.Flags().GetString("function")
	pairs, _ := cmd.Flags().GetStringArray("param")
	params, err := parseParams(pairs)
	if err != nil {
		cmdLogger.Error("Failed to run the encode command", err)
		return err
	}

	// A function given without parentheses is looked up by name
	var result *calldata.EncodeResult
	if strings.Contains(function, "(") {
		result, err = calldata.EncodeCalldata(functions, function, params)
	} else {
		result, err = calldata.EncodeCalldataByName(functions, function, params)
	}
	if err != nil {
		cmdLogger.Error("Failed to encode ", colors.Bold, function, colors.Reset, err)
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(cmd.OutOrStdout(), encodeOutput{
			Calldata:          result.Calldata,
			FunctionSignature: result.FunctionSignature,
			FunctionName:      result.FunctionName,
		})
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Calldata)
	return err
}
