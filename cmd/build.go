package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tokamak-network/dao-action-builder/actions"
	"github.com/tokamak-network/dao-action-builder/logging/colors"
)

// buildCmd represents the command provider for build
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Builds an action ready to be submitted in an agenda or proposal",
	Long: `Builds an action: the contract address, the calldata and the value of a contract call, printed as JSON.

Example:
  actionbuilder build --method tokamak-dao-committee --network sepolia \
    --function "setDaoVault(address)" --param _daoVault=0x1111111111111111111111111111111111111111`,
	Args:              cobra.NoArgs,
	ValidArgsFunction: cmdValidUnusedFlags,
	RunE:              cmdRunBuild,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	// Add all the flags allowed for the build command
	err := addBuildFlags()
	if err != nil {
		cmdLogger.Panic("Failed to initialize the build command", err)
	}

	// Add the build command and its associated flags to the root command
	rootCmd.AddCommand(buildCmd)
}

// cmdRunBuild executes the build CLI command
func cmdRunBuild(cmd *cobra.Command, args []string) error {
	projectConfig, err := loadProjectConfig(cmd)
	if err != nil {
		cmdLogger.Error("Failed to run the build command", err)
		return err
	}
	err = updateProjectConfigWithBuildFlags(cmd, projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the build command", err)
		return err
	}

	methods, store, err := loadRegistry(projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the build command", err)
		return err
	}
	if store != nil {
		defer store.Close()
	}

	functions, method, err := resolveABI(cmd, methods)
	if err != nil {
		cmdLogger.Error("Failed to run the build command", err)
		return err
	}

	value, err := getBuildValue(cmd)
	if err != nil {
		cmdLogger.Error("Failed to run the build command", err)
		return err
	}

	function, _ := cmd.Flags().GetString("function")
	pairs, _ := cmd.Flags().GetStringArray("param")
	params, err := parseParams(pairs)
	if err != nil {
		cmdLogger.Error("Failed to run the build command", err)
		return err
	}

	builder := actions.NewActionBuilder()
	if method != nil {
		builder.SetPredefinedMethod(*method, projectConfig.Network)
	} else {
		builder.SetABI(functions)
	}
	if address, _ := cmd.Flags().GetString("address"); address != "" {
		builder.SetContractAddress(address)
	}
	if builder.Input().ContractAddress == "" {
		err = fmt.Errorf("no contract address: use --address, or a --method deployed on %s", projectConfig.Network)
		cmdLogger.Error("Failed to run the build command", err)
		return err
	}
	signature, err := resolveFunctionSignature(functions, function)
	if err != nil {
		cmdLogger.Error("Failed to run the build command", err)
		return err
	}
	builder.SetFunction(signature).SetParameters(paramsToValues(params)).SetValue(value)

	action, err := builder.Build()
	if err != nil {
		cmdLogger.Error("Failed to build ", colors.Bold, function, colors.Reset, err)
		return err
	}
	if projectConfig.Encoding.VerifyRoundTrip {
		if _, err = actions.VerifyAction(action); err != nil {
			cmdLogger.Error("Failed to verify ", colors.Bold, action.FunctionSignature, colors.Reset, err)
			return err
		}
	}

	return writeJSON(cmd.OutOrStdout(), action)
}
