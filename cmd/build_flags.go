package cmd

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"
	"github.com/tokamak-network/dao-action-builder/config"
)

// addBuildFlags adds the various flags for the build command
func addBuildFlags() error {
	defaultConfig := config.GetDefaultProjectConfig()

	// Prevent alphabetical sorting of usage message
	buildCmd.Flags().SortFlags = false

	// Contract and ABI
	buildCmd.Flags().String("address", "", "address of the called contract (defaults to the deployment of --method on the network)")
	addABISourceFlags(buildCmd)
	buildCmd.Flags().String("network", "",
		fmt.Sprintf("network whose deployment addresses are used (unless a config file is provided, default is %q)", defaultConfig.Network))

	// Call
	buildCmd.Flags().String("function", "", FunctionFlagDescription)
	buildCmd.Flags().StringArray("param", []string{}, ParamFlagDescription)
	buildCmd.Flags().String("value", "", "amount of ether sent with the call, e.g. 0.5")
	buildCmd.Flags().String("value-wei", "", "amount of wei sent with the call")
	buildCmd.MarkFlagsMutuallyExclusive("value", "value-wei")

	// Verification
	buildCmd.Flags().Bool("verify", false,
		fmt.Sprintf("decode and re-encode the built action (unless a config file is provided, default is %t)", defaultConfig.Encoding.VerifyRoundTrip))

	return buildCmd.MarkFlagRequired("function")
}

// updateProjectConfigWithBuildFlags will update the given projectConfig with any CLI arguments that were provided to
// the build command
func updateProjectConfigWithBuildFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	// If --verify was used
	if cmd.Flags().Changed("verify") {
		verify, err := cmd.Flags().GetBool("verify")
		if err != nil {
			return err
		}
		projectConfig.Encoding.VerifyRoundTrip = verify
	}
	return nil
}

// getBuildValue returns the value provided with --value or --value-wei, or nil if neither was used.
func getBuildValue(cmd *cobra.Command) (*big.Int, error) {
	if cmd.Flags().Changed("value") {
		text, err := cmd.Flags().GetString("value")
		if err != nil {
			return nil, err
		}
		return parseEtherValue(text)
	}
	if cmd.Flags().Changed("value-wei") {
		text, err := cmd.Flags().GetString("value-wei")
		if err != nil {
			return nil, err
		}
		return parseWeiValue(text)
	}
	return nil, nil
}
