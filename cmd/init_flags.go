package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tokamak-network/dao-action-builder/config"
)

// addInitFlags adds the various flags for the init command
func addInitFlags() error {
	// Output path for configuration
	initCmd.Flags().String("out", "", "output path for the new project configuration file")

	// Network and method store
	initCmd.Flags().String("network", "", "network whose deployment addresses are used (mainnet or sepolia)")
	initCmd.Flags().String("store", "", "path to the method store keeping user-defined methods")

	// Overwrite without asking
	initCmd.Flags().Bool("force", false, "overwrite an existing configuration file without asking")

	return nil
}

// updateProjectConfigWithInitFlags will update the given projectConfig with any CLI arguments that were provided to the init command
func updateProjectConfigWithInitFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	var err error

	// If --network was used
	if cmd.Flags().Changed("network") {
		projectConfig.Network, err = cmd.Flags().GetString("network")
		if err != nil {
			return err
		}
	}

	// If --store was used
	if cmd.Flags().Changed("store") {
		projectConfig.Registry.StorePath, err = cmd.Flags().GetString("store")
		if err != nil {
			return err
		}
	}

	return nil
}
