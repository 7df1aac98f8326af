package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/tokamak-network/dao-action-builder/config"
	"github.com/tokamak-network/dao-action-builder/logging"
	"github.com/tokamak-network/dao-action-builder/logging/colors"
	"github.com/tokamak-network/dao-action-builder/utils"
	"github.com/tokamak-network/dao-action-builder/version"
)

// cmdLogger is the logger used by the CLI itself. It always writes to the console, independent of the project
// configuration.
var cmdLogger = logging.NewLogger(zerolog.InfoLevel, true).NewSubLogger("module", logging.CLI_SERVICE)

var rootCmd = &cobra.Command{
	Use:     "actionbuilder",
	Short:   "Builds and decodes contract calls for DAO agendas",
	Long:    "actionbuilder encodes and decodes Ethereum contract calldata and assembles the actions of DAO agendas and proposals",
	Version: version.GetInfo().Short(),
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to config file (default is ./"+config.DefaultProjectConfigFilename+")")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadProjectConfig obtains the project configuration and sets up logging accordingly:
// #1: If --config was used, the file must exist and is read.
// #2: Otherwise, actionbuilder.json in the working directory is read if it exists.
// #3: Otherwise, the default project configuration is used.
func loadProjectConfig(cmd *cobra.Command) (*config.ProjectConfig, error) {
	configFlagUsed := cmd.Flags().Changed("config")
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	if !configFlagUsed {
		workingDirectory, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		configPath = filepath.Join(workingDirectory, config.DefaultProjectConfigFilename)
	}

	var projectConfig *config.ProjectConfig
	_, existenceError := os.Stat(configPath)
	switch {
	case existenceError == nil:
		cmdLogger.Debug("Reading the configuration file at: ", colors.Bold, configPath, colors.Reset)
		projectConfig, err = config.ReadProjectConfigFromFile(configPath)
		if err != nil {
			return nil, err
		}
	case configFlagUsed:
		return nil, existenceError
	default:
		projectConfig = config.GetDefaultProjectConfig()
	}

	// Update the network if --network is available on the command and was used
	if flag := cmd.Flags().Lookup("network"); flag != nil && flag.Changed {
		projectConfig.Network = flag.Value.String()
	}

	err = projectConfig.Validate()
	if err != nil {
		return nil, err
	}

	err = setupGlobalLogger(projectConfig.Logging)
	if err != nil {
		return nil, err
	}
	return projectConfig, nil
}

// setupGlobalLogger replaces logging.GlobalLogger with one matching the logging configuration. If a log directory is
// configured, structured logs are additionally written to a new file inside it.
func setupGlobalLogger(loggingConfig config.LoggingConfig) error {
	logger := logging.NewLogger(loggingConfig.Level, loggingConfig.EnableConsoleLogging)
	if loggingConfig.LogDirectory != "" {
		filename := fmt.Sprintf("actionbuilder-%s.log", time.Now().Format("20060102-150405"))
		file, err := utils.CreateFile(loggingConfig.LogDirectory, filename)
		if err != nil {
			return err
		}
		logger.AddWriter(file, logging.STRUCTURED)
	}
	logging.GlobalLogger = logger
	cmdLogger.SetLevel(loggingConfig.Level)
	return nil
}
