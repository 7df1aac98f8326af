package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tokamak-network/dao-action-builder/abi"
	"github.com/tokamak-network/dao-action-builder/config"
	"github.com/tokamak-network/dao-action-builder/logging/colors"
	"github.com/tokamak-network/dao-action-builder/registry"
)

// methodsCmd represents the command provider for methods
var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "Manages predefined methods",
	Long: `Lists and shows the predefined methods (named ABIs of token standards and DAO contracts), and adds or removes
user-defined methods kept in the method store.`,
}

var methodsListCmd = &cobra.Command{
	Use:           "list",
	Short:         "Lists the predefined methods",
	Args:          cobra.NoArgs,
	RunE:          cmdRunMethodsList,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var methodsShowCmd = &cobra.Command{
	Use:           "show <id>",
	Short:         "Shows the state-changing functions of a predefined method",
	Args:          cobra.ExactArgs(1),
	RunE:          cmdRunMethodsShow,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var methodsAddCmd = &cobra.Command{
	Use:           "add <file>",
	Short:         "Adds a predefined method from a JSON file to the method store",
	Args:          cobra.ExactArgs(1),
	RunE:          cmdRunMethodsAdd,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var methodsRemoveCmd = &cobra.Command{
	Use:           "remove <id>",
	Short:         "Removes a predefined method from the method store",
	Args:          cobra.ExactArgs(1),
	RunE:          cmdRunMethodsRemove,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	methodsCmd.PersistentFlags().String("store", "", "path to the method store (overrides the registry.storePath config option)")
	methodsShowCmd.Flags().Bool("all", false, "include view and pure functions")

	methodsCmd.AddCommand(methodsListCmd, methodsShowCmd, methodsAddCmd, methodsRemoveCmd)
	rootCmd.AddCommand(methodsCmd)
}

// loadMethodsConfig reads the project configuration and applies the --store flag.
func loadMethodsConfig(cmd *cobra.Command) (*config.ProjectConfig, error) {
	projectConfig, err := loadProjectConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("store") {
		projectConfig.Registry.StorePath, err = cmd.Flags().GetString("store")
		if err != nil {
			return nil, err
		}
	}
	return projectConfig, nil
}

// openMethodStore opens the configured method store, failing if none is configured.
func openMethodStore(projectConfig *config.ProjectConfig) (*registry.Store, error) {
	if projectConfig.Registry.StorePath == "" {
		return nil, fmt.Errorf("no method store configured: use --store or the registry.storePath config option")
	}
	return registry.OpenStore(projectConfig.Registry.StorePath)
}

// cmdRunMethodsList executes the methods list CLI command
func cmdRunMethodsList(cmd *cobra.Command, args []string) error {
	projectConfig, err := loadMethodsConfig(cmd)
	if err != nil {
		cmdLogger.Error("Failed to run the methods list command", err)
		return err
	}
	methods, store, err := loadRegistry(projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the methods list command", err)
		return err
	}
	if store != nil {
		defer store.Close()
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tFUNCTIONS\tADDRESS")
	for _, method := range methods.GetAll() {
		address, ok := method.AddressFor(projectConfig.Network)
		if !ok {
			address = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", method.ID, method.Name, len(abi.FilterStateChangingFunctions(method.ABI)), address)
	}
	return w.Flush()
}

// cmdRunMethodsShow executes the methods show CLI command
func cmdRunMethodsShow(cmd *cobra.Command, args []string) error {
	projectConfig, err := loadMethodsConfig(cmd)
	if err != nil {
		cmdLogger.Error("Failed to run the methods show command", err)
		return err
	}
	methods, store, err := loadRegistry(projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the methods show command", err)
		return err
	}
	if store != nil {
		defer store.Close()
	}

	method, ok := methods.Get(args[0])
	if !ok {
		err = fmt.Errorf("unknown predefined method %q", args[0])
		cmdLogger.Error("Failed to run the methods show command", err)
		return err
	}

	functions := abi.FilterStateChangingFunctions(method.ABI)
	if all, _ := cmd.Flags().GetBool("all"); all {
		functions = method.ABI
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s\n", method.Name, method.Description)
	for _, network := range []string{registry.NetworkMainnet, registry.NetworkSepolia} {
		if address, ok := method.AddressFor(network); ok {
			fmt.Fprintf(out, "  %s: %s\n", network, address)
		}
	}
	for _, fn := range functions {
		signature, err := abi.FunctionSignature(fn)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  %s %s [%s]\n", abi.SelectorHex(signature), signature, fn.StateMutability)
	}
	return nil
}

// cmdRunMethodsAdd executes the methods add CLI command
func cmdRunMethodsAdd(cmd *cobra.Command, args []string) error {
	projectConfig, err := loadMethodsConfig(cmd)
	if err != nil {
		cmdLogger.Error("Failed to run the methods add command", err)
		return err
	}
	method, err := registry.LoadPredefinedMethodFile(args[0])
	if err != nil {
		cmdLogger.Error("Failed to run the methods add command", err)
		return err
	}

	store, err := openMethodStore(projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the methods add command", err)
		return err
	}
	defer store.Close()

	err = store.Put(*method)
	if err != nil {
		cmdLogger.Error("Failed to run the methods add command", err)
		return err
	}
	cmdLogger.Info("Added predefined method ", colors.Bold, method.ID, colors.Reset, " to ", store.Path())
	return nil
}

// cmdRunMethodsRemove executes the methods remove CLI command
func cmdRunMethodsRemove(cmd *cobra.Command, args []string) error {
	projectConfig, err := loadMethodsConfig(cmd)
	if err != nil {
		cmdLogger.Error("Failed to run the methods remove command", err)
		return err
	}
	store, err := openMethodStore(projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the methods remove command", err)
		return err
	}
	defer store.Close()

	removed, err := store.Delete(args[0])
	if err != nil {
		cmdLogger.Error("Failed to run the methods remove command", err)
		return err
	}
	if !removed {
		err = fmt.Errorf("predefined method %q is not in the method store", args[0])
		cmdLogger.Error("Failed to run the methods remove command", err)
		return err
	}
	cmdLogger.Info("Removed predefined method ", colors.Bold, args[0], colors.Reset, " from ", store.Path())
	return nil
}
