package cmd

import (
	"fmt"
	"os"

	"fdk/internal/config"

	"github.com/spf13/cobra"
)

var (
	configInitForce  bool
	configInitFormat string
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage fdk configuration",
	Long: `View and manage the fdk configuration.

Configuration is merged from defaults, a config file, and FDK_*
environment variables. The config file is taken from --config when
given, otherwise searched in /etc/fdk, ~/.config/fdk, and the current
directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// configShowCmd shows current configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration values that are in effect.`,
	RunE:  runConfigShow,
}

// configInitCmd generates default configuration
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate default configuration",
	Long: `Generate a default configuration file.

If a configuration file already exists, this will not overwrite it
unless --force is specified.

Examples:
  fdk config init
  fdk config init --format toml
  fdk config init --force`,
	RunE: runConfigInit,
}

// configPathCmd shows config file path
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config file path",
	Long:  `Display the path to the configuration file being used.`,
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)

	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite existing configuration")
	configInitCmd.Flags().StringVar(&configInitFormat, "format", "yaml", "config file format (yaml, toml, json)")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := NewOutputWriter()

	currentCfg := Config()
	if currentCfg == nil {
		var err error
		currentCfg, err = config.Load(ConfigFile())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	return out.Write(currentCfg)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	out := NewOutputWriter()

	existingPath := config.ConfigFileUsed()
	if existingPath != "" && !configInitForce {
		return fmt.Errorf("config file already exists at %s; use --force to overwrite", existingPath)
	}
	if existingPath != "" {
		if err := os.Remove(existingPath); err != nil {
			return fmt.Errorf("failed to remove existing config: %w", err)
		}
	}

	path, err := config.GenerateConfig(configInitFormat)
	if err != nil {
		return fmt.Errorf("failed to generate config: %w", err)
	}

	out.WriteSuccess(fmt.Sprintf("Configuration initialized at: %s", path))
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := NewOutputWriter()

	if path := ConfigFile(); path != "" {
		return out.Write(path)
	}
	if path := config.ConfigFileUsed(); path != "" {
		return out.Write(path)
	}

	return out.Write("No config file found, using defaults")
}
