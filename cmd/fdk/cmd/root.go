// Package cmd provides the CLI commands for fdk.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"fdk/internal/config"
	"fdk/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Process-wide command state, initialized by the root pre-run and torn
// down by the post-run.
var (
	cfgFile string
	cfg     *config.Config
	log     *logger.Logger
	journal *logger.Journal
	cmdCtx  context.Context
	started time.Time

	outputFormat string
	languageFlag string
	verboseMode  bool
)

var rootCmd = &cobra.Command{
	Use:   "fdk",
	Short: "fdk is a catalog client for the SBB FDK API",
	Long: `fdk is a command-line client for the SBB FDK (facility data catalog).
It lists, searches, and groups catalog objects, and maintains a local
object cache for offline use.`,
	TraverseChildren:  true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		teardown()
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(ensureConfigFile)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/fdk/config.yaml)")
	flags.StringVarP(&outputFormat, "output", "o", "table", "output format (json, yaml, table, quiet)")
	flags.StringVarP(&languageFlag, "lang", "l", "", "catalog language (de, fr, it, en)")
	flags.BoolVarP(&verboseMode, "verbose", "v", false, "verbose output (includes full log output)")

	viper.BindPFlag("output.format", flags.Lookup("output"))
	viper.BindPFlag("source.language", flags.Lookup("lang"))
}

// ensureConfigFile writes a default config on first run so users can
// discover the available settings. Explicit --config paths are left
// alone.
func ensureConfigFile() {
	if cfgFile != "" {
		return
	}
	if path, created, err := config.GenerateConfigIfNotExists("yaml"); err == nil && created {
		fmt.Fprintf(os.Stderr, "Created default config at: %s\n", path)
	}
}

// setup loads the configuration, builds the logger and journal, and
// installs the command context every subcommand reads through Context().
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfg, err = config.Load(cfgFile); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("output") {
		cfg.Output.Format = outputFormat
	}
	if cmd.Flags().Changed("lang") {
		cfg.Source.Language = languageFlag
	}

	if log, err = logger.New(cfg.Log); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	setComponentLoggers(log)

	if cfg.Log.JournalPath != "" {
		if journal, err = logger.NewJournal(cfg.Log.JournalPath, cfg.Log.JournalMaxAgeDays); err != nil {
			log.Warn("failed to initialize cache journal", "error", err)
			journal = nil
		}
	}

	cc := logger.NewCommandContext(cmd, args)
	cmdCtx = logger.WithCommandContext(context.Background(), cc)
	started = time.Now()

	log.Debug("command started",
		"command", cc.Command,
		"args", cc.Args,
		"request_id", cc.RequestID,
		"user", cc.User,
		"hostname", cc.Hostname,
		"working_dir", cc.WorkingDir,
	)
	return nil
}

// teardown closes everything setup opened, in reverse order.
func teardown() {
	if log == nil {
		return
	}
	if cc := logger.CommandContextFrom(cmdCtx); cc != nil {
		log.Debug("command completed",
			"command", cc.Command,
			"duration_ms", time.Since(started).Milliseconds(),
			"request_id", cc.RequestID,
		)
	}
	CloseService()
	journal.Close()
	log.Close()
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// ConfigFile returns the --config flag value, empty when unset.
func ConfigFile() string {
	return cfgFile
}

// Log returns the logger instance.
func Log() *logger.Logger {
	return log
}

// Journal returns the cache journal, nil when not configured.
func Journal() *logger.Journal {
	return journal
}

// Context returns the command context for the current invocation.
func Context() context.Context {
	return cmdCtx
}

// OutputFormat returns the effective output format (json, yaml, table,
// quiet), preferring the loaded config over the raw flag.
func OutputFormat() string {
	if cfg != nil && cfg.Output.Format != "" {
		return cfg.Output.Format
	}
	return outputFormat
}

// Language returns the catalog language in effect.
func Language() string {
	if cfg != nil {
		return cfg.Source.Language
	}
	return languageFlag
}

// IsVerbose reports whether --verbose was given.
func IsVerbose() bool {
	return verboseMode
}
