// Package cmd implements the entrypoints command line.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/entrypoints/internal/config"
	"github.com/zjrosen/entrypoints/internal/log"
	"github.com/zjrosen/entrypoints/internal/presentation"
)

const (
	localConfigPath = ".entrypoints/config.yaml"
	debugLogFile    = "debug.log"
)

var (
	version      = "dev"
	cfgFile      string
	cfg          config.Config
	outputFormat string
	logLevel     string
	logCleanup   func()
)

var rootCmd = &cobra.Command{
	Use:   "entrypoints",
	Short: "Inspect and resolve plugin entry points",
	Long: `Inspect and resolve plugin entry points.

Entry points are named references to implementations, grouped under catalog
groups such as ns.schedulers or ns.calculations. They are declared in
plugins/<package>/entry_points.yaml manifests, either bundled with this binary
or found under the configured plugin directories.

Identifiers come in three formats:
  full      ns.schedulers:slurm
  partial   schedulers:slurm
  minimal   slurm`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
	PersistentPostRun: func(*cobra.Command, []string) {
		if logCleanup != nil {
			logCleanup()
			logCleanup = nil
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/entrypoints/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", presentation.OutputJSON,
		"output format: json or table")
	rootCmd.PersistentFlags().Bool("debug", false,
		"write debug logs to "+debugLogFile)
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "debug",
		"minimum level written to the debug log: debug, info, warn or error")

	// Bind flags to viper
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindEnv("debug", "ENTRYPOINTS_DEBUG")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("source", defaults.Source)
	viper.SetDefault("plugin_dirs", defaults.PluginDirs)
	viper.SetDefault("index_path", defaults.IndexPath)
	viper.SetDefault("cache.enabled", defaults.Cache.Enabled)
	viper.SetDefault("cache.ttl", defaults.Cache.TTL)
	viper.SetDefault("debounce", defaults.Debounce)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)
	viper.SetDefault("flags", defaults.Flags)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .entrypoints/config.yaml (current directory)
		// 2. ~/.config/entrypoints/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "entrypoints"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at the user config path
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if defaultPath := userConfigPath(); defaultPath != "" {
				if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
					viper.SetConfigFile(defaultPath)
					_ = viper.ReadInConfig()
				}
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "entrypoints", "config.yaml")
}

// configFilePath is where config-editing commands write.
func configFilePath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	if p := userConfigPath(); p != "" {
		return p
	}
	return localConfigPath
}

func setupLogging(_ *cobra.Command, _ []string) error {
	if !presentation.ValidOutput(outputFormat) {
		return fmt.Errorf("invalid --output %q: must be %q or %q",
			outputFormat, presentation.OutputJSON, presentation.OutputTable)
	}
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	if !cfg.Debug && !viper.GetBool("debug") {
		return nil
	}
	cleanup, err := log.Init(debugLogFile)
	if err != nil {
		return fmt.Errorf("enabling debug log: %w", err)
	}
	logCleanup = cleanup
	log.SetMinLevel(level)
	log.Debug(log.CatCLI, "debug logging enabled", "config", viper.ConfigFileUsed())
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
