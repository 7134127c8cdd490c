package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/demrdev/canl-dinleme/configs"
	"github.com/demrdev/canl-dinleme/logging"
)

var (
	configFile   string
	verbose      bool
	logLevel     string
	outputFormat string

	// appConfig is loaded once flags are parsed
	appConfig *configs.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "canl-dinleme",
	Short: "Heuristic sound-scene analysis for WAV recordings",
	Long: `canl-dinleme analyzes short frames of audio to guess what is making a
sound, how far away it is and which side it comes from, and looks for a
periodic low-frequency pulse.

Commands:
- analyze:   per-frame sound category and distance
- direction: per-frame left/right direction from a stereo file
- rhythm:    pulse rate and periodicity (DEMO ONLY - not for medical use)
- config:    print the effective configuration

All thresholds are hand-authored heuristics; no trained model is involved.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default is $HOME/.config/canl-dinleme/canl-dinleme.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table",
		"output format (table, json, yaml)")

	bindFlags(rootCmd.PersistentFlags(), map[string]string{
		"verbose":       "verbose",
		"log_level":     "log-level",
		"output_format": "output",
	})
}

// bindFlags binds config keys to flag names
func bindFlags(flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %q: %v", name, err))
		}
	}
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "canl-dinleme"))
		}
		viper.AddConfigPath("/etc/canl-dinleme")
		viper.AddConfigPath("./configs")
		viper.SetConfigName("canl-dinleme")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("CANL_DINLEME")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	} else if configFile != "" {
		fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", configFile, err)
		os.Exit(1)
	}
}

// initializeConfig decodes and validates the configuration and installs the
// global logger. Logs go to stderr so stdout carries only results.
func initializeConfig() error {
	cfg, err := configs.LoadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	if err := configs.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Verbose {
		level = logging.DebugLevel
	}

	logger := logging.NewDefaultLoggerWithWriters(os.Stderr, os.Stderr)
	logger.SetLevel(level)
	logging.SetGlobalLogger(logger)

	appConfig = cfg
	return nil
}
