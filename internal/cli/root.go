// Package cli wires the lossrun commands: extract, batch, consolidate,
// config and version.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/lossrun/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "lossrun",
	Short: "Lossrun - structured claim extraction from insurance loss-run documents",
	Long: `Lossrun turns free-form insurance loss-run documents into structured
claim records grouped by line of business (AUTO, GENERAL LIABILITY, WC).

Documents are classified and extracted through an LLM oracle when one is
configured, with deterministic keyword and tabular fallbacks when it is
not or when it misbehaves. Results land in per-LOB XLSX workbooks plus a
combined result.xlsx.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("lossrun v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.lossrun/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.lossrun")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match LOSSRUN_*
	viper.SetEnvPrefix("LOSSRUN")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the runtime configuration: defaults overlaid with
// the config file and LOSSRUN_* environment variables.
func loadConfig() (model.Config, error) {
	cfg := *model.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parse configuration: %w", err)
	}
	cfg.Output.Verbose = cfg.Output.Verbose || verbose
	return cfg, nil
}

// resolveOracleEnv fills provider credentials from the environment. A
// selected provider with no key is a configuration error; nothing should
// run halfway through a batch before failing on authentication.
func resolveOracleEnv(cfg *model.Config) error {
	switch cfg.Oracle.Provider {
	case "openai":
		if cfg.Oracle.APIKey == "" {
			cfg.Oracle.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.Oracle.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.Oracle.Provider = "anthropic"
		if cfg.Oracle.APIKey == "" {
			cfg.Oracle.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if cfg.Oracle.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && cfg.Oracle.BaseURL == "" {
			cfg.Oracle.BaseURL = baseURL
		}
	}
	return nil
}
