package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/foundry/config"
)

var (
	cfgPath   string
	inputPath string
	format    string
)

var rootCmd = &cobra.Command{
	Use:           "foundry",
	Short:         "Production scheduler that maximises a terminal resource",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
	rootCmd.PersistentFlags().StringVarP(&inputPath, "input", "i", "", "economy definitions, overrides input.path")
	rootCmd.PersistentFlags().StringVar(&format, "input-format", "", "input format: text, yaml or json")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// loadConfig reads the configuration and applies the persistent flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if inputPath != "" {
		cfg.Input.Path = inputPath
	}
	if format != "" {
		cfg.Input.Format = format
	}
	cfg.Input.SetDefaults()
	if err := cfg.Input.Validate(); err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	return cfg, nil
}
