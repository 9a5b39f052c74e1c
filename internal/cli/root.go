// Package cli implements the ryzenctl command-line interface using Cobra.
package cli

import (
	"fmt"
	"os"

	"codeberg.org/mutker/ryzenctl/internal/config"
	"codeberg.org/mutker/ryzenctl/internal/errors"
	"codeberg.org/mutker/ryzenctl/internal/logger"
	"github.com/spf13/cobra"
)

var (
	configFile string
	jsonOutput bool
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ryzenctl",
	Short: "Classify Ryzen processors and apply RyzenAdj power presets",
	Long: `ryzenctl detects the processor, picks the matching RyzenAdj preset group
and applies Eco, Balance, Performance, Extreme or custom limits, once or on an
interval. Dynamic mode switches between Extreme on AC and Eco on battery.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Path to ryzenctl.toml")
	flags.String("log-level", config.DefaultLogLevel, "Log level (debug, info, warning, error)")
	flags.String("data-dir", config.DefaultDataDir(), "Directory for state, telemetry and bundled binaries")
	flags.String("ryzenadj", "", "Path to the RyzenAdj binary")
	flags.String("dmidecode", "", "Path to the dmidecode binary")
	flags.String("catalog", "", "Preset catalog override file")
	flags.BoolVar(&jsonOutput, "json", false, "Print machine-readable output")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	opts := []config.Option{config.WithFlags(cmd.Flags())}
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}

	var err error
	cfg, err = config.Load(opts...)
	if err != nil {
		return err
	}

	level, ok := logger.ParseLevel(cfg.LogLevel)
	if !ok {
		return errors.New().WithData(errors.ErrInvalidLogLevel, cfg.LogLevel)
	}
	logger.InitWithWriter(os.Stderr, level, logger.IsService())
	logger.Debug().
		Str("data_dir", cfg.DataDir).
		Int("interval", cfg.Interval).
		Msg("Config loaded")

	return nil
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch errors.CodeOf(err) {
	case errors.ErrNotReady, errors.ErrUnsupportedPlatform:
		return 3
	case errors.ErrAlreadyRunning, errors.ErrApplyBusy:
		return 4
	default:
		return 1
	}
}
