package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yangwenmai/bis/internal/config"
	"github.com/yangwenmai/bis/internal/ui"
)

var (
	// Global flags
	verbose  bool
	seedPath string
	envFiles []string
	theme    string

	cfg    config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bis",
	Short: "Brand Integrity Scoring review queue",
	Long: `bis scores generated marketing assets for visual fidelity and brand
compliance, and lets reviewers approve or send them back for a rewrite.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ui.SetTheme(theme); err != nil {
			return err
		}
		if _, err := config.LoadEnvFiles(envFiles...); err != nil {
			return err
		}
		cfg = config.Load()
		if seedPath != "" {
			cfg.SeedPath = seedPath
		}

		var err error
		logger, err = newLogger(cfg.LogLevel, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func newLogger(level string, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zc.Level = lvl
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zc.Build()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&seedPath, "seed", "", "YAML seed file (default: built-in seed, or SEED_PATH)")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "auto", "Terminal colour theme: auto, dark or light")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "Env files to load (default: .env.local,.env)")

	seedCmd.AddCommand(seedCheckCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(chartsCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
