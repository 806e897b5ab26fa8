package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	cfgpkg "github.com/KaramelBytes/metamon-cli/internal/config"
	"github.com/KaramelBytes/metamon-cli/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global

	closeLogger = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "metamon",
	Short: "metamon: infer column metadata from tabular files",
	Long: `metamon reads delimited text, JSON lines, YAML and XLSX files and infers, for every column,
a meaning type (empty, binary, categorical, textual or numeric), the storage types present,
unique values and, for numeric columns, min/median/max and bucket boundaries.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	closeLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.metamon/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
	} else {
		cfg = c
	}

	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	seqURL := ""
	if cfg != nil {
		seqURL = cfg.SeqURL
	}
	closeLogger()
	logger, closeFn := logging.Setup(os.Stderr, level, seqURL)
	slog.SetDefault(logger)
	closeLogger = closeFn
	slog.Debug("configuration loaded", "config_file", cfgFile, "seq", seqURL != "")
}
