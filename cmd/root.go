package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"pngfit/internal/config"
)

var (
	configPath string
	noProgress bool
	flagCfg    = config.Default()

	// cfg is resolved in PersistentPreRunE and read by every command.
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "pngfit",
	Short: "pngfit - shrink PNG images to a maximum edge length",
	Long: `pngfit scales every PNG in a directory down so that its longest edge fits
the given maximum (1568px by default), keeping the aspect ratio, and re-encodes
it with maximum compression. Images that already fit are left alone.`,
	Example: `  # Preview what would change in ./slides
  pngfit -d slides --dry-run

  # Resize in place, keeping .bak copies of the originals
  pngfit -d slides --backup

  # Only list the files that exceed 1024px
  pngfit scan -d slides -m 1024`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	PersistentPreRunE: resolveConfig,
	RunE:              runOptimize,
}

// Execute runs the root command and exits non-zero on failure.
func Execute(version string) {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&flagCfg.Directory, "directory", "d", flagCfg.Directory, "directory containing PNG files")
	flags.IntVarP(&flagCfg.MaxEdge, "max-size", "m", flagCfg.MaxEdge, "maximum pixel size of the longest edge")
	flags.BoolVarP(&flagCfg.Force, "force", "f", false, "process every file, even those already within bounds")
	flags.BoolVar(&flagCfg.HideSkipped, "hide-skipped", false, "omit already-optimal files from the output")
	flags.BoolVarP(&flagCfg.Verbose, "verbose", "v", false, "debug logging (disables the progress display)")
	flags.StringVar(&configPath, "config", "", "YAML config file")
	flags.BoolVar(&noProgress, "no-progress", false, "disable the interactive progress display")

	rootCmd.Flags().BoolVarP(&flagCfg.DryRun, "dry-run", "n", false, "estimate results without modifying files")
	rootCmd.Flags().BoolVarP(&flagCfg.Backup, "backup", "b", false, "keep a .bak copy of each file before overwriting it")
	rootCmd.Flags().IntVarP(&flagCfg.Workers, "workers", "w", flagCfg.Workers, "number of parallel workers")
	rootCmd.Flags().StringVar(&flagCfg.ReportPath, "report", "", "write a YAML report to this path")
}

// resolveConfig layers defaults, the config file, PNGFIT_* variables and
// explicitly set flags, in that order.
func resolveConfig(cmd *cobra.Command, args []string) error {
	// Load .env file if present (ignore errors)
	_ = godotenv.Load()

	resolved, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := resolved.ApplyEnv(); err != nil {
		return err
	}
	applyFlags(cmd, &resolved)
	if err := resolved.Validate(); err != nil {
		return err
	}
	cfg = resolved

	setupLogging(cfg.Verbose, progressEnabled())
	slog.Debug("configuration resolved", "directory", cfg.Directory, "max_edge", cfg.MaxEdge, "workers", cfg.Workers)
	return nil
}

func applyFlags(cmd *cobra.Command, dst *config.Config) {
	set := cmd.Flags().Changed
	if set("directory") {
		dst.Directory = flagCfg.Directory
	}
	if set("max-size") {
		dst.MaxEdge = flagCfg.MaxEdge
	}
	if set("force") {
		dst.Force = flagCfg.Force
	}
	if set("hide-skipped") {
		dst.HideSkipped = flagCfg.HideSkipped
	}
	if set("verbose") {
		dst.Verbose = flagCfg.Verbose
	}
	if set("dry-run") {
		dst.DryRun = flagCfg.DryRun
	}
	if set("backup") {
		dst.Backup = flagCfg.Backup
	}
	if set("workers") {
		dst.Workers = flagCfg.Workers
	}
	if set("report") {
		dst.ReportPath = flagCfg.ReportPath
	}
}

// progressEnabled reports whether the bubbletea display should run.
func progressEnabled() bool {
	return !noProgress && !cfg.Verbose && isatty.IsTerminal(os.Stdout.Fd())
}

func setupLogging(verbose, progress bool) {
	level := slog.LevelWarn
	switch {
	case verbose:
		level = slog.LevelDebug
	case progress:
		// Failures are listed in the result table; keep the display clean.
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}
