package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"pngfit/internal/processor"
	"pngfit/internal/report"
	"pngfit/internal/tui"
)

func runOptimize(cmd *cobra.Command, args []string) error {
	opts := cfg.Options()
	title := "pngfit"
	if opts.Preview {
		title = "pngfit (dry run)"
	}

	rep, err := withProgress(cmd.Context(), title, func(ctx context.Context, updates chan<- processor.ProgressUpdate) (processor.Report, error) {
		return processor.Run(ctx, opts, updates)
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(rep.Records) == 0 {
		fmt.Fprintln(out, noticeStyle.Render(fmt.Sprintf("No PNG files found in '%s'", opts.Directory)))
		return nil
	}

	fmt.Fprintln(out, tui.RenderResults(rep, cfg.HideSkipped))
	fmt.Fprintln(out)
	fmt.Fprintln(out, tui.RenderReportSummary(rep, opts.MaxEdge))

	if cfg.ReportPath != "" {
		if err := report.WriteYAML(cfg.ReportPath, rep, opts); err != nil {
			return err
		}
		outPath := cfg.ReportPath
		if abs, absErr := filepath.Abs(outPath); absErr == nil {
			outPath = abs
		}
		fmt.Fprintf(out, "Report written to: %s\n", outPath)
	}
	return nil
}

// withProgress runs fn while a bubbletea display consumes its updates. The
// display is skipped when progress output is disabled.
func withProgress(
	ctx context.Context,
	title string,
	fn func(context.Context, chan<- processor.ProgressUpdate) (processor.Report, error),
) (processor.Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !progressEnabled() {
		return fn(ctx, nil)
	}

	updates := make(chan processor.ProgressUpdate, 64)
	model := tui.NewModel(title, updates)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))

	uiDone := make(chan struct{})
	go func() {
		_, _ = program.Run()
		// Keep the producer unblocked if the display exits early.
		for range updates {
		}
		close(uiDone)
	}()

	rep, err := fn(ctx, updates)
	close(updates)
	<-uiDone
	return rep, err
}

var noticeStyle = lipgloss.NewStyle().Foreground(tui.ColorWarn)
