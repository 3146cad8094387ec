package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"pngfit/internal/processor"
	"pngfit/internal/tui"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List PNG files that exceed the maximum edge without modifying them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cfg.Options()
		worklist, skipped, err := processor.ScanDirectory(cmd.Context(), opts, nil)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(worklist) == 0 && len(skipped) == 0 {
			fmt.Fprintln(out, noticeStyle.Render(fmt.Sprintf("No PNG files found in '%s'", opts.Directory)))
			return nil
		}

		fmt.Fprintf(out, "%s\n", scanHeaderStyle.Render(fmt.Sprintf("Needs resizing (%d)", len(worklist))))
		if len(worklist) == 0 {
			fmt.Fprintf(out, "  %s %s\n", scanBulletStyle.Render("-"), scanDimStyle.Render("none"))
		}
		for _, item := range worklist {
			detail := "unreadable header"
			if item.Dims.Area() > 0 {
				target := processor.TargetDimensions(item.Dims, opts.MaxEdge)
				detail = fmt.Sprintf("%s → %s, %s", item.Dims, target, tui.FormatSize(item.Size))
			}
			fmt.Fprintf(out, "  %s %s %s\n",
				scanBulletStyle.Render("-"),
				scanFileStyle.Render(filepath.Base(item.Path)),
				scanValueStyle.Render(detail),
			)
		}

		if cfg.HideSkipped {
			return nil
		}
		fmt.Fprintf(out, "\n%s\n", scanHeaderStyle.Render(fmt.Sprintf("Already optimal (%d)", len(skipped))))
		for _, rec := range skipped {
			fmt.Fprintf(out, "  %s %s %s\n",
				scanBulletStyle.Render("-"),
				scanFileStyle.Render(filepath.Base(rec.Path)),
				scanDimStyle.Render(rec.OriginalDims.String()),
			)
		}
		return nil
	},
}

var (
	scanHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccentAlt)
	scanFileStyle   = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)
	scanValueStyle  = lipgloss.NewStyle().Foreground(tui.ColorInk)
	scanDimStyle    = lipgloss.NewStyle().Foreground(tui.ColorDim)
	scanBulletStyle = lipgloss.NewStyle().Foreground(tui.ColorDim)
)

func init() {
	rootCmd.AddCommand(scanCmd)
}
