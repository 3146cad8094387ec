package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"pngfit/internal/processor"
)

type SummaryRow struct {
	Label string
	Value string
}

// RenderSummary lays rows out as an aligned two-column block.
func RenderSummary(rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
		if len(row.Value) > valueWidth {
			valueWidth = len(row.Value)
		}
	}

	hline := strings.Repeat("-", labelWidth+valueWidth+3)
	lines := []string{hline}

	for _, row := range rows {
		label := padRight(row.Label, labelWidth)
		value := padRight(row.Value, valueWidth)
		line := fmt.Sprintf("%s | %s", labelStyle.Render(label), valueStyle.Render(value))
		lines = append(lines, line)
	}

	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

// ReportRows builds the summary rows for a finished run.
func ReportRows(report processor.Report, maxEdge int) []SummaryRow {
	rows := []SummaryRow{
		{Label: "Resized", Value: fmt.Sprintf("%d", report.Transformed)},
		{Label: "Already optimal", Value: fmt.Sprintf("%d", report.Skipped)},
		{Label: "Failed", Value: fmt.Sprintf("%d", report.Failed)},
		{Label: "Before (resized files)", Value: FormatSize(report.TotalOrig)},
		{Label: "After (resized files)", Value: FormatSize(report.TotalNew)},
		{Label: "Saved", Value: fmt.Sprintf("%s (%.1f%%)", FormatSize(report.Savings), report.SavingsPct)},
		{Label: "Max edge", Value: fmt.Sprintf("%d px", maxEdge)},
		{Label: "Scan time", Value: report.ScanDuration.Round(time.Millisecond).String()},
		{Label: "Resize time", Value: report.Elapsed.Round(time.Millisecond).String()},
		{Label: "Throughput", Value: fmt.Sprintf("%.1f img/s", report.Throughput)},
	}
	if report.StrippedTags > 0 {
		rows = append(rows, SummaryRow{Label: "EXIF tags dropped", Value: fmt.Sprintf("%d", report.StrippedTags)})
	}
	return rows
}

// RenderReportSummary renders the mode banner followed by the summary rows.
func RenderReportSummary(report processor.Report, maxEdge int) string {
	banner := successStyle.Render("Optimization complete")
	if report.Preview {
		banner = warnStyle.Render("DRY RUN: sizes are estimates, no files were changed")
	}
	return banner + "\n" + RenderSummary(ReportRows(report, maxEdge))
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

var (
	valueStyle   = lipgloss.NewStyle().Foreground(ColorInk).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(ColorWarn).Bold(true)
)
