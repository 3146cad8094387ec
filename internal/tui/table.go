package tui

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"pngfit/internal/processor"
)

const (
	colFile = iota
	colBefore
	colAfter
	colSaved
	colPercent
	colDims
)

const maxErrorWidth = 40

// RenderResults draws one row per record. hideSkipped drops skipped rows
// from the table only; it does not change the report.
func RenderResults(report processor.Report, hideSkipped bool) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorDim)).
		Headers("File", "Before", "After", "Saved", "%", "Dimensions")

	var statuses []processor.Status
	for _, rec := range report.Records {
		if hideSkipped && rec.Status() == processor.StatusSkipped {
			continue
		}
		t.Row(resultRow(rec)...)
		statuses = append(statuses, rec.Status())
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		base := lipgloss.NewStyle().Padding(0, 1)
		if row == table.HeaderRow {
			return base.Bold(true).Foreground(ColorAccent)
		}
		if row >= 0 && row < len(statuses) && statuses[row] == processor.StatusFailed && col == colAfter {
			return base.Foreground(ColorError)
		}
		switch col {
		case colBefore:
			return base.Foreground(ColorWarn).Align(lipgloss.Right)
		case colAfter:
			return base.Foreground(ColorSuccess).Align(lipgloss.Right)
		case colSaved, colPercent:
			return base.Foreground(ColorSavings).Align(lipgloss.Right)
		case colDims:
			return base.Foreground(ColorDim)
		default:
			return base.Foreground(ColorInk)
		}
	})

	return t.Render()
}

func resultRow(rec processor.Record) []string {
	name := filepath.Base(rec.Path)
	before := FormatSize(rec.OriginalSize)

	switch o := rec.Outcome.(type) {
	case processor.Failed:
		return []string{name, before, "error", "-", "-", truncate(o.Err.Error(), maxErrorWidth)}
	case processor.Skipped:
		return []string{name, before, before, "-", "-", fmt.Sprintf("%s (unchanged)", rec.OriginalDims)}
	case processor.Transformed:
		after := FormatSize(o.NewSize)
		if o.Estimated {
			after = "~" + after
		}
		saved, pct := "-", "-"
		if diff := rec.OriginalSize - o.NewSize; diff > 0 {
			saved = FormatSize(diff)
			pct = fmt.Sprintf("%.1f%%", float64(diff)/float64(rec.OriginalSize)*100)
		}
		dims := fmt.Sprintf("%s → %s", rec.OriginalDims, o.NewDims)
		if rec.OriginalDims == o.NewDims {
			dims = fmt.Sprintf("%s (unchanged)", rec.OriginalDims)
		}
		return []string{name, before, after, saved, pct, dims}
	default:
		return []string{name, before, "-", "-", "-", "pending"}
	}
}
