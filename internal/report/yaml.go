// Package report writes a finished run to disk as YAML.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"pngfit/internal/processor"
)

// RunConfig echoes the settings the run used.
type RunConfig struct {
	Directory string `yaml:"directory"`
	MaxEdge   int    `yaml:"max_edge"`
	DryRun    bool   `yaml:"dry_run"`
	Backup    bool   `yaml:"backup"`
	Workers   int    `yaml:"workers"`
	Force     bool   `yaml:"force"`
	Timestamp string `yaml:"timestamp"`
}

// FileResult is one row of the report.
type FileResult struct {
	Path         string `yaml:"path"`
	Status       string `yaml:"status"`
	OriginalSize int64  `yaml:"original_size"`
	OriginalDims string `yaml:"original_dimensions"`
	NewSize      *int64 `yaml:"new_size,omitempty"`
	NewDims      string `yaml:"new_dimensions,omitempty"`
	Savings      *int64 `yaml:"savings,omitempty"`
	Estimated    bool   `yaml:"estimated,omitempty"`
	StrippedTags int    `yaml:"stripped_exif_tags,omitempty"`
	Error        string `yaml:"error,omitempty"`
}

type Totals struct {
	Transformed    int     `yaml:"transformed"`
	Skipped        int     `yaml:"skipped"`
	Failed         int     `yaml:"failed"`
	OriginalBytes  int64   `yaml:"original_bytes"`
	NewBytes       int64   `yaml:"new_bytes"`
	SavedBytes     int64   `yaml:"saved_bytes"`
	SavedPercent   float64 `yaml:"saved_percent"`
	ScanSeconds    float64 `yaml:"scan_seconds"`
	ResizeSeconds  float64 `yaml:"resize_seconds"`
	ImagesPerSec   float64 `yaml:"images_per_second"`
	DroppedExifTag int     `yaml:"dropped_exif_tags"`
}

// Document is the top-level YAML layout.
type Document struct {
	Config  RunConfig    `yaml:"config"`
	Totals  Totals       `yaml:"totals"`
	Results []FileResult `yaml:"results"`
}

// Build converts a report into its YAML document.
func Build(rep processor.Report, opts processor.Options, now time.Time) Document {
	doc := Document{
		Config: RunConfig{
			Directory: opts.Directory,
			MaxEdge:   opts.MaxEdge,
			DryRun:    opts.Preview,
			Backup:    opts.Backup,
			Workers:   opts.Workers,
			Force:     opts.Force,
			Timestamp: now.Format(time.RFC3339),
		},
		Totals: Totals{
			Transformed:    rep.Transformed,
			Skipped:        rep.Skipped,
			Failed:         rep.Failed,
			OriginalBytes:  rep.TotalOrig,
			NewBytes:       rep.TotalNew,
			SavedBytes:     rep.Savings,
			SavedPercent:   rep.SavingsPct,
			ScanSeconds:    rep.ScanDuration.Seconds(),
			ResizeSeconds:  rep.Elapsed.Seconds(),
			ImagesPerSec:   rep.Throughput,
			DroppedExifTag: rep.StrippedTags,
		},
		Results: make([]FileResult, 0, len(rep.Records)),
	}

	for _, rec := range rep.Records {
		row := FileResult{
			Path:         rec.Path,
			Status:       rec.Status().String(),
			OriginalSize: rec.OriginalSize,
			OriginalDims: rec.OriginalDims.String(),
		}
		if n, ok := rec.NewSize(); ok {
			row.NewSize = &n
		}
		if d, ok := rec.NewDims(); ok {
			row.NewDims = d.String()
		}
		if s, ok := rec.Savings(); ok {
			row.Savings = &s
		}
		if o, ok := rec.Outcome.(processor.Transformed); ok {
			row.Estimated = o.Estimated
			row.StrippedTags = o.StrippedTags
		}
		if err := rec.Err(); err != nil {
			row.Error = err.Error()
		}
		doc.Results = append(doc.Results, row)
	}
	return doc
}

// WriteYAML writes the report document to path, creating parent directories.
func WriteYAML(path string, rep processor.Report, opts processor.Options) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	data, err := yaml.Marshal(Build(rep, opts, time.Now()))
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
