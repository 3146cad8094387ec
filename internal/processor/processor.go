package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"
)

var (
	ErrDirectoryNotFound = errors.New("directory does not exist")
	ErrNotDirectory      = errors.New("not a directory")
)

// Run discovers the PNG files in opts.Directory, resizes those exceeding
// opts.MaxEdge and returns the aggregated report. Only a missing or invalid
// directory is returned as an error; per-file problems end up as Failed
// records in the report.
func Run(ctx context.Context, opts Options, updates chan<- ProgressUpdate) (Report, error) {
	scanStart := time.Now()
	worklist, skipped, err := ScanDirectory(ctx, opts, updates)
	if err != nil {
		return Report{Preview: opts.Preview}, err
	}
	scanDuration := time.Since(scanStart)

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	if len(worklist) > 0 {
		slog.Info("dispatching", "files", len(worklist), "workers", min(workers, len(worklist)), "preview", opts.Preview)
	}

	fn := Transformer(TransformOptions{MaxEdge: opts.MaxEdge, Preview: opts.Preview, Backup: opts.Backup})
	processed, elapsed := RunAll(ctx, worklist, workers, fn, updates)

	report := Aggregate(processed, skipped, elapsed)
	report.ScanDuration = scanDuration
	report.Preview = opts.Preview
	slog.Info("run complete",
		"transformed", report.Transformed,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"saved", report.Savings,
	)
	return report, nil
}

// ScanDirectory runs discovery and the scan stage only. No file is modified.
func ScanDirectory(ctx context.Context, opts Options, updates chan<- ProgressUpdate) ([]WorkItem, []Record, error) {
	if err := checkDirectory(opts.Directory); err != nil {
		return nil, nil, err
	}

	files, err := Discover(opts.Directory)
	if err != nil {
		return nil, nil, fmt.Errorf("discover %s: %w", opts.Directory, err)
	}
	slog.Info("discovered images", "dir", opts.Directory, "count", len(files))
	sendUpdate(updates, ProgressUpdate{TotalDelta: len(files)})

	return Scan(ctx, files, ScanOptions{MaxEdge: opts.MaxEdge, Force: opts.Force}, updates)
}

func checkDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}
	return nil
}
