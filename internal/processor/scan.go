package processor

import (
	"context"
	"log/slog"
)

// Scan classifies paths in order. Files that fit within MaxEdge are
// finalized as skipped; the rest are returned as the worklist in discovery
// order. Force sends every file to the worklist.
func Scan(ctx context.Context, paths []string, opts ScanOptions, updates chan<- ProgressUpdate) ([]WorkItem, []Record, error) {
	var worklist []WorkItem
	var skipped []Record

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return worklist, skipped, err
		}

		c := Classify(path, opts.MaxEdge)
		if opts.Force || c.NeedsTransform {
			worklist = append(worklist, WorkItem{Path: path, Dims: c.Dims, Size: c.Size})
			sendUpdate(updates, ProgressUpdate{ScannedDelta: 1, QueuedDelta: 1})
			continue
		}

		skipped = append(skipped, Record{
			Path:         path,
			OriginalSize: c.Size,
			OriginalDims: c.Dims,
			Outcome:      Skipped{},
		})
		sendUpdate(updates, ProgressUpdate{ScannedDelta: 1, SkippedDelta: 1})
	}

	slog.Debug("scan complete", "queued", len(worklist), "skipped", len(skipped), "force", opts.Force)
	return worklist, skipped, nil
}

func sendUpdate(updates chan<- ProgressUpdate, u ProgressUpdate) {
	if updates != nil {
		updates <- u
	}
}
