package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"
)

// maxDefaultWorkers caps the CPU-derived default pool size.
const maxDefaultWorkers = 8

var ErrWorkerPanic = errors.New("worker panic")

// DefaultWorkers returns min(NumCPU, 8).
func DefaultWorkers() int {
	return min(runtime.NumCPU(), maxDefaultWorkers)
}

// RunAll transforms items on a pool of workers and returns one record per
// item in completion order, plus the wall time spent. A worker panic or a
// cancelled context still yields a Failed record for the affected item. The
// pool is fully drained before RunAll returns.
func RunAll(ctx context.Context, items []WorkItem, workers int, fn TransformFunc, updates chan<- ProgressUpdate) ([]Record, time.Duration) {
	if len(items) == 0 {
		return nil, 0
	}
	workers = max(1, min(workers, len(items)))

	start := time.Now()
	jobs := make(chan WorkItem)
	results := make(chan Record)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			worker(jobs, results, fn)
		}()
	}

	go func() {
		defer close(jobs)
		for i, item := range items {
			select {
			case jobs <- item:
			case <-ctx.Done():
				for _, rest := range items[i:] {
					results <- cancelledRecord(rest, ctx.Err())
				}
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	records := make([]Record, 0, len(items))
	for rec := range results {
		records = append(records, rec)
		reportProgress(rec, updates)
	}

	return records, time.Since(start)
}

func worker(jobs <-chan WorkItem, results chan<- Record, fn TransformFunc) {
	for item := range jobs {
		results <- safeTransform(item, fn)
	}
}

// safeTransform converts a panic inside fn into a Failed record.
func safeTransform(item WorkItem, fn TransformFunc) (rec Record) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("transform panicked", "path", item.Path, "panic", r)
			rec = Record{
				Path:         item.Path,
				OriginalSize: fallbackSize(item),
				OriginalDims: item.Dims,
				Outcome:      Failed{Err: fmt.Errorf("%w: %v", ErrWorkerPanic, r)},
			}
		}
	}()
	return fn(item)
}

func cancelledRecord(item WorkItem, err error) Record {
	return Record{
		Path:         item.Path,
		OriginalSize: fallbackSize(item),
		OriginalDims: item.Dims,
		Outcome:      Failed{Err: fmt.Errorf("not processed: %w", err)},
	}
}

// fallbackSize prefers a fresh stat and falls back to the scanned size, then 0.
func fallbackSize(item WorkItem) int64 {
	if info, err := os.Stat(item.Path); err == nil {
		return info.Size()
	}
	return item.Size
}

func reportProgress(rec Record, updates chan<- ProgressUpdate) {
	switch rec.Status() {
	case StatusTransformed:
		saved, _ := rec.Savings()
		sendUpdate(updates, ProgressUpdate{TransformedDelta: 1, BytesSavedDelta: saved})
	case StatusFailed:
		slog.Warn("transform failed", "path", rec.Path, "error", rec.Err())
		sendUpdate(updates, ProgressUpdate{ErrorDelta: 1})
	}
}
