package processor

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

func fakeItems(n int) []WorkItem {
	items := make([]WorkItem, n)
	for i := range items {
		items[i] = WorkItem{Path: fmt.Sprintf("img-%02d.png", i), Dims: Dimensions{100, 100}, Size: 1000}
	}
	return items
}

func TestRunAllEmpty(t *testing.T) {
	called := false
	records, elapsed := RunAll(context.Background(), nil, 4, func(WorkItem) Record {
		called = true
		return Record{}
	}, nil)
	if records != nil || elapsed != 0 || called {
		t.Fatalf("empty worklist: records=%v elapsed=%v called=%v", records, elapsed, called)
	}
}

func TestRunAllReturnsEveryItem(t *testing.T) {
	items := fakeItems(25)
	var inFlight, peak int32

	fn := func(item WorkItem) Record {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return Record{Path: item.Path, OriginalSize: item.Size, Outcome: Transformed{NewSize: 400}}
	}

	updates := make(chan ProgressUpdate, len(items))
	records, elapsed := RunAll(context.Background(), items, 3, fn, updates)
	close(updates)

	if len(records) != len(items) {
		t.Fatalf("got %d records, want %d", len(records), len(items))
	}
	if elapsed <= 0 {
		t.Fatalf("elapsed = %v", elapsed)
	}
	if peak > 3 {
		t.Fatalf("pool exceeded its size: peak %d", peak)
	}

	seen := make(map[string]bool)
	for _, rec := range records {
		if seen[rec.Path] {
			t.Fatalf("duplicate record for %s", rec.Path)
		}
		seen[rec.Path] = true
	}

	var transformed int
	var saved int64
	for u := range updates {
		transformed += u.TransformedDelta
		saved += u.BytesSavedDelta
	}
	if transformed != len(items) || saved != int64(len(items))*600 {
		t.Fatalf("progress transformed=%d saved=%d", transformed, saved)
	}
}

func TestRunAllRecoversPanics(t *testing.T) {
	items := fakeItems(10)
	fn := func(item WorkItem) Record {
		if item.Path == "img-04.png" {
			panic("codec exploded")
		}
		return Record{Path: item.Path, Outcome: Skipped{}}
	}

	records, _ := RunAll(context.Background(), items, 4, fn, nil)
	if len(records) != len(items) {
		t.Fatalf("got %d records, want %d", len(records), len(items))
	}

	var failed []Record
	for _, rec := range records {
		if rec.Status() == StatusFailed {
			failed = append(failed, rec)
		}
	}
	if len(failed) != 1 || failed[0].Path != "img-04.png" {
		t.Fatalf("failed = %+v", failed)
	}
	if !errors.Is(failed[0].Err(), ErrWorkerPanic) {
		t.Fatalf("err = %v", failed[0].Err())
	}
	// The path does not exist on disk, so the scanned size is used.
	if failed[0].OriginalSize != 1000 {
		t.Fatalf("fallback size = %d", failed[0].OriginalSize)
	}
}

func TestRunAllCancelledStillReportsEveryItem(t *testing.T) {
	items := fakeItems(8)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records, _ := RunAll(ctx, items, 2, func(item WorkItem) Record {
		return Record{Path: item.Path, Outcome: Transformed{}}
	}, nil)

	if len(records) != len(items) {
		t.Fatalf("got %d records, want %d", len(records), len(items))
	}
	for _, rec := range records {
		if rec.Status() == StatusFailed && !errors.Is(rec.Err(), context.Canceled) {
			t.Fatalf("unexpected failure: %v", rec.Err())
		}
	}
}

func TestRunAllClampsWorkers(t *testing.T) {
	items := fakeItems(2)
	records, _ := RunAll(context.Background(), items, 0, func(item WorkItem) Record {
		return Record{Path: item.Path, Outcome: Skipped{}}
	}, nil)
	if len(records) != 2 {
		t.Fatalf("got %d records", len(records))
	}
}

func TestDefaultWorkers(t *testing.T) {
	if n := DefaultWorkers(); n < 1 || n > 8 {
		t.Fatalf("DefaultWorkers() = %d", n)
	}
}
