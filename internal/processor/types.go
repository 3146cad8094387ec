package processor

import (
	"fmt"
	"time"
)

// DefaultMaxEdge is the longest edge, in pixels, that images are scaled down to.
const DefaultMaxEdge = 1568

type Status int

const (
	StatusPending Status = iota
	StatusSkipped
	StatusTransformed
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusTransformed:
		return "transformed"
	case StatusFailed:
		return "failed"
	default:
		return "pending"
	}
}

type Dimensions struct {
	Width  int
	Height int
}

func (d Dimensions) Area() int64 {
	return int64(d.Width) * int64(d.Height)
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%d×%d", d.Width, d.Height)
}

// Outcome is the terminal state of a Record. Only the types in this package
// implement it.
type Outcome interface {
	status() Status
}

// Skipped marks a file already within bounds. Its new size and dimensions
// are the original ones.
type Skipped struct{}

// Transformed carries the post-resize size. Estimated is set in preview mode.
type Transformed struct {
	NewSize      int64
	NewDims      Dimensions
	Estimated    bool
	StrippedTags int
}

// Failed carries the reason a file could not be processed.
type Failed struct {
	Err error
}

func (Skipped) status() Status     { return StatusSkipped }
func (Transformed) status() Status { return StatusTransformed }
func (Failed) status() Status      { return StatusFailed }

// Record follows one discovered file through the pipeline. A nil Outcome
// means the file is still pending.
type Record struct {
	Path         string
	OriginalSize int64
	OriginalDims Dimensions
	Outcome      Outcome
}

func (r Record) Status() Status {
	if r.Outcome == nil {
		return StatusPending
	}
	return r.Outcome.status()
}

func (r Record) NewSize() (int64, bool) {
	switch o := r.Outcome.(type) {
	case Skipped:
		return r.OriginalSize, true
	case Transformed:
		return o.NewSize, true
	default:
		return 0, false
	}
}

func (r Record) NewDims() (Dimensions, bool) {
	switch o := r.Outcome.(type) {
	case Skipped:
		return r.OriginalDims, true
	case Transformed:
		return o.NewDims, true
	default:
		return Dimensions{}, false
	}
}

// Savings is original minus new size. It can be negative.
func (r Record) Savings() (int64, bool) {
	n, ok := r.NewSize()
	if !ok {
		return 0, false
	}
	return r.OriginalSize - n, true
}

func (r Record) Err() error {
	if f, ok := r.Outcome.(Failed); ok {
		return f.Err
	}
	return nil
}

// WorkItem is the self-contained input of one transform.
type WorkItem struct {
	Path string
	Dims Dimensions
	Size int64
}

type Options struct {
	Directory string
	MaxEdge   int
	Preview   bool
	Backup    bool
	Workers   int
	Force     bool
}

type ScanOptions struct {
	MaxEdge int
	Force   bool
}

type TransformOptions struct {
	MaxEdge int
	Preview bool
	Backup  bool
}

// TransformFunc turns one work item into a finalized record.
type TransformFunc func(item WorkItem) Record

type Report struct {
	Records      []Record
	Transformed  int
	Skipped      int
	Failed       int
	TotalOrig    int64
	TotalNew     int64
	Savings      int64
	SavingsPct   float64
	Throughput   float64
	StrippedTags int
	Elapsed      time.Duration
	ScanDuration time.Duration
	Preview      bool
}

type ProgressUpdate struct {
	TotalDelta       int
	ScannedDelta     int
	QueuedDelta      int
	SkippedDelta     int
	TransformedDelta int
	ErrorDelta       int
	BytesSavedDelta  int64
}
