package processor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// PreviewCompressionFactor approximates the extra shrink of an optimized
// re-encode on top of the area reduction. It is an empirical guess, not a
// measurement.
const PreviewCompressionFactor = 0.9

// BackupSuffix is appended to a file's path to name its backup copy.
const BackupSuffix = ".bak"

var (
	ErrUnknownDimensions = errors.New("source dimensions unknown")
	// ErrDegenerateTarget marks a scale-down that truncates one edge to zero.
	ErrDegenerateTarget = errors.New("target dimensions collapse to zero")
)

// Transformer binds opts into a TransformFunc for the dispatcher.
func Transformer(opts TransformOptions) TransformFunc {
	return func(item WorkItem) Record {
		return Transform(item, opts)
	}
}

// Transform resizes one file and returns its finalized record. Every error
// is reported through a Failed outcome.
func Transform(item WorkItem, opts TransformOptions) Record {
	rec := Record{Path: item.Path, OriginalSize: item.Size, OriginalDims: item.Dims}

	if opts.Preview {
		rec.Outcome = estimate(item, opts.MaxEdge)
		return rec
	}

	outcome, size, dims := transformFile(item, opts)
	rec.OriginalSize = size
	rec.OriginalDims = dims
	rec.Outcome = outcome
	return rec
}

func estimate(item WorkItem, maxEdge int) Outcome {
	area := item.Dims.Area()
	if area == 0 {
		return Failed{Err: fmt.Errorf("estimate size: %w", ErrUnknownDimensions)}
	}

	target := TargetDimensions(item.Dims, maxEdge)
	if err := checkTarget(item.Dims, target); err != nil {
		return Failed{Err: fmt.Errorf("estimate size: %w", err)}
	}
	ratio := float64(target.Area()) / float64(area)
	return Transformed{
		NewSize:   int64(float64(item.Size) * ratio * PreviewCompressionFactor),
		NewDims:   target,
		Estimated: true,
	}
}

func checkTarget(src, target Dimensions) error {
	if src.Area() > 0 && (target.Width == 0 || target.Height == 0) {
		return fmt.Errorf("%w: %s → %s", ErrDegenerateTarget, src, target)
	}
	return nil
}

// transformFile returns the outcome plus the original size and dimensions,
// which are refreshed from disk when the scan could not read them.
func transformFile(item WorkItem, opts TransformOptions) (Outcome, int64, Dimensions) {
	size, dims := item.Size, item.Dims

	srcInfo, err := os.Stat(item.Path)
	if err != nil {
		return Failed{Err: fmt.Errorf("stat: %w", err)}, size, dims
	}
	if size == 0 {
		size = srcInfo.Size()
	}

	data, err := os.ReadFile(item.Path)
	if err != nil {
		return Failed{Err: fmt.Errorf("read: %w", err)}, size, dims
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return Failed{Err: fmt.Errorf("decode: %w", err)}, size, dims
	}
	bounds := img.Bounds()
	dims = Dimensions{Width: bounds.Dx(), Height: bounds.Dy()}
	target := TargetDimensions(dims, opts.MaxEdge)
	if err := checkTarget(dims, target); err != nil {
		return Failed{Err: fmt.Errorf("resize: %w", err)}, size, dims
	}

	stripped, err := countExifTags(data)
	if err != nil {
		slog.Debug("exif scan failed", "path", item.Path, "error", err)
	}

	if opts.Backup {
		if err := copyWithTimes(item.Path, item.Path+BackupSuffix, srcInfo); err != nil {
			return Failed{Err: fmt.Errorf("backup: %w", err)}, size, dims
		}
	}

	var out image.Image = img
	if target != dims {
		out = imaging.Resize(img, target.Width, target.Height, imaging.Lanczos)
	}

	if err := writePNG(item.Path, out, srcInfo.Mode()); err != nil {
		return Failed{Err: fmt.Errorf("encode: %w", err)}, size, dims
	}

	outInfo, err := os.Stat(item.Path)
	if err != nil {
		return Failed{Err: fmt.Errorf("stat output: %w", err)}, size, dims
	}

	return Transformed{NewSize: outInfo.Size(), NewDims: target, StrippedTags: stripped}, size, dims
}

// writePNG encodes img next to path and renames it into place, so a failed
// encode never leaves a truncated file behind.
func writePNG(path string, img image.Image, mode os.FileMode) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "pngfit-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmpFile.Name())

	if err := tmpFile.Chmod(mode); err != nil {
		_ = tmpFile.Close()
		return err
	}

	if err := imaging.Encode(tmpFile, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	return replaceFile(tmpFile.Name(), path)
}

func replaceFile(tmpPath, destPath string) error {
	if err := os.Rename(tmpPath, destPath); err == nil {
		return nil
	}
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tmpPath, destPath)
}

// copyWithTimes copies src to dst, keeping the mode and timestamps of srcInfo.
func copyWithTimes(src, dst string, srcInfo os.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}

	mtime := srcInfo.ModTime()
	return os.Chtimes(dst, mtime, mtime)
}
