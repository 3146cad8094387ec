package processor

import (
	"log/slog"
	"os"

	"pngfit/pkg/imgutil"
)

type Classification struct {
	NeedsTransform bool
	Dims           Dimensions
	Size           int64
}

// Classify reads the file size and the PNG IHDR chunk. Pixel data is never
// decoded. Any read failure routes the file to the worklist with zeroed
// metadata, so the transform's full decode reports the real error.
func Classify(path string, maxEdge int) Classification {
	info, err := os.Stat(path)
	if err != nil {
		slog.Debug("classify: stat failed", "path", path, "error", err)
		return Classification{NeedsTransform: true}
	}

	hdr, err := imgutil.ReadPNGHeaderFile(path)
	if err != nil {
		slog.Debug("classify: header unreadable", "path", path, "error", err)
		return Classification{NeedsTransform: true}
	}

	dims := Dimensions{Width: hdr.Width, Height: hdr.Height}
	return Classification{
		NeedsTransform: dims.Width > maxEdge || dims.Height > maxEdge,
		Dims:           dims,
		Size:           info.Size(),
	}
}
