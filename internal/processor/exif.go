package processor

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	exif "github.com/dsoprea/go-exif/v3"

	"pngfit/pkg/imgutil"
)

// countExifTags reports how many EXIF tags the eXIf chunk of a PNG carries.
// The PNG encoder does not write ancillary chunks, so these are the tags a
// re-encode drops.
func countExifTags(data []byte) (int, error) {
	payload, err := findPNGChunk(data, "eXIf")
	if err != nil || payload == nil {
		return 0, err
	}

	tags, _, err := exif.GetFlatExifData(payload, nil)
	if err != nil {
		if errors.Is(err, exif.ErrNoExif) {
			return 0, nil
		}
		return 0, err
	}
	return len(tags), nil
}

// findPNGChunk returns the payload of the first chunk named name, or nil if
// the data ends at IEND without one.
func findPNGChunk(data []byte, name string) ([]byte, error) {
	br := bytes.NewReader(data)

	sig := make([]byte, 8)
	if _, err := io.ReadFull(br, sig); err != nil {
		return nil, err
	}
	if !imgutil.IsPNG(sig) {
		return nil, imgutil.ErrNotPNG
	}

	for {
		head := make([]byte, 8)
		if _, err := io.ReadFull(br, head); err != nil {
			if err == io.EOF {
				return nil, nil
			}
			return nil, err
		}
		length := binary.BigEndian.Uint32(head[:4])
		chunkName := string(head[4:])
		if int64(length) > int64(br.Len()) {
			return nil, fmt.Errorf("chunk %q length %d exceeds remaining %d bytes", chunkName, length, br.Len())
		}

		if chunkName == name {
			data := make([]byte, length)
			if _, err := io.ReadFull(br, data); err != nil {
				return nil, err
			}
			return data, nil
		}

		if _, err := io.CopyN(io.Discard, br, int64(length)+4); err != nil {
			return nil, err
		}
		if chunkName == "IEND" {
			return nil, nil
		}
	}
}
