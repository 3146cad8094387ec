package imgutil

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrNotPNG is returned when a stream does not begin with the PNG signature.
var ErrNotPNG = errors.New("not a PNG file")

var pngSig = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

// ihdrPrefixLen covers the signature, the IHDR length and type, and the
// 13-byte IHDR payload. The trailing CRC is never read.
const ihdrPrefixLen = 8 + 4 + 4 + 13

// Header holds the image-level fields of a PNG IHDR chunk.
type Header struct {
	Width      int
	Height     int
	BitDepth   uint8
	ColorType  uint8
	Interlaced bool
}

// IsPNG reports whether header starts with the PNG signature.
func IsPNG(header []byte) bool {
	return hasPrefix(header, pngSig)
}

// ReadPNGHeaderFile opens path and reads its IHDR chunk.
func ReadPNGHeaderFile(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, err
	}
	defer f.Close()

	return ReadPNGHeader(f)
}

// ReadPNGHeader reads the signature and IHDR chunk from r without touching
// any image data.
func ReadPNGHeader(r io.Reader) (Header, error) {
	buf := make([]byte, ihdrPrefixLen)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			if !IsPNG(buf) {
				return Header{}, ErrNotPNG
			}
			return Header{}, fmt.Errorf("truncated PNG header: %w", err)
		}
		return Header{}, err
	}
	if !IsPNG(buf) {
		return Header{}, ErrNotPNG
	}

	length := binary.BigEndian.Uint32(buf[8:12])
	if string(buf[12:16]) != "IHDR" || length != 13 {
		return Header{}, errors.New("missing IHDR chunk")
	}

	w := binary.BigEndian.Uint32(buf[16:20])
	h := binary.BigEndian.Uint32(buf[20:24])
	if w == 0 || h == 0 || w > 1<<31-1 || h > 1<<31-1 {
		return Header{}, fmt.Errorf("invalid PNG dimensions %dx%d", w, h)
	}

	return Header{
		Width:      int(w),
		Height:     int(h),
		BitDepth:   buf[24],
		ColorType:  buf[25],
		Interlaced: buf[28] == 1,
	}, nil
}

func hasPrefix(buf, prefix []byte) bool {
	if len(buf) < len(prefix) {
		return false
	}
	for i := range prefix {
		if buf[i] != prefix[i] {
			return false
		}
	}
	return true
}
