// Package cursor loads pointer images from Xcursor themes. Only what
// the toolkit needs: single-frame lookup by name at a nominal size, the
// usual search path, index.theme inheritance, and session settings
// discovery for theme name and size.
package cursor

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Image is one decoded cursor frame. Pixels hold premultiplied 32-bit
// BGRA rows exactly as stored in the file, ready for a shared-memory
// pool.
type Image struct {
	Width, Height int
	HotX, HotY    int
	Pixels        []byte
}

const (
	xcursorMagic     = 0x72756358 // "Xcur" little endian
	xcursorImageType = 0xfffd0002
	maxDimension     = 0x7fff
)

var errNoImage = errors.New("cursor: file contains no image chunks")

// parseXcursor decodes the image chunk whose nominal size is closest to
// size. Animated cursors contribute only their first frame.
func parseXcursor(data []byte, size int) (*Image, error) {
	if len(data) < 16 || binary.LittleEndian.Uint32(data) != xcursorMagic {
		return nil, errors.New("cursor: not an Xcursor file")
	}
	ntoc := binary.LittleEndian.Uint32(data[12:])
	if int(ntoc) > (len(data)-16)/12 {
		return nil, errors.New("cursor: table of contents overruns file")
	}

	// Pick the best nominal size, then the first chunk of that size.
	best := -1
	bestDelta := -1
	for i := 0; i < int(ntoc); i++ {
		entry := data[16+12*i:]
		if binary.LittleEndian.Uint32(entry) != xcursorImageType {
			continue
		}
		nominal := int(binary.LittleEndian.Uint32(entry[4:]))
		delta := nominal - size
		if delta < 0 {
			delta = -delta
		}
		if best == -1 || delta < bestDelta {
			best, bestDelta = i, delta
		}
	}
	if best == -1 {
		return nil, errNoImage
	}

	pos := binary.LittleEndian.Uint32(data[16+12*best+8:])
	if int(pos)+36 > len(data) {
		return nil, errors.New("cursor: image chunk overruns file")
	}
	chunk := data[pos:]
	width := int(binary.LittleEndian.Uint32(chunk[16:]))
	height := int(binary.LittleEndian.Uint32(chunk[20:]))
	hotX := int(binary.LittleEndian.Uint32(chunk[24:]))
	hotY := int(binary.LittleEndian.Uint32(chunk[28:]))
	if width <= 0 || height <= 0 || width > maxDimension || height > maxDimension {
		return nil, fmt.Errorf("cursor: implausible image size %dx%d", width, height)
	}
	n := width * height * 4
	if len(chunk) < 36+n {
		return nil, errors.New("cursor: pixel data overruns file")
	}
	return &Image{
		Width:  width,
		Height: height,
		HotX:   hotX,
		HotY:   hotY,
		Pixels: chunk[36 : 36+n],
	}, nil
}
