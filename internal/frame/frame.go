package frame

import (
	"errors"
	"fmt"
	"math"
)

// ErrMalformedFrame is returned when a decoded buffer does not match its declared geometry.
var ErrMalformedFrame = errors.New("malformed frame")

// PixelFormat tags the memory layout of a decoded frame.
type PixelFormat int

const (
	FormatUnknown PixelFormat = iota
	FormatRGBA
	FormatRGB
	FormatBGRA
	FormatGray
)

func (f PixelFormat) String() string {
	switch f {
	case FormatRGBA:
		return "rgba"
	case FormatRGB:
		return "rgb"
	case FormatBGRA:
		return "bgra"
	case FormatGray:
		return "gray"
	default:
		return "unknown"
	}
}

// BytesPerPixel returns the packed size of one pixel, or 0 for an unknown format.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatRGBA, FormatBGRA:
		return 4
	case FormatRGB:
		return 3
	case FormatGray:
		return 1
	default:
		return 0
	}
}

// Raw is one decoder-native frame. It is only valid until the next decode.
type Raw struct {
	Width  int
	Height int
	Pix    []byte
	Format PixelFormat
}

// Canonical is a tightly packed RGB frame, 3 bytes per pixel, row-major.
type Canonical struct {
	Width  int
	Height int
	Pix    []byte
	// Index is the 1-based playback position the frame was produced at.
	Index uint64
}

// BufferSize returns width*height*bpp, or false when a dimension is not
// positive or the product does not fit in an int.
func BufferSize(width, height, bpp int) (int, bool) {
	if width <= 0 || height <= 0 || bpp <= 0 {
		return 0, false
	}
	if width > math.MaxInt/height/bpp {
		return 0, false
	}
	return width * height * bpp, true
}

// Valid reports whether the buffer length matches the declared dimensions.
func (c Canonical) Valid() bool {
	n, ok := BufferSize(c.Width, c.Height, 3)
	return ok && len(c.Pix) == n
}

// Convert normalizes a raw frame into packed RGB. Alpha is dropped.
func Convert(raw Raw) (Canonical, error) {
	bpp := raw.Format.BytesPerPixel()
	if bpp == 0 {
		return Canonical{}, fmt.Errorf("%w: unsupported pixel format %s", ErrMalformedFrame, raw.Format)
	}
	want, ok := BufferSize(raw.Width, raw.Height, bpp)
	if !ok {
		return Canonical{}, fmt.Errorf("%w: invalid dimensions %dx%d", ErrMalformedFrame, raw.Width, raw.Height)
	}
	if len(raw.Pix) != want {
		return Canonical{}, fmt.Errorf("%w: %dx%d %s needs %d bytes, got %d",
			ErrMalformedFrame, raw.Width, raw.Height, raw.Format, want, len(raw.Pix))
	}

	out := make([]byte, raw.Width*raw.Height*3)
	src := raw.Pix
	switch raw.Format {
	case FormatRGB:
		copy(out, src)
	case FormatRGBA:
		for i, j := 0, 0; i < len(src); i, j = i+4, j+3 {
			out[j] = src[i]
			out[j+1] = src[i+1]
			out[j+2] = src[i+2]
		}
	case FormatBGRA:
		for i, j := 0, 0; i < len(src); i, j = i+4, j+3 {
			out[j] = src[i+2]
			out[j+1] = src[i+1]
			out[j+2] = src[i]
		}
	case FormatGray:
		for i, j := 0, 0; i < len(src); i, j = i+1, j+3 {
			out[j] = src[i]
			out[j+1] = src[i]
			out[j+2] = src[i]
		}
	}

	return Canonical{Width: raw.Width, Height: raw.Height, Pix: out}, nil
}

// RGBA expands a canonical frame into a 4-byte-per-pixel opaque buffer.
// It returns nil when the dimensions are not representable.
func (c Canonical) RGBA() []byte {
	n, ok := BufferSize(c.Width, c.Height, 4)
	if !ok {
		return nil
	}
	out := make([]byte, n)
	for i, j := 0, 0; i+2 < len(c.Pix) && j+3 < len(out); i, j = i+3, j+4 {
		out[j] = c.Pix[i]
		out[j+1] = c.Pix[i+1]
		out[j+2] = c.Pix[i+2]
		out[j+3] = 0xff
	}
	return out
}
