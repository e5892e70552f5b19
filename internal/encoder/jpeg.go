package encoder

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/junsooki/framepace/internal/frame"
)

// JPEGEncoder encodes frames as baseline JPEG.
type JPEGEncoder struct{}

// NewJPEGEncoder creates a JPEG encoder.
func NewJPEGEncoder() *JPEGEncoder {
	return &JPEGEncoder{}
}

// Encode compresses f at the given quality (0-100). Quality 0 maps to the
// lowest quality the JPEG encoder supports. On error no bytes are returned.
func (e *JPEGEncoder) Encode(f frame.Canonical, quality int) ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %dx%d frame with %d color bytes", ErrEncode, f.Width, f.Height, len(f.Pix))
	}
	if quality < 0 || quality > 100 {
		return nil, fmt.Errorf("%w: quality %d out of range 0-100", ErrEncode, quality)
	}
	if quality < 1 {
		quality = 1
	}

	img := &image.RGBA{
		Pix:    f.RGBA(),
		Stride: f.Width * 4,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}

	var buf bytes.Buffer
	buf.Grow(f.Width * f.Height / 4)
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return buf.Bytes(), nil
}
