// Package snapshot persists the most recently displayed frame to disk.
// Each save replaces the previous files; nothing older is kept.
package snapshot

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"

	"github.com/junsooki/framepace/internal/frame"
)

// Writer saves the encoded still and an uncompressed bitmap of the same frame.
// An empty path disables that output.
type Writer struct {
	JPEGPath string
	BMPPath  string
}

func NewWriter(jpegPath, bmpPath string) *Writer {
	return &Writer{JPEGPath: jpegPath, BMPPath: bmpPath}
}

// Save writes both outputs, replacing any earlier snapshot atomically.
func (w *Writer) Save(f frame.Canonical, still []byte) error {
	if w.JPEGPath != "" {
		if err := writeAtomic(w.JPEGPath, still); err != nil {
			return fmt.Errorf("save jpeg: %w", err)
		}
	}
	if w.BMPPath != "" {
		if !f.Valid() {
			return fmt.Errorf("encode bmp: %dx%d frame with %d color bytes", f.Width, f.Height, len(f.Pix))
		}
		img := &image.RGBA{
			Pix:    f.RGBA(),
			Stride: f.Width * 4,
			Rect:   image.Rect(0, 0, f.Width, f.Height),
		}
		var buf bytes.Buffer
		if err := bmp.Encode(&buf, img); err != nil {
			return fmt.Errorf("encode bmp: %w", err)
		}
		if err := writeAtomic(w.BMPPath, buf.Bytes()); err != nil {
			return fmt.Errorf("save bmp: %w", err)
		}
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}
