package source

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/junsooki/framepace/internal/frame"
)

type fakeDecoder struct {
	w, h     int
	frames   int
	duration float64
	reads    int
	closed   int
	buf      []byte
}

func (d *fakeDecoder) Read() bool {
	if d.reads >= d.frames {
		return false
	}
	d.reads++
	for i := range d.buf {
		d.buf[i] = byte(d.reads)
	}
	return true
}

func (d *fakeDecoder) FrameBuffer() []byte { return d.buf }
func (d *fakeDecoder) Width() int          { return d.w }
func (d *fakeDecoder) Height() int         { return d.h }
func (d *fakeDecoder) Frames() int         { return d.frames }
func (d *fakeDecoder) Duration() float64   { return d.duration }
func (d *fakeDecoder) Close()              { d.closed++ }

func newFake(frames int, duration float64) *fakeDecoder {
	return &fakeDecoder{w: 2, h: 2, frames: frames, duration: duration, buf: make([]byte, 2*2*4)}
}

func TestNewRejectsDegenerateMetadata(t *testing.T) {
	tests := []struct {
		name     string
		frames   int
		duration float64
	}{
		{"zero frames", 0, 10},
		{"zero duration", 100, 0},
		{"negative duration", 100, -1},
		{"interval below a nanosecond", 10, 1e-9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := newFake(tt.frames, tt.duration)
			src, err := New(dec, frame.FormatRGBA)
			if !errors.Is(err, ErrStreamOpen) {
				t.Fatalf("err = %v, want ErrStreamOpen", err)
			}
			if src != nil {
				t.Error("expected nil source")
			}
			if dec.closed != 1 {
				t.Errorf("decoder closed %d times, want 1", dec.closed)
			}
		})
	}
}

func TestFrameInterval(t *testing.T) {
	src, err := New(newFake(100, 10), frame.FormatRGBA)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := src.Stream().FrameInterval(); got != 100*time.Millisecond {
		t.Errorf("FrameInterval = %v, want 100ms", got)
	}
}

func TestNextUntilEndOfStream(t *testing.T) {
	dec := newFake(3, 1)
	src, err := New(dec, frame.FormatRGBA)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 1; i <= 3; i++ {
		raw, err := src.Next()
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if raw.Width != 2 || raw.Height != 2 || raw.Format != frame.FormatRGBA {
			t.Errorf("frame %d: unexpected geometry %+v", i, raw)
		}
		if raw.Pix[0] != byte(i) {
			t.Errorf("frame %d out of order: got payload %d", i, raw.Pix[0])
		}
	}
	for i := 0; i < 2; i++ {
		if _, err := src.Next(); !errors.Is(err, ErrEndOfStream) {
			t.Fatalf("err = %v, want ErrEndOfStream", err)
		}
	}
	if dec.reads != 3 {
		t.Errorf("decoder read %d times after exhaustion, want 3", dec.reads)
	}
	if src.Decoded() != 3 {
		t.Errorf("Decoded = %d, want 3", src.Decoded())
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	dec := newFake(5, 1)
	src, err := New(dec, frame.FormatRGBA)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	src.Close()
	src.Close()
	if dec.closed != 1 {
		t.Errorf("decoder closed %d times, want 1", dec.closed)
	}
	if _, err := src.Next(); !errors.Is(err, ErrEndOfStream) {
		t.Errorf("Next after Close: err = %v, want ErrEndOfStream", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.mp4"))
	if !errors.Is(err, ErrStreamOpen) {
		t.Fatalf("err = %v, want ErrStreamOpen", err)
	}
}
