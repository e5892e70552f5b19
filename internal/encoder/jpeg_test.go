package encoder

import (
	"bytes"
	"errors"
	"image/jpeg"
	"testing"

	"github.com/junsooki/framepace/internal/frame"
)

func gradient(w, h int) frame.Canonical {
	pix := make([]byte, w*h*3)
	for i := range pix {
		pix[i] = byte(i * 7)
	}
	return frame.Canonical{Width: w, Height: h, Pix: pix}
}

func TestEncodeProducesJPEG(t *testing.T) {
	f := gradient(16, 9)
	data, err := NewJPEGEncoder().Encode(f, 10)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a JPEG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 9 {
		t.Errorf("decoded bounds = %v, want 16x9", b)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	enc := NewJPEGEncoder()
	for _, q := range []int{0, 10, 50, 100} {
		f := gradient(32, 24)
		a, err := enc.Encode(f, q)
		if err != nil {
			t.Fatalf("quality %d: %v", q, err)
		}
		b, err := enc.Encode(f, q)
		if err != nil {
			t.Fatalf("quality %d: %v", q, err)
		}
		if !bytes.Equal(a, b) {
			t.Errorf("quality %d: two encodes of the same frame differ", q)
		}
	}
}

func TestEncodeQualityMatters(t *testing.T) {
	enc := NewJPEGEncoder()
	f := gradient(64, 64)
	low, err := enc.Encode(f, 5)
	if err != nil {
		t.Fatal(err)
	}
	high, err := enc.Encode(f, 95)
	if err != nil {
		t.Fatal(err)
	}
	if len(low) >= len(high) {
		t.Errorf("quality 5 produced %d bytes, quality 95 produced %d", len(low), len(high))
	}
}

func TestEncodeRejects(t *testing.T) {
	tests := []struct {
		name    string
		f       frame.Canonical
		quality int
	}{
		{"zero width", frame.Canonical{Width: 0, Height: 4, Pix: nil}, 10},
		{"zero height", frame.Canonical{Width: 4, Height: 0, Pix: nil}, 10},
		{"not divisible by three", frame.Canonical{Width: 2, Height: 2, Pix: make([]byte, 13)}, 10},
		{"length mismatch", frame.Canonical{Width: 2, Height: 2, Pix: make([]byte, 9)}, 10},
		{"dimensions wrap to zero", frame.Canonical{Width: 1 << 62, Height: 4, Pix: nil}, 10},
		{"quality above range", gradient(2, 2), 101},
		{"quality below range", gradient(2, 2), -1},
	}
	enc := NewJPEGEncoder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := enc.Encode(tt.f, tt.quality)
			if !errors.Is(err, ErrEncode) {
				t.Fatalf("err = %v, want ErrEncode", err)
			}
			if data != nil {
				t.Errorf("wrote %d bytes on failure", len(data))
			}
		})
	}
}
