package encoder

import (
	"errors"

	"github.com/junsooki/framepace/internal/frame"
)

// ErrEncode is returned when a frame cannot be encoded.
var ErrEncode = errors.New("encode error")

// Encoder compresses a canonical frame into a still image.
type Encoder interface {
	Encode(f frame.Canonical, quality int) ([]byte, error)
}
