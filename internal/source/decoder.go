package source

import (
	vidio "github.com/AlexEidt/Vidio"
)

// Decoder reads frames from an opened video stream, one per Read.
type Decoder interface {
	Read() bool
	FrameBuffer() []byte
	Width() int
	Height() int
	Frames() int
	// Duration is the stream length in seconds.
	Duration() float64
	Close()
}

var _ Decoder = (*vidio.Video)(nil)
