package source

import (
	"errors"
	"fmt"
	"os"
	"time"

	vidio "github.com/AlexEidt/Vidio"

	"github.com/junsooki/framepace/internal/frame"
)

var (
	// ErrStreamOpen is returned when a stream cannot be opened or has unusable metadata.
	ErrStreamOpen = errors.New("stream open failure")
	// ErrEndOfStream signals that no frames remain. It is not a failure.
	ErrEndOfStream = errors.New("end of stream")
)

// Stream describes an opened video.
type Stream struct {
	Path       string
	Duration   time.Duration
	FrameCount int
	Width      int
	Height     int
}

// FrameInterval returns the nominal time between source frames.
func (s Stream) FrameInterval() time.Duration {
	if s.FrameCount <= 0 {
		return 0
	}
	return s.Duration / time.Duration(s.FrameCount)
}

// Source yields raw frames in order until the decoder is exhausted.
// It cannot be rewound.
type Source struct {
	dec    Decoder
	stream Stream
	format frame.PixelFormat

	decoded int
	done    bool
	closed  bool
}

// Open opens a video file with ffmpeg. Frames are delivered as RGBA.
func Open(path string) (*Source, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStreamOpen, err)
	}
	video, err := vidio.NewVideo(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStreamOpen, path, err)
	}
	src, err := New(video, frame.FormatRGBA)
	if err != nil {
		return nil, err
	}
	src.stream.Path = path
	return src, nil
}

// New wraps an already opened decoder. The decoder is closed if its metadata
// cannot produce a frame interval.
func New(dec Decoder, format frame.PixelFormat) (*Source, error) {
	stream := Stream{
		Duration:   time.Duration(dec.Duration() * float64(time.Second)),
		FrameCount: dec.Frames(),
		Width:      dec.Width(),
		Height:     dec.Height(),
	}
	if stream.FrameCount <= 0 || stream.Duration <= 0 || stream.FrameInterval() <= 0 {
		dec.Close()
		return nil, fmt.Errorf("%w: duration %v over %d frames has no frame interval",
			ErrStreamOpen, stream.Duration, stream.FrameCount)
	}
	return &Source{dec: dec, stream: stream, format: format}, nil
}

// Stream returns the stream metadata.
func (s *Source) Stream() Stream {
	return s.stream
}

// Decoded returns the number of frames produced so far.
func (s *Source) Decoded() int {
	return s.decoded
}

// Next decodes the next frame. The returned buffer is owned by the decoder and
// is only valid until the following call. Once ErrEndOfStream has been
// returned every later call returns it again.
func (s *Source) Next() (frame.Raw, error) {
	if s.done || s.closed {
		return frame.Raw{}, ErrEndOfStream
	}
	if !s.dec.Read() {
		s.done = true
		return frame.Raw{}, ErrEndOfStream
	}
	s.decoded++
	return frame.Raw{
		Width:  s.dec.Width(),
		Height: s.dec.Height(),
		Pix:    s.dec.FrameBuffer(),
		Format: s.format,
	}, nil
}

// Close releases the decoder. It is safe to call more than once.
func (s *Source) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.dec.Close()
	return nil
}
