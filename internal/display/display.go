package display

import (
	"time"

	"github.com/junsooki/framepace/internal/pipeline"
)

// Ticker is driven once per display refresh.
type Ticker interface {
	Tick(now time.Time) (pipeline.Outcome, error)
	FrameIndex() uint64
}

// Config sets up the playback window.
type Config struct {
	Width  int
	Height int
	Title  string
}
