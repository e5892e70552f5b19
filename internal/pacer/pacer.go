package pacer

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidInterval is returned for a non-positive target interval.
var ErrInvalidInterval = errors.New("invalid frame interval")

// ShouldAdvance adds elapsed to accumulated and reports whether a new frame is due.
// On advance the returned accumulator is zero: drift is discarded, not carried.
// A single call never advances more than once, however large elapsed is.
func ShouldAdvance(elapsed, accumulated, target time.Duration) (bool, time.Duration) {
	if elapsed < 0 {
		elapsed = 0
	}
	if accumulated < 0 {
		accumulated = 0
	}
	// Compare before adding so a saturated elapsed cannot wrap the sum.
	if elapsed >= target-accumulated {
		return true, 0
	}
	return false, accumulated + elapsed
}

// Pacer holds the playback clock for one stream.
type Pacer struct {
	target      time.Duration
	accumulated time.Duration
}

// New creates a Pacer that advances once per target interval.
func New(target time.Duration) (*Pacer, error) {
	if target <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInterval, target)
	}
	return &Pacer{target: target}, nil
}

// Tick feeds one tick's elapsed wall-clock time and reports whether to advance.
func (p *Pacer) Tick(elapsed time.Duration) bool {
	var advance bool
	advance, p.accumulated = ShouldAdvance(elapsed, p.accumulated, p.target)
	return advance
}

// Accumulated returns the time since the last advance.
func (p *Pacer) Accumulated() time.Duration {
	return p.accumulated
}

// Target returns the frame interval.
func (p *Pacer) Target() time.Duration {
	return p.target
}
