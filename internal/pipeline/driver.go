package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/junsooki/framepace/internal/encoder"
	"github.com/junsooki/framepace/internal/frame"
	"github.com/junsooki/framepace/internal/metrics"
	"github.com/junsooki/framepace/internal/pacer"
	"github.com/junsooki/framepace/internal/source"
)

// FrameSource yields decoded frames until it returns source.ErrEndOfStream.
type FrameSource interface {
	Next() (frame.Raw, error)
	Close() error
}

// Presenter displays a canonical frame.
type Presenter interface {
	Present(f frame.Canonical) error
}

// Sink receives every newly encoded still. Sink errors are logged, not fatal.
type Sink interface {
	Save(f frame.Canonical, still []byte) error
}

// Config wires a Driver. Sink, Metrics and Logger are optional.
type Config struct {
	Interval  time.Duration
	Quality   int
	Source    FrameSource
	Encoder   encoder.Encoder
	Presenter Presenter
	Sink      Sink
	Metrics   *metrics.Metrics
	Logger    *zerolog.Logger
}

// Driver runs one pipeline tick per display refresh. It is not safe for
// concurrent use; every call is expected from the display loop goroutine.
type Driver struct {
	source    FrameSource
	encoder   encoder.Encoder
	presenter Presenter
	sink      Sink
	metrics   *metrics.Metrics
	log       zerolog.Logger

	pacer   *pacer.Pacer
	quality int

	state    State
	current  frame.Canonical
	hasFrame bool
	index    uint64
	still    []byte
	lastTick time.Time
	err      error
}

// New validates cfg and returns a Driver in the Priming state.
func New(cfg Config) (*Driver, error) {
	if cfg.Source == nil || cfg.Encoder == nil || cfg.Presenter == nil {
		return nil, errors.New("pipeline: source, encoder and presenter are required")
	}
	if cfg.Quality < 0 || cfg.Quality > 100 {
		return nil, fmt.Errorf("pipeline: quality %d out of range 0-100", cfg.Quality)
	}
	p, err := pacer.New(cfg.Interval)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = cfg.Logger.With().Str("component", "pipeline").Logger()
	}

	d := &Driver{
		source:    cfg.Source,
		encoder:   cfg.Encoder,
		presenter: cfg.Presenter,
		sink:      cfg.Sink,
		metrics:   cfg.Metrics,
		log:       log,
		pacer:     p,
		quality:   cfg.Quality,
		state:     StatePriming,
	}
	d.metrics.SetState(int(StatePriming))
	return d, nil
}

// Tick advances the pipeline by one display refresh at wall-clock time now.
// A non-nil error is fatal for the session; the driver is Exhausted afterwards.
func (d *Driver) Tick(now time.Time) (Outcome, error) {
	if d.state == StateExhausted {
		return OutcomeExhausted, nil
	}

	var elapsed time.Duration
	if !d.lastTick.IsZero() {
		elapsed = now.Sub(d.lastTick)
	}
	d.lastTick = now

	if !d.pacer.Tick(elapsed) {
		d.metrics.ObserveTick(OutcomeHeld.String())
		if d.hasFrame {
			if err := d.presenter.Present(d.current); err != nil {
				return d.fail(fmt.Errorf("redraw frame %d: %w", d.index, err))
			}
		}
		return OutcomeHeld, nil
	}
	return d.advance()
}

func (d *Driver) advance() (Outcome, error) {
	start := time.Now()
	raw, err := d.source.Next()
	decoded := time.Now()
	d.metrics.ObserveStage(metrics.StageDecode, decoded.Sub(start))
	if errors.Is(err, source.ErrEndOfStream) {
		d.log.Info().Uint64("frames", d.index).Msg("end of stream")
		d.exhaust()
		return OutcomeExhausted, nil
	}
	if err != nil {
		return d.fail(fmt.Errorf("decode frame %d: %w", d.index+1, err))
	}

	next, err := frame.Convert(raw)
	converted := time.Now()
	d.metrics.ObserveStage(metrics.StageConvert, converted.Sub(decoded))
	if err != nil {
		return d.fail(fmt.Errorf("convert frame %d: %w", d.index+1, err))
	}
	d.index++
	next.Index = d.index
	d.current = next
	d.hasFrame = true

	still, err := d.encoder.Encode(d.current, d.quality)
	encoded := time.Now()
	d.metrics.ObserveStage(metrics.StageEncode, encoded.Sub(converted))
	if err != nil {
		return d.fail(fmt.Errorf("encode frame %d: %w", d.index, err))
	}
	d.still = still
	if d.sink != nil {
		if err := d.sink.Save(d.current, still); err != nil {
			d.log.Warn().Err(err).Uint64("frame", d.index).Msg("snapshot not saved")
		}
	}

	saved := time.Now()
	if err := d.presenter.Present(d.current); err != nil {
		return d.fail(fmt.Errorf("present frame %d: %w", d.index, err))
	}
	presented := time.Now()
	d.metrics.ObserveStage(metrics.StagePresent, presented.Sub(saved))

	d.log.Debug().
		Uint64("frame", d.index).
		Dur("decode", decoded.Sub(start)).
		Dur("convert", converted.Sub(decoded)).
		Dur("encode", encoded.Sub(converted)).
		Dur("present", presented.Sub(saved)).
		Int("still_bytes", len(still)).
		Msg("frame advanced")

	d.metrics.FrameAdvanced()
	d.metrics.ObserveTick(OutcomeAdvanced.String())
	d.setState(StatePlaying)
	return OutcomeAdvanced, nil
}

func (d *Driver) fail(err error) (Outcome, error) {
	d.err = err
	d.log.Error().Err(err).Uint64("frame", d.index).Msg("playback aborted")
	d.exhaust()
	return OutcomeExhausted, err
}

func (d *Driver) exhaust() {
	d.metrics.ObserveTick(OutcomeExhausted.String())
	d.setState(StateExhausted)
	if err := d.source.Close(); err != nil {
		d.log.Warn().Err(err).Msg("close source")
	}
}

func (d *Driver) setState(s State) {
	if d.state == s {
		return
	}
	d.log.Info().Stringer("from", d.state).Stringer("to", s).Msg("state change")
	d.state = s
	d.metrics.SetState(int(s))
}

// Close stops playback and releases the stream. Safe to call more than once.
func (d *Driver) Close() error {
	if d.state == StateExhausted {
		return nil
	}
	d.setState(StateExhausted)
	return d.source.Close()
}

// State returns the current playback state.
func (d *Driver) State() State { return d.state }

// FrameIndex returns how many frames have been displayed.
func (d *Driver) FrameIndex() uint64 { return d.index }

// Current returns the frame on screen, if any.
func (d *Driver) Current() (frame.Canonical, bool) { return d.current, d.hasFrame }

// LastEncoded returns the most recently encoded still image, or nil.
func (d *Driver) LastEncoded() []byte { return d.still }

// Err returns the error that ended the session, or nil after a clean end of stream.
func (d *Driver) Err() error { return d.err }
