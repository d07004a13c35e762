package stabilizer

import (
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/receipt"
)

const (
	DefaultThrottleMs         = 300
	DefaultStabilityThreshold = 3
	DefaultMinConfidence      = 0.6

	// NoThrottle as Config.ThrottleMs processes every frame
	NoThrottle = -1

	// Advisory status heuristics for low-confidence frames
	darkTextLength   = 20
	blurryConfidence = 0.5
)

// Parser is the receipt parser the engine runs on each accepted frame
type Parser interface {
	Parse(input receipt.OCRInput) receipt.ParseOutcome
}

// Config tunes the stabilization engine.
// Zero fields take the defaults; a negative ThrottleMs disables throttling.
type Config struct {
	ThrottleMs         int     `json:"throttle_ms"`
	StabilityThreshold int     `json:"stability_threshold"`
	MinConfidence      float64 `json:"min_confidence"`
}

// DefaultConfig returns the engine defaults
func DefaultConfig() Config {
	return Config{
		ThrottleMs:         DefaultThrottleMs,
		StabilityThreshold: DefaultStabilityThreshold,
		MinConfidence:      DefaultMinConfidence,
	}
}

func (c Config) withDefaults() Config {
	switch {
	case c.ThrottleMs == 0:
		c.ThrottleMs = DefaultThrottleMs
	case c.ThrottleMs < 0:
		c.ThrottleMs = NoThrottle
	}
	if c.StabilityThreshold < 2 {
		c.StabilityThreshold = DefaultStabilityThreshold
	}
	if c.MinConfidence <= 0 || c.MinConfidence > 1 {
		c.MinConfidence = DefaultMinConfidence
	}
	return c
}

// State is a snapshot of a scanning session.
// IsStable implies LastStableResult is set, and Status is StatusStable
// exactly when IsStable is true.
type State struct {
	IsActive         bool                   `json:"is_active"`
	IsStable         bool                   `json:"is_stable"`
	LastStableResult *receipt.ParsedReceipt `json:"last_stable_result"`
	FrameCount       int                    `json:"frame_count"`
	Status           Status                 `json:"status"`
	ErrorMessage     *string                `json:"error_message"`
}

// Option configures an Engine
type Option func(*Engine)

// WithClock overrides the clock used for throttling and metrics
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithOnStableResult registers the callback fired once per entry into the stable state
func WithOnStableResult(fn func(receipt.ParsedReceipt)) Option {
	return func(e *Engine) {
		e.onStable = fn
	}
}

// WithOnError registers the callback fired when frame processing fails internally
func WithOnError(fn func(string)) Option {
	return func(e *Engine) {
		e.onError = fn
	}
}

// WithLogger sets the logger used for state transitions
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// Engine consumes per-frame OCR results and decides when consecutive parses
// agree on one receipt. Methods are safe for concurrent use; frames must still
// be fed in arrival order.
type Engine struct {
	mu sync.Mutex

	parser   Parser
	cfg      Config
	now      func() time.Time
	onStable func(receipt.ParsedReceipt)
	onError  func(string)
	logger   zerolog.Logger

	state        State
	buffer       *stabilityBuffer
	metrics      metricsTracker
	lastAccepted time.Time
}

// New creates an idle engine
func New(parser Parser, cfg Config, opts ...Option) *Engine {
	cfg = cfg.withDefaults()
	e := &Engine{
		parser: parser,
		cfg:    cfg,
		now:    time.Now,
		logger: log.With().Str("component", "stabilizer").Logger(),
		buffer: newStabilityBuffer(cfg.StabilityThreshold),
		state:  State{Status: StatusDetecting},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the effective engine configuration
func (e *Engine) Config() Config {
	return e.cfg
}

// Start begins accepting frames. The stability buffer is cleared.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.buffer.clear()
	e.lastAccepted = time.Time{}
	e.state.IsActive = true
	e.state.IsStable = false
	e.state.Status = StatusDetecting
	e.state.ErrorMessage = nil

	e.logger.Debug().Msg("scanning started")
}

// Stop stops accepting frames. It is idempotent. The last stable result is kept.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.IsActive {
		return
	}
	e.state.IsActive = false
	e.state.IsStable = false
	e.state.Status = StatusDetecting

	e.logger.Debug().Int("frames", e.state.FrameCount).Msg("scanning stopped")
}

// Reset returns the engine to its initial idle state, discarding the buffer,
// counters, metrics and last stable result.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.buffer.clear()
	e.metrics.reset()
	e.lastAccepted = time.Time{}
	e.state = State{Status: StatusDetecting}
}

// LastStable returns the last result the stream converged on, or nil
func (e *Engine) LastStable() *receipt.ParsedReceipt {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.LastStableResult
}

// State returns a snapshot of the session state
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.state
	if s.ErrorMessage != nil {
		msg := *s.ErrorMessage
		s.ErrorMessage = &msg
	}
	return s
}

// Metrics returns a snapshot of the running performance counters
func (e *Engine) Metrics() Metrics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.metrics.snapshot()
}

// BufferSize returns how many confident parses are currently buffered
func (e *Engine) BufferSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buffer.size()
}

// Feed processes one frame's OCR output. It reports whether the frame was
// accepted; frames are dropped while idle or inside the throttle window.
// Callbacks run after the engine lock is released.
func (e *Engine) Feed(input receipt.OCRInput) bool {
	e.mu.Lock()
	accepted, ev := e.feedLocked(input)
	e.mu.Unlock()

	e.dispatch(ev)
	return accepted
}

// events collects callbacks to fire once the lock is released
type events struct {
	stable *receipt.ParsedReceipt
	err    *string
}

func (e *Engine) feedLocked(input receipt.OCRInput) (accepted bool, ev events) {
	if !e.state.IsActive {
		return false, ev
	}

	now := e.now()
	throttle := time.Duration(e.cfg.ThrottleMs) * time.Millisecond
	if e.cfg.ThrottleMs > 0 && !e.lastAccepted.IsZero() && now.Sub(e.lastAccepted) < throttle {
		return false, ev
	}
	e.lastAccepted = now
	e.state.FrameCount++
	accepted = true

	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("frame processing failed: %v", r)
			e.metrics.record(0, false, now)
			e.setError(msg)
			ev = events{err: &msg}
		}
	}()

	outcome := e.parser.Parse(input)
	e.metrics.record(outcome.ProcessingTimeMs, outcome.Success, now)

	if !outcome.Success || outcome.Data == nil {
		msg := receipt.MsgNoText
		if len(outcome.Errors) > 0 {
			msg = outcome.Errors[0]
		}
		e.setError(msg)
		return accepted, ev
	}

	result := *outcome.Data
	e.state.ErrorMessage = nil

	if result.Confidence.Overall < e.cfg.MinConfidence {
		if !e.state.IsStable {
			e.state.Status = advisoryStatus(input, result)
		}
		return accepted, ev
	}

	e.buffer.push(result)
	isConverged := converged(e.buffer.entries, e.cfg.StabilityThreshold)

	switch {
	case isConverged && !e.state.IsStable:
		latest, _ := e.buffer.latest()
		e.state.IsStable = true
		e.state.LastStableResult = &latest
		e.state.Status = StatusStable
		ev.stable = &latest

		e.logger.Info().
			Int("frame", e.state.FrameCount).
			Str("merchant", latest.MerchantValue()).
			Float64("total", latest.TotalValue()).
			Str("date", latest.DateValue()).
			Msg("receipt stabilized")
	case !isConverged && e.state.IsStable:
		e.state.IsStable = false
		e.state.Status = StatusDetecting

		e.logger.Debug().Int("frame", e.state.FrameCount).Msg("stability lost")
	case !isConverged:
		e.state.Status = StatusDetecting
	}

	return accepted, ev
}

func (e *Engine) setError(msg string) {
	e.state.IsStable = false
	e.state.Status = StatusError
	e.state.ErrorMessage = &msg
}

func (e *Engine) dispatch(ev events) {
	if ev.err != nil && e.onError != nil {
		e.onError(*ev.err)
	}
	if ev.stable == nil || e.onStable == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("stable result handler failed: %v", r)
			e.logger.Error().Str("error", msg).Msg("callback panicked")
			if e.onError != nil {
				e.onError(msg)
			}
		}
	}()
	e.onStable(*ev.stable)
}

// advisoryStatus classifies a low-confidence frame for UI feedback only
func advisoryStatus(input receipt.OCRInput, result receipt.ParsedReceipt) Status {
	switch {
	case utf8.RuneCountInString(input.Text) < darkTextLength:
		return StatusDark
	case input.Confidence < blurryConfidence:
		return StatusBlurry
	case result.Merchant == nil && result.TotalAmount == nil:
		return StatusTilted
	default:
		return StatusDetecting
	}
}
