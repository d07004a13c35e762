package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/journal"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/ocr"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/receipt"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/stabilizer"
)

var (
	ErrNotFound = errors.New("scan session not found")
	ErrNoOCR    = errors.New("no OCR provider configured")
)

const (
	sweepJobName  = "session-sweep"
	defaultQRSize = 256
	sinkTimeout   = 10 * time.Second

	DefaultIdleTimeout = 10 * time.Minute
)

// QualityGate scores a raw camera frame in [0,1] before OCR runs
type QualityGate interface {
	Score(image []byte) float64
}

// AcceptAll is a QualityGate that passes every frame
type AcceptAll struct{}

func (AcceptAll) Score([]byte) float64 { return 1 }

// StableSink receives every receipt a session stabilizes on
type StableSink interface {
	SaveStable(ctx context.Context, sessionID uuid.UUID, result receipt.ParsedReceipt) error
}

// Config holds the session manager settings
type Config struct {
	Engine        stabilizer.Config
	IdleTimeout   time.Duration
	SweepSchedule string
	MinQuality    float64
	PublicBaseURL string
}

// Info is a snapshot of a scan session
type Info struct {
	ID           uuid.UUID          `json:"id"`
	CreatedAt    time.Time          `json:"created_at"`
	LastActivity time.Time          `json:"last_activity"`
	State        stabilizer.State   `json:"state"`
	Metrics      stabilizer.Metrics `json:"metrics"`
	Hint         string             `json:"hint"`
}

// FeedResult reports what happened to a submitted frame
type FeedResult struct {
	Accepted   bool           `json:"accepted"`
	SkipReason string         `json:"skip_reason,omitempty"`
	OCR        *ocr.OCRResult `json:"ocr,omitempty"`
	Session    Info           `json:"session"`
}

// Frame skip reasons
const (
	SkipInactive   = "inactive"
	SkipThrottled  = "throttled"
	SkipLowQuality = "low_quality"
)

type scanSession struct {
	id           uuid.UUID
	createdAt    time.Time
	lastActivity time.Time
	engine       *stabilizer.Engine
}

// Option configures a Manager
type Option func(*Manager)

// WithOCR sets the provider used by FeedImage
func WithOCR(provider ocr.Provider) Option {
	return func(m *Manager) { m.ocr = provider }
}

// WithQualityGate sets the frame quality gate used by FeedImage
func WithQualityGate(gate QualityGate) Option {
	return func(m *Manager) { m.gate = gate }
}

// WithStableSink sets where stabilized receipts are delivered
func WithStableSink(sink StableSink) Option {
	return func(m *Manager) { m.sink = sink }
}

// WithJournal records session events to j
func WithJournal(j *journal.Journal) Option {
	return func(m *Manager) { m.journal = j }
}

// WithClock overrides the manager and engine clock
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the manager logger
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// Manager owns the live scan sessions, one stabilization engine each
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*scanSession

	parser    stabilizer.Parser
	cfg       Config
	ocr       ocr.Provider
	gate      QualityGate
	sink      StableSink
	journal   *journal.Journal
	now       func() time.Time
	logger    zerolog.Logger
	scheduler *Scheduler
}

// NewManager creates a session manager around a shared receipt parser
func NewManager(parser stabilizer.Parser, cfg Config, opts ...Option) *Manager {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.SweepSchedule == "" {
		cfg.SweepSchedule = "@every 1m"
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")

	m := &Manager{
		sessions: make(map[uuid.UUID]*scanSession),
		parser:   parser,
		cfg:      cfg,
		gate:     AcceptAll{},
		now:      time.Now,
		logger:   log.With().Str("component", "session").Logger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create opens a new idle session
func (m *Manager) Create() Info {
	id := uuid.New()
	now := m.now()
	sessionLogger := m.logger.With().Str("session_id", id.String()).Logger()

	s := &scanSession{id: id, createdAt: now, lastActivity: now}
	s.engine = stabilizer.New(m.parser, m.cfg.Engine,
		stabilizer.WithClock(m.now),
		stabilizer.WithLogger(sessionLogger),
		stabilizer.WithOnStableResult(func(r receipt.ParsedReceipt) { m.handleStable(id, r) }),
		stabilizer.WithOnError(func(msg string) { m.handleError(id, msg) }),
	)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	sessionLogger.Info().Msg("scan session created")
	return m.info(s)
}

// Get returns a session snapshot
func (m *Manager) Get(id uuid.UUID) (Info, error) {
	s, err := m.lookup(id)
	if err != nil {
		return Info{}, err
	}
	return m.info(s), nil
}

// List returns all sessions, oldest first
func (m *Manager) List() []Info {
	m.mu.RLock()
	sessions := make([]*scanSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].createdAt.Before(sessions[j].createdAt)
	})

	out := make([]Info, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, m.info(s))
	}
	return out
}

// Delete stops and removes a session
func (m *Manager) Delete(id uuid.UUID) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	s.engine.Stop()
	m.logger.Info().Str("session_id", id.String()).Msg("scan session deleted")
	return nil
}

// Start begins scanning on a session
func (m *Manager) Start(id uuid.UUID) (Info, error) {
	return m.control(id, journal.KindStarted, (*stabilizer.Engine).Start)
}

// Stop pauses scanning on a session
func (m *Manager) Stop(id uuid.UUID) (Info, error) {
	return m.control(id, journal.KindStopped, (*stabilizer.Engine).Stop)
}

// Reset returns a session to its initial state
func (m *Manager) Reset(id uuid.UUID) (Info, error) {
	return m.control(id, journal.KindReset, (*stabilizer.Engine).Reset)
}

func (m *Manager) control(id uuid.UUID, kind journal.Kind, action func(*stabilizer.Engine)) (Info, error) {
	s, err := m.touch(id)
	if err != nil {
		return Info{}, err
	}
	action(s.engine)

	info := m.info(s)
	m.record(id, kind, info.State.Status, nil)
	return info, nil
}

// Feed pushes one frame's OCR output into a session
func (m *Manager) Feed(id uuid.UUID, input receipt.OCRInput) (FeedResult, error) {
	s, err := m.touch(id)
	if err != nil {
		return FeedResult{}, err
	}
	return m.feed(s, input), nil
}

// FeedImage runs a camera frame through the quality gate and OCR before
// feeding it. OCR failures are fed as empty text so the session reports them.
func (m *Manager) FeedImage(ctx context.Context, id uuid.UUID, image []byte) (FeedResult, error) {
	s, err := m.touch(id)
	if err != nil {
		return FeedResult{}, err
	}
	if m.ocr == nil {
		return FeedResult{}, ErrNoOCR
	}

	if !s.engine.State().IsActive {
		return FeedResult{SkipReason: SkipInactive, Session: m.info(s)}, nil
	}
	if m.gate.Score(image) < m.cfg.MinQuality {
		return FeedResult{SkipReason: SkipLowQuality, Session: m.info(s)}, nil
	}

	result, err := m.ocr.ExtractText(ctx, image)
	if err != nil {
		m.logger.Warn().Err(err).Str("session_id", id.String()).Str("provider", m.ocr.GetProviderName()).Msg("OCR failed")
		result = &ocr.OCRResult{}
	}

	fr := m.feed(s, result.Input())
	fr.OCR = result
	return fr, nil
}

func (m *Manager) feed(s *scanSession, input receipt.OCRInput) FeedResult {
	wasActive := s.engine.State().IsActive
	accepted := s.engine.Feed(input)
	info := m.info(s)

	fr := FeedResult{Accepted: accepted, Session: info}
	switch {
	case accepted:
		m.record(s.id, journal.KindFrame, info.State.Status, map[string]any{
			"frame":      info.State.FrameCount,
			"confidence": input.Confidence,
		})
	case !wasActive:
		fr.SkipReason = SkipInactive
	default:
		fr.SkipReason = SkipThrottled
	}
	return fr
}

// Sweep removes sessions idle longer than the idle timeout and returns how many were removed
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	expired := []*scanSession{}
	for id, s := range m.sessions {
		if now.Sub(s.lastActivity) > m.cfg.IdleTimeout {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.engine.Stop()
		m.record(s.id, journal.KindExpired, stabilizer.StatusDetecting, nil)
	}
	if len(expired) > 0 {
		m.logger.Info().Int("expired", len(expired)).Msg("🧹 idle scan sessions removed")
	}
	return len(expired)
}

// StartSweeper schedules Sweep on the configured cron schedule
func (m *Manager) StartSweeper() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.scheduler != nil {
		return nil
	}
	scheduler := NewScheduler(m.logger)
	if err := scheduler.AddJob(sweepJobName, m.cfg.SweepSchedule, func() { m.Sweep(m.now()) }); err != nil {
		return err
	}
	scheduler.Start()
	m.scheduler = scheduler
	return nil
}

// StopSweeper stops the sweep schedule
func (m *Manager) StopSweeper() {
	m.mu.Lock()
	scheduler := m.scheduler
	m.scheduler = nil
	m.mu.Unlock()

	if scheduler != nil {
		scheduler.Stop()
	}
}

// Events returns a session's journal. Sessions that no longer exist keep their history.
func (m *Manager) Events(ctx context.Context, id uuid.UUID, limit int) ([]journal.Event, error) {
	if m.journal == nil {
		return []journal.Event{}, nil
	}
	return m.journal.ListBySession(ctx, id.String(), limit)
}

// URL returns the public URL of a session
func (m *Manager) URL(id uuid.UUID) string {
	return fmt.Sprintf("%s/scan-sessions/%s", m.cfg.PublicBaseURL, id)
}

// QRCode renders the session URL as a PNG so a phone can join the session
func (m *Manager) QRCode(id uuid.UUID, size int) ([]byte, error) {
	if _, err := m.lookup(id); err != nil {
		return nil, err
	}
	if size <= 0 {
		size = defaultQRSize
	}

	png, err := qrcode.Encode(m.URL(id), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}

func (m *Manager) lookup(id uuid.UUID) (*scanSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// touch looks a session up and marks it active now
func (m *Manager) touch(id uuid.UUID) (*scanSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.lastActivity = m.now()
	return s, nil
}

func (m *Manager) info(s *scanSession) Info {
	state := s.engine.State()

	m.mu.RLock()
	lastActivity := s.lastActivity
	m.mu.RUnlock()

	return Info{
		ID:           s.id,
		CreatedAt:    s.createdAt,
		LastActivity: lastActivity,
		State:        state,
		Metrics:      s.engine.Metrics(),
		Hint:         state.Status.Hint(),
	}
}

func (m *Manager) handleStable(id uuid.UUID, r receipt.ParsedReceipt) {
	m.record(id, journal.KindStable, stabilizer.StatusStable, r)

	if m.sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
	defer cancel()

	if err := m.sink.SaveStable(ctx, id, r); err != nil {
		m.logger.Error().Err(err).Str("session_id", id.String()).Msg("failed to save stable receipt")
	}
}

func (m *Manager) handleError(id uuid.UUID, msg string) {
	m.logger.Error().Str("session_id", id.String()).Str("error", msg).Msg("frame processing error")
	m.record(id, journal.KindError, stabilizer.StatusError, map[string]string{"error": msg})
}

func (m *Manager) record(id uuid.UUID, kind journal.Kind, status stabilizer.Status, payload any) {
	if m.journal == nil {
		return
	}
	if _, err := m.journal.Record(context.Background(), id.String(), kind, string(status), payload); err != nil {
		m.logger.Warn().Err(err).Str("session_id", id.String()).Msg("failed to record scan event")
	}
}
