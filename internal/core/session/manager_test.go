package session

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/journal"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/ocr"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/receipt"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/stabilizer"
)

const receiptText = "ALFAMART\nJl Raya Bogor KM 30\nTanggal: 15/08/2025\nTOTAL: Rp 5.500"

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeOCR struct {
	result *ocr.OCRResult
	err    error
	calls  int
}

func (f *fakeOCR) ExtractText(ctx context.Context, imageData []byte) (*ocr.OCRResult, error) {
	f.calls++
	return f.result, f.err
}

func (f *fakeOCR) GetProviderName() string { return "fake" }

type fixedGate float64

func (g fixedGate) Score([]byte) float64 { return float64(g) }

type recordingSink struct {
	saved []receipt.ParsedReceipt
	ids   []uuid.UUID
}

func (s *recordingSink) SaveStable(ctx context.Context, id uuid.UUID, r receipt.ParsedReceipt) error {
	s.ids = append(s.ids, id)
	s.saved = append(s.saved, r)
	return nil
}

type fixture struct {
	clock   *testClock
	manager *Manager
	sink    *recordingSink
	journal *journal.Journal
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	j, err := journal.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	f := &fixture{
		clock:   &testClock{now: time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)},
		sink:    &recordingSink{},
		journal: j,
	}
	parser := receipt.NewParser(receipt.DefaultConfig(), receipt.WithClock(f.clock.Now))
	cfg := Config{
		Engine:        stabilizer.DefaultConfig(),
		IdleTimeout:   10 * time.Minute,
		MinQuality:    0.5,
		PublicBaseURL: "https://struk.example.com/",
	}
	base := []Option{WithClock(f.clock.Now), WithStableSink(f.sink), WithJournal(j)}
	f.manager = NewManager(parser, cfg, append(base, opts...)...)
	return f
}

func (f *fixture) feed(t *testing.T, id uuid.UUID, text string) FeedResult {
	t.Helper()
	f.clock.Advance(time.Second)
	res, err := f.manager.Feed(id, receipt.OCRInput{Text: text, Confidence: 0.9})
	require.NoError(t, err)
	return res
}

func TestSessionLifecycle(t *testing.T) {
	f := newFixture(t)

	first := f.manager.Create()
	f.clock.Advance(time.Second)
	second := f.manager.Create()

	assert.False(t, first.State.IsActive)
	assert.Equal(t, stabilizer.StatusDetecting, first.State.Status)
	assert.Equal(t, stabilizer.StatusDetecting.Hint(), first.Hint)

	list := f.manager.List()
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)

	info, err := f.manager.Start(first.ID)
	require.NoError(t, err)
	assert.True(t, info.State.IsActive)

	require.NoError(t, f.manager.Delete(first.ID))
	_, err = f.manager.Get(first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.manager.Delete(first.ID), ErrNotFound)

	_, err = f.manager.Start(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.manager.Feed(uuid.New(), receipt.OCRInput{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFeedSkipReasons(t *testing.T) {
	f := newFixture(t)
	id := f.manager.Create().ID

	res := f.feed(t, id, receiptText)
	assert.False(t, res.Accepted)
	assert.Equal(t, SkipInactive, res.SkipReason)

	_, err := f.manager.Start(id)
	require.NoError(t, err)

	res = f.feed(t, id, receiptText)
	assert.True(t, res.Accepted)
	assert.Empty(t, res.SkipReason)

	res, err = f.manager.Feed(id, receipt.OCRInput{Text: receiptText, Confidence: 0.9})
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Equal(t, SkipThrottled, res.SkipReason)
	assert.Equal(t, 1, res.Session.State.FrameCount)
}

func TestStableReceiptReachesSinkAndJournal(t *testing.T) {
	f := newFixture(t)
	id := f.manager.Create().ID
	_, err := f.manager.Start(id)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		f.feed(t, id, receiptText)
	}

	require.Len(t, f.sink.saved, 1)
	assert.Equal(t, id, f.sink.ids[0])
	assert.Equal(t, "ALFAMART", f.sink.saved[0].MerchantValue())
	assert.Equal(t, 5500.0, f.sink.saved[0].TotalValue())

	info, err := f.manager.Get(id)
	require.NoError(t, err)
	assert.True(t, info.State.IsStable)
	assert.Equal(t, 4, info.Metrics.TotalFramesProcessed)

	events, err := f.manager.Events(context.Background(), id, 0)
	require.NoError(t, err)

	kinds := []journal.Kind{}
	for _, ev := range events {
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []journal.Kind{
		journal.KindStarted,
		journal.KindFrame,
		journal.KindStable,
		journal.KindFrame,
		journal.KindFrame,
		journal.KindFrame,
	}, kinds)
}

func TestFeedImage(t *testing.T) {
	t.Run("without a provider", func(t *testing.T) {
		f := newFixture(t)
		id := f.manager.Create().ID

		_, err := f.manager.FeedImage(context.Background(), id, []byte("img"))
		assert.ErrorIs(t, err, ErrNoOCR)
	})

	t.Run("inactive sessions skip OCR", func(t *testing.T) {
		provider := &fakeOCR{result: &ocr.OCRResult{Text: receiptText, Confidence: 0.9}}
		f := newFixture(t, WithOCR(provider))
		id := f.manager.Create().ID

		res, err := f.manager.FeedImage(context.Background(), id, []byte("img"))
		require.NoError(t, err)
		assert.Equal(t, SkipInactive, res.SkipReason)
		assert.Zero(t, provider.calls)
	})

	t.Run("low quality frames skip OCR", func(t *testing.T) {
		provider := &fakeOCR{result: &ocr.OCRResult{Text: receiptText, Confidence: 0.9}}
		f := newFixture(t, WithOCR(provider), WithQualityGate(fixedGate(0.2)))
		id := f.manager.Create().ID
		_, err := f.manager.Start(id)
		require.NoError(t, err)

		res, err := f.manager.FeedImage(context.Background(), id, []byte("img"))
		require.NoError(t, err)
		assert.False(t, res.Accepted)
		assert.Equal(t, SkipLowQuality, res.SkipReason)
		assert.Zero(t, provider.calls)
	})

	t.Run("recognised text is fed", func(t *testing.T) {
		provider := &fakeOCR{result: &ocr.OCRResult{Text: receiptText, Confidence: 0.9}}
		f := newFixture(t, WithOCR(provider))
		id := f.manager.Create().ID
		_, err := f.manager.Start(id)
		require.NoError(t, err)

		res, err := f.manager.FeedImage(context.Background(), id, []byte("img"))
		require.NoError(t, err)
		assert.True(t, res.Accepted)
		require.NotNil(t, res.OCR)
		assert.Equal(t, receiptText, res.OCR.Text)
		assert.Equal(t, 1, provider.calls)
	})

	t.Run("OCR failures surface as session errors", func(t *testing.T) {
		provider := &fakeOCR{err: errors.New("vision quota exceeded")}
		f := newFixture(t, WithOCR(provider))
		id := f.manager.Create().ID
		_, err := f.manager.Start(id)
		require.NoError(t, err)

		res, err := f.manager.FeedImage(context.Background(), id, []byte("img"))
		require.NoError(t, err)
		assert.True(t, res.Accepted)
		assert.Equal(t, stabilizer.StatusError, res.Session.State.Status)
		require.NotNil(t, res.Session.State.ErrorMessage)
		assert.Equal(t, receipt.MsgNoText, *res.Session.State.ErrorMessage)
	})
}

func TestSweepRemovesIdleSessions(t *testing.T) {
	f := newFixture(t)
	idle := f.manager.Create().ID
	busy := f.manager.Create().ID

	f.clock.Advance(8 * time.Minute)
	_, err := f.manager.Start(busy)
	require.NoError(t, err)
	f.clock.Advance(3 * time.Minute)

	assert.Equal(t, 1, f.manager.Sweep(f.clock.Now()))

	_, err = f.manager.Get(idle)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.manager.Get(busy)
	assert.NoError(t, err)

	events, err := f.manager.Events(context.Background(), idle, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, journal.KindExpired, events[0].Kind)
}

func TestSweeperSchedule(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.manager.StartSweeper())
	require.NoError(t, f.manager.StartSweeper())
	f.manager.StopSweeper()
	f.manager.StopSweeper()

	parser := receipt.NewParser(receipt.DefaultConfig())
	bad := NewManager(parser, Config{SweepSchedule: "every now and then"})
	assert.Error(t, bad.StartSweeper())
}

func TestQRCode(t *testing.T) {
	f := newFixture(t)
	id := f.manager.Create().ID

	assert.Equal(t, "https://struk.example.com/scan-sessions/"+id.String(), f.manager.URL(id))

	png, err := f.manager.QRCode(id, 0)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	_, err = f.manager.QRCode(uuid.New(), 128)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEventsWithoutJournal(t *testing.T) {
	m := NewManager(receipt.NewParser(receipt.DefaultConfig()), Config{})

	events, err := m.Events(context.Background(), uuid.New(), 0)
	require.NoError(t, err)
	assert.Empty(t, events)
}
