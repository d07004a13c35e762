package analytics

import (
	"context"
	"time"
)

const defaultTopMerchants = 5

// Store is the aggregation backend a Service reports from
type Store interface {
	Totals(ctx context.Context, r DateRange) (Totals, error)
	ByMerchant(ctx context.Context, r DateRange, limit int) ([]MerchantSpend, error)
	Daily(ctx context.Context, r DateRange) ([]DailySpend, error)
}

// Service builds spending summaries
type Service struct {
	store       Store
	currency    string
	formatMoney func(float64) string
}

// NewService creates a summary service. formatMoney renders card values.
func NewService(store Store, currency string, formatMoney func(float64) string) *Service {
	return &Service{store: store, currency: currency, formatMoney: formatMoney}
}

// Summarize reports spending for a named period relative to now
func (s *Service) Summarize(ctx context.Context, period string, now time.Time) (*Summary, error) {
	r, err := GetDateRange(period, now)
	if err != nil {
		return nil, err
	}
	if period == "" {
		period = DefaultPeriod
	}

	current, err := s.store.Totals(ctx, r)
	if err != nil {
		return nil, err
	}
	previous, err := s.store.Totals(ctx, PreviousRange(r))
	if err != nil {
		return nil, err
	}
	merchants, err := s.store.ByMerchant(ctx, r, defaultTopMerchants)
	if err != nil {
		return nil, err
	}
	daily, err := s.store.Daily(ctx, r)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Period:       period,
		Start:        r.Start.Format("2006-01-02"),
		End:          r.End.Format("2006-01-02"),
		Currency:     s.currency,
		Totals:       current,
		Previous:     previous,
		Cards:        ToStatCards(current, previous, s.formatMoney),
		TopMerchants: merchants,
		Daily:        ToDailyChartData(daily, r),
		Merchants:    ToMerchantChartData(merchants),
	}, nil
}
