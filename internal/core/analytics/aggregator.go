package analytics

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Aggregator runs spending aggregations over a transactions table
type Aggregator struct {
	db    *gorm.DB
	table string
}

// NewAggregator creates a new aggregator over table
func NewAggregator(db *gorm.DB, table string) *Aggregator {
	return &Aggregator{db: db, table: table}
}

func (a *Aggregator) scoped(ctx context.Context, r DateRange) *gorm.DB {
	return a.db.WithContext(ctx).
		Table(a.table).
		Where(fmt.Sprintf("%s BETWEEN ? AND ?", r.Field), r.Start, r.End)
}

// Totals returns count, sum and average of total_amount inside r
func (a *Aggregator) Totals(ctx context.Context, r DateRange) (Totals, error) {
	var totals Totals
	err := a.scoped(ctx, r).
		Select("COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total, COALESCE(AVG(total_amount), 0) AS average").
		Scan(&totals).Error
	if err != nil {
		return Totals{}, fmt.Errorf("totals query failed: %w", err)
	}
	return totals, nil
}

// ByMerchant returns spend per merchant inside r, highest first
func (a *Aggregator) ByMerchant(ctx context.Context, r DateRange, limit int) ([]MerchantSpend, error) {
	query := a.scoped(ctx, r).
		Select("COALESCE(merchant, '') AS merchant, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total").
		Group("merchant").
		Order("total DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	rows := []MerchantSpend{}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("merchant query failed: %w", err)
	}
	return rows, nil
}

// Daily returns spend per day inside r, oldest first. Days without
// transactions are absent.
func (a *Aggregator) Daily(ctx context.Context, r DateRange) ([]DailySpend, error) {
	rows := []DailySpend{}
	err := a.scoped(ctx, r).
		Select(fmt.Sprintf("%s AS day, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total", r.Field)).
		Group(r.Field).
		Order(r.Field).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("daily query failed: %w", err)
	}
	return rows, nil
}
