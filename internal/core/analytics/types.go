package analytics

import "time"

// DateRange is an inclusive time window on a date column
type DateRange struct {
	Start time.Time
	End   time.Time
	Field string // column to filter on, e.g. "purchase_date"
}

// Totals summarizes the transactions inside a range
type Totals struct {
	Count   int64   `json:"count"`
	Total   float64 `json:"total"`
	Average float64 `json:"average"`
}

// MerchantSpend is the spend at one merchant inside a range
type MerchantSpend struct {
	Merchant string  `json:"merchant"`
	Count    int64   `json:"count"`
	Total    float64 `json:"total"`
}

// DailySpend is the spend on one purchase date
type DailySpend struct {
	Day   time.Time `json:"day"`
	Count int64     `json:"count"`
	Total float64   `json:"total"`
}

// ChartData represents generic chart data format
type ChartData struct {
	Type   string        `json:"type"`   // "line", "bar", "pie"
	Labels []string      `json:"labels"` // X-axis labels or pie segments
	Data   []ChartSeries `json:"data"`
}

// ChartSeries represents a data series in a chart
type ChartSeries struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
	Color  string    `json:"color,omitempty"`
}

// StatCard represents a summary statistic card
type StatCard struct {
	Title       string  `json:"title"`
	Value       string  `json:"value"`
	Change      float64 `json:"change"`       // Percentage change
	ChangeLabel string  `json:"change_label"` // "vs periode sebelumnya"
	Trend       string  `json:"trend"`        // "up", "down", "neutral"
}

// Summary is the spending report for one period
type Summary struct {
	Period       string          `json:"period"`
	Start        string          `json:"start"` // YYYY-MM-DD
	End          string          `json:"end"`   // YYYY-MM-DD
	Currency     string          `json:"currency"`
	Totals       Totals          `json:"totals"`
	Previous     Totals          `json:"previous"`
	Cards        []StatCard      `json:"cards"`
	TopMerchants []MerchantSpend `json:"top_merchants"`
	Daily        ChartData       `json:"daily"`
	Merchants    ChartData       `json:"merchants"`
}
