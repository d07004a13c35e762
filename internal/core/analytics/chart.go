package analytics

import (
	"fmt"
)

const unknownMerchant = "Tidak diketahui"

// ToDailyChartData turns per-day spend into a line chart over every day of r.
// Days without transactions are plotted as zero.
func ToDailyChartData(rows []DailySpend, r DateRange) ChartData {
	byDay := make(map[string]float64, len(rows))
	for _, row := range rows {
		byDay[row.Day.Format("2006-01-02")] += row.Total
	}

	days := GetDailyRanges(r.Start, r.End)
	labels := make([]string, len(days))
	values := make([]float64, len(days))
	for i, day := range days {
		labels[i] = day.Start.Format("2006-01-02")
		values[i] = byDay[labels[i]]
	}

	return ChartData{
		Type:   "line",
		Labels: labels,
		Data:   []ChartSeries{{Name: "total", Values: values}},
	}
}

// ToMerchantChartData turns per-merchant spend into a pie chart
func ToMerchantChartData(rows []MerchantSpend) ChartData {
	labels := make([]string, len(rows))
	values := make([]float64, len(rows))
	for i, row := range rows {
		labels[i] = row.Merchant
		if labels[i] == "" {
			labels[i] = unknownMerchant
		}
		values[i] = row.Total
	}

	return ChartData{
		Type:   "pie",
		Labels: labels,
		Data:   []ChartSeries{{Name: "total", Values: values}},
	}
}

// ToStatCards builds the headline cards, comparing against the previous period
func ToStatCards(current, previous Totals, formatMoney func(float64) string) []StatCard {
	const changeLabel = "vs periode sebelumnya"
	return []StatCard{
		newStatCard("Total Belanja", formatMoney(current.Total), current.Total, previous.Total, changeLabel),
		newStatCard("Jumlah Struk", fmt.Sprintf("%d", current.Count), float64(current.Count), float64(previous.Count), changeLabel),
		newStatCard("Rata-rata per Struk", formatMoney(current.Average), current.Average, previous.Average, changeLabel),
	}
}

func newStatCard(title, value string, current, previous float64, changeLabel string) StatCard {
	card := StatCard{Title: title, Value: value, ChangeLabel: changeLabel, Trend: "neutral"}
	if previous <= 0 {
		return card
	}

	card.Change = (current - previous) / previous * 100
	switch {
	case card.Change > 0:
		card.Trend = "up"
	case card.Change < 0:
		card.Trend = "down"
	}
	return card
}
