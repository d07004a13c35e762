package export

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ExportFormat represents the export file format
type ExportFormat string

const (
	FormatPDF   ExportFormat = "pdf"
	FormatExcel ExportFormat = "excel"
)

// ParseFormat maps a query value such as "xlsx" onto an ExportFormat
func ParseFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "excel", "xlsx":
		return FormatExcel, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", s)
	}
}

// Exporter is the interface for all export formats
type Exporter interface {
	Export(data *ExportData, writer io.Writer) error
	GetContentType() string
	GetFileExtension() string
}

// Column describes one table column
type Column struct {
	Header string
	Weight float64 // relative width, 0 means 1
	Amount bool    // right aligned, rupiah formatted
}

// ExportData represents the data to be exported
type ExportData struct {
	Title       string
	Description string
	CreatedAt   time.Time

	Columns []Column
	Rows    [][]any

	// SummaryLabel and SummaryTotal render a closing "grand total" row when set
	SummaryLabel string
	SummaryTotal float64

	Style ExportStyle
}

// ExportStyle defines styling options for exports
type ExportStyle struct {
	Orientation string // "portrait" or "landscape"
	PageSize    string

	HeaderBgColor string // Hex color
	RowBgColor1   string
	RowBgColor2   string

	FontSize float64

	FreezeHeader bool
	AutoFilter   bool
}

// DefaultStyle returns default export styling
func DefaultStyle() ExportStyle {
	return ExportStyle{
		Orientation:   "landscape",
		PageSize:      "A4",
		HeaderBgColor: "#4472C4",
		RowBgColor1:   "#FFFFFF",
		RowBgColor2:   "#F2F2F2",
		FontSize:      9,
		FreezeHeader:  true,
		AutoFilter:    true,
	}
}

// ReceiptRow is one confirmed receipt in an export
type ReceiptRow struct {
	ID           string
	Merchant     string
	TotalAmount  float64
	PurchaseDate string
	Confidence   float64
	Source       string
	CreatedAt    time.Time
}

// ReceiptReport builds the standard receipt listing
func ReceiptReport(title string, rows []ReceiptRow, now time.Time) *ExportData {
	data := &ExportData{
		Title:       title,
		Description: fmt.Sprintf("%d receipts", len(rows)),
		CreatedAt:   now,
		Columns: []Column{
			{Header: "No", Weight: 0.4},
			{Header: "Tanggal", Weight: 1},
			{Header: "Merchant", Weight: 2.2},
			{Header: "Total (IDR)", Weight: 1.3, Amount: true},
			{Header: "Keyakinan", Weight: 0.8},
			{Header: "Sumber", Weight: 0.7},
			{Header: "Dicatat", Weight: 1.4},
			{Header: "ID", Weight: 2.6},
		},
		Rows:         make([][]any, 0, len(rows)),
		SummaryLabel: "TOTAL",
		Style:        DefaultStyle(),
	}

	for i, r := range rows {
		date := r.PurchaseDate
		if date == "" {
			date = "-"
		}
		merchant := r.Merchant
		if merchant == "" {
			merchant = "-"
		}
		data.Rows = append(data.Rows, []any{
			i + 1,
			date,
			merchant,
			r.TotalAmount,
			fmt.Sprintf("%.0f%%", r.Confidence*100),
			r.Source,
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.ID,
		})
		data.SummaryTotal += r.TotalAmount
	}
	return data
}

// FormatRupiah renders an amount the Indonesian way, e.g. "Rp 1.234.567"
func FormatRupiah(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}
	digits := fmt.Sprintf("%.0f", amount)

	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	if negative {
		return "-Rp " + b.String()
	}
	return "Rp " + b.String()
}
