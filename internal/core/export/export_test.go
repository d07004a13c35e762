package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var exportNow = time.Date(2025, 8, 20, 9, 30, 0, 0, time.UTC)

func sampleRows() []ReceiptRow {
	return []ReceiptRow{
		{ID: "a1", Merchant: "ALFAMART", TotalAmount: 5500, PurchaseDate: "2025-08-15", Confidence: 0.8625, Source: "scan", CreatedAt: exportNow},
		{ID: "b2", Merchant: "", TotalAmount: 1234567, Source: "ocr", CreatedAt: exportNow},
	}
}

func TestFormatRupiah(t *testing.T) {
	tests := map[float64]string{
		0:         "Rp 0",
		500:       "Rp 500",
		5500:      "Rp 5.500",
		1234567:   "Rp 1.234.567",
		100000000: "Rp 100.000.000",
		-25500:    "-Rp 25.500",
		1234.56:   "Rp 1.235",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatRupiah(in))
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]ExportFormat{"": FormatExcel, "xlsx": FormatExcel, "EXCEL": FormatExcel, "pdf": FormatPDF} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("csv")
	assert.Error(t, err)
}

func TestReceiptReport(t *testing.T) {
	data := ReceiptReport("Receipts", sampleRows(), exportNow)

	require.Len(t, data.Rows, 2)
	assert.Equal(t, "2 receipts", data.Description)
	assert.Equal(t, []any{1, "2025-08-15", "ALFAMART", 5500.0, "86%", "scan", "2025-08-20 09:30", "a1"}, data.Rows[0])
	assert.Equal(t, "-", data.Rows[1][1])
	assert.Equal(t, "-", data.Rows[1][2])
	assert.Equal(t, 1240067.0, data.SummaryTotal)
	assert.Len(t, data.Rows[0], len(data.Columns))
}

func TestExcelExport(t *testing.T) {
	file, err := NewService().Export(ReceiptReport("Receipts", sampleRows(), exportNow), FormatExcel)
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", file.Extension)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", file.ContentType)

	f, err := excelize.OpenReader(bytes.NewReader(file.Content))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Receipts", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Receipts", title)

	header, err := f.GetCellValue("Receipts", "C4")
	require.NoError(t, err)
	assert.Equal(t, "Merchant", header)

	merchant, err := f.GetCellValue("Receipts", "C5")
	require.NoError(t, err)
	assert.Equal(t, "ALFAMART", merchant)

	formula, err := f.GetCellFormula("Receipts", "D7")
	require.NoError(t, err)
	assert.Equal(t, "SUM(D5:D6)", formula)

	label, err := f.GetCellValue("Receipts", "A7")
	require.NoError(t, err)
	assert.Equal(t, "TOTAL", label)
}

func TestExcelExportWithoutRows(t *testing.T) {
	file, err := NewService().Export(ReceiptReport("Receipts", nil, exportNow), FormatExcel)
	require.NoError(t, err)
	assert.NotEmpty(t, file.Content)
}

func TestPDFExport(t *testing.T) {
	rows := sampleRows()
	for i := 0; i < 60; i++ {
		rows = append(rows, ReceiptRow{ID: "x", Merchant: "TOKO SERBA ADA SEJAHTERA ABADI JAYA MAKMUR", TotalAmount: 10000, Source: "scan", CreatedAt: exportNow})
	}

	var buf bytes.Buffer
	err := NewService().ExportToWriter(ReceiptReport("Receipts", rows, exportNow), FormatPDF, &buf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestExportRejectsMissingColumns(t *testing.T) {
	svc := NewService()

	_, err := svc.Export(&ExportData{Title: "empty"}, FormatPDF)
	assert.Error(t, err)
	_, err = svc.Export(&ExportData{Title: "empty"}, FormatExcel)
	assert.Error(t, err)
	_, err = svc.Export(ReceiptReport("x", nil, exportNow), ExportFormat("csv"))
	assert.Error(t, err)
}

func TestHexToRGB(t *testing.T) {
	r, g, b := hexToRGB("#4472C4")
	assert.Equal(t, []int{0x44, 0x72, 0xC4}, []int{r, g, b})

	r, g, b = hexToRGB("nope")
	assert.Equal(t, []int{255, 255, 255}, []int{r, g, b})
}
