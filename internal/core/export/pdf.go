package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfHeaderHeight = 7.0
	pdfRowHeight    = 6.0
)

// PDFExporter implements PDF export using gofpdf
type PDFExporter struct{}

// NewPDFExporter creates a new PDF exporter
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Export exports data to PDF format
func (p *PDFExporter) Export(data *ExportData, writer io.Writer) error {
	if len(data.Columns) == 0 {
		return fmt.Errorf("no columns provided")
	}

	orientation := "P"
	if data.Style.Orientation == "landscape" {
		orientation = "L"
	}
	pageSize := data.Style.PageSize
	if pageSize == "" {
		pageSize = "A4"
	}
	fontSize := data.Style.FontSize
	if fontSize <= 0 {
		fontSize = 9
	}

	pdf := gofpdf.New(orientation, "mm", pageSize, "")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 7)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 8, fmt.Sprintf("Halaman %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	if data.Title != "" {
		pdf.SetFont("Arial", "B", 16)
		pdf.Cell(0, 10, data.Title)
		pdf.Ln(12)
	}

	if data.Description != "" {
		pdf.SetFont("Arial", "", fontSize)
		pdf.MultiCell(0, 5, data.Description, "", "", false)
		pdf.Ln(2)
	}

	if !data.CreatedAt.IsZero() {
		pdf.SetFont("Arial", "I", 8)
		pdf.Cell(0, 5, fmt.Sprintf("Generated: %s", data.CreatedAt.Format("2006-01-02 15:04:05")))
		pdf.Ln(8)
	}

	widths := columnWidths(pdf, data.Columns)
	drawHeader := func() {
		pdf.SetFont("Arial", "B", fontSize)
		r, g, b := hexToRGB(data.Style.HeaderBgColor)
		pdf.SetFillColor(r, g, b)
		pdf.SetTextColor(255, 255, 255)
		for i, col := range data.Columns {
			pdf.CellFormat(widths[i], pdfHeaderHeight, col.Header, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Arial", "", fontSize)
	}
	drawHeader()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottomMargin := pdf.GetMargins()

	for rowIdx, row := range data.Rows {
		if pdf.GetY()+pdfRowHeight > pageHeight-bottomMargin-12 {
			pdf.AddPage()
			drawHeader()
		}

		color := data.Style.RowBgColor1
		if rowIdx%2 == 1 {
			color = data.Style.RowBgColor2
		}
		r, g, b := hexToRGB(color)
		pdf.SetFillColor(r, g, b)

		for colIdx, value := range row {
			if colIdx >= len(widths) {
				break
			}
			text, align := formatCell(value, data.Columns[colIdx])
			pdf.CellFormat(widths[colIdx], pdfRowHeight, fitText(pdf, text, widths[colIdx]), "1", 0, align, true, 0, "")
		}
		pdf.Ln(-1)
	}

	if data.SummaryLabel != "" {
		pdf.SetFont("Arial", "B", fontSize)
		for i, col := range data.Columns {
			text, align := "", "L"
			switch {
			case i == 0:
				text = data.SummaryLabel
			case col.Amount:
				text, align = FormatRupiah(data.SummaryTotal), "R"
			}
			pdf.CellFormat(widths[i], pdfHeaderHeight, text, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(writer); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	return nil
}

// GetContentType returns the MIME type for PDF files
func (p *PDFExporter) GetContentType() string {
	return "application/pdf"
}

// GetFileExtension returns the file extension for PDF files
func (p *PDFExporter) GetFileExtension() string {
	return ".pdf"
}

// columnWidths splits the usable page width by column weight
func columnWidths(pdf *gofpdf.Fpdf, columns []Column) []float64 {
	pageWidth, _ := pdf.GetPageSize()
	leftMargin, _, rightMargin, _ := pdf.GetMargins()
	usable := pageWidth - leftMargin - rightMargin

	total := 0.0
	for _, col := range columns {
		total += weightOf(col)
	}

	widths := make([]float64, len(columns))
	for i, col := range columns {
		widths[i] = usable * weightOf(col) / total
	}
	return widths
}

func weightOf(col Column) float64 {
	if col.Weight <= 0 {
		return 1
	}
	return col.Weight
}

func formatCell(value any, col Column) (string, string) {
	if col.Amount {
		if amount, ok := value.(float64); ok {
			return FormatRupiah(amount), "R"
		}
	}
	return fmt.Sprintf("%v", value), "L"
}

// fitText shortens text with an ellipsis until it fits the cell
func fitText(pdf *gofpdf.Fpdf, text string, width float64) string {
	const padding = 2
	if pdf.GetStringWidth(text) <= width-padding {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width-padding {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

// hexToRGB converts hex color to RGB values
func hexToRGB(hex string) (int, int, int) {
	hex = stripHashFromColor(hex)

	// Default to white if invalid
	if len(hex) != 6 {
		return 255, 255, 255
	}

	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return 255, 255, 255
	}
	return r, g, b
}
