package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	excelColumnUnit = 12.0
	rupiahNumFmt    = `"Rp" #,##0`
)

// ExcelExporter implements Excel export using excelize
type ExcelExporter struct {
	sheetName string
}

// NewExcelExporter creates a new Excel exporter
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{
		sheetName: "Receipts",
	}
}

// Export exports data to Excel format
func (e *ExcelExporter) Export(data *ExportData, writer io.Writer) error {
	if len(data.Columns) == 0 {
		return fmt.Errorf("no columns provided")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", e.sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	styles, err := e.createStyles(f, data.Style)
	if err != nil {
		return err
	}

	rowIndex := 1
	if data.Title != "" {
		if err := e.setCell(f, 1, rowIndex, data.Title, styles.title); err != nil {
			return err
		}
		rowIndex++
		if data.Description != "" {
			if err := e.setCell(f, 1, rowIndex, data.Description, 0); err != nil {
				return err
			}
			rowIndex++
		}
		rowIndex++
	}

	headerRow := rowIndex
	for colIndex, col := range data.Columns {
		if err := e.setCell(f, colIndex+1, headerRow, col.Header, styles.header); err != nil {
			return err
		}

		weight := col.Weight
		if weight <= 0 {
			weight = 1
		}
		colName, err := excelize.ColumnNumberToName(colIndex + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(e.sheetName, colName, colName, weight*excelColumnUnit); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}
	rowIndex++

	firstDataRow := rowIndex
	for rowIdx, row := range data.Rows {
		for colIndex, value := range row {
			style := styles.rows[rowIdx%2]
			if colIndex < len(data.Columns) && data.Columns[colIndex].Amount {
				style = styles.amounts[rowIdx%2]
			}
			if err := e.setCell(f, colIndex+1, rowIndex, value, style); err != nil {
				return err
			}
		}
		rowIndex++
	}
	lastDataRow := rowIndex - 1

	if data.SummaryLabel != "" {
		if err := e.writeSummary(f, data, styles, rowIndex, firstDataRow, lastDataRow); err != nil {
			return err
		}
	}

	if data.Style.FreezeHeader {
		if err := f.SetPanes(e.sheetName, &excelize.Panes{
			Freeze:      true,
			YSplit:      headerRow,
			TopLeftCell: fmt.Sprintf("A%d", headerRow+1),
			ActivePane:  "bottomLeft",
		}); err != nil {
			return fmt.Errorf("failed to freeze header: %w", err)
		}
	}

	if data.Style.AutoFilter && len(data.Rows) > 0 {
		lastCell, _ := excelize.CoordinatesToCellName(len(data.Columns), lastDataRow)
		if err := f.AutoFilter(e.sheetName, fmt.Sprintf("A%d:%s", headerRow, lastCell), nil); err != nil {
			return fmt.Errorf("failed to add auto filter: %w", err)
		}
	}

	if err := f.Write(writer); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}

	return nil
}

// writeSummary adds the grand total row. Amount columns get a live SUM formula.
func (e *ExcelExporter) writeSummary(f *excelize.File, data *ExportData, styles excelStyles, row, first, last int) error {
	if err := e.setCell(f, 1, row, data.SummaryLabel, styles.header); err != nil {
		return err
	}
	for colIndex, col := range data.Columns {
		if !col.Amount {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(colIndex+1, row)
		if len(data.Rows) == 0 {
			if err := f.SetCellValue(e.sheetName, cell, 0); err != nil {
				return err
			}
		} else {
			from, _ := excelize.CoordinatesToCellName(colIndex+1, first)
			to, _ := excelize.CoordinatesToCellName(colIndex+1, last)
			if err := f.SetCellFormula(e.sheetName, cell, fmt.Sprintf("SUM(%s:%s)", from, to)); err != nil {
				return fmt.Errorf("failed to set total formula: %w", err)
			}
		}
		if err := f.SetCellStyle(e.sheetName, cell, cell, styles.summaryAmount); err != nil {
			return err
		}
	}
	return nil
}

func (e *ExcelExporter) setCell(f *excelize.File, col, row int, value any, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(e.sheetName, cell, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", cell, err)
	}
	if style == 0 {
		return nil
	}
	return f.SetCellStyle(e.sheetName, cell, cell, style)
}

// GetContentType returns the MIME type for Excel files
func (e *ExcelExporter) GetContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// GetFileExtension returns the file extension for Excel files
func (e *ExcelExporter) GetFileExtension() string {
	return ".xlsx"
}

type excelStyles struct {
	title         int
	header        int
	rows          [2]int
	amounts       [2]int
	summaryAmount int
}

func (e *ExcelExporter) createStyles(f *excelize.File, style ExportStyle) (excelStyles, error) {
	var out excelStyles
	numFmt := rupiahNumFmt

	specs := []struct {
		target *int
		style  *excelize.Style
	}{
		{&out.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}},
		{&out.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: style.FontSize, Color: "FFFFFF"},
			Fill:      solidFill(style.HeaderBgColor),
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		}},
		{&out.rows[0], &excelize.Style{Font: &excelize.Font{Size: style.FontSize}, Fill: solidFill(style.RowBgColor1)}},
		{&out.rows[1], &excelize.Style{Font: &excelize.Font{Size: style.FontSize}, Fill: solidFill(style.RowBgColor2)}},
		{&out.amounts[0], &excelize.Style{Font: &excelize.Font{Size: style.FontSize}, Fill: solidFill(style.RowBgColor1), CustomNumFmt: &numFmt}},
		{&out.amounts[1], &excelize.Style{Font: &excelize.Font{Size: style.FontSize}, Fill: solidFill(style.RowBgColor2), CustomNumFmt: &numFmt}},
		{&out.summaryAmount, &excelize.Style{Font: &excelize.Font{Bold: true, Size: style.FontSize}, CustomNumFmt: &numFmt}},
	}

	for _, spec := range specs {
		id, err := f.NewStyle(spec.style)
		if err != nil {
			return out, fmt.Errorf("failed to create style: %w", err)
		}
		*spec.target = id
	}
	return out, nil
}

// solidFill returns a pattern fill, or no fill for white and empty colours
func solidFill(color string) excelize.Fill {
	color = stripHashFromColor(color)
	if color == "" || color == "FFFFFF" {
		return excelize.Fill{}
	}
	return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
}

// stripHashFromColor removes # from hex color codes
func stripHashFromColor(color string) string {
	if len(color) > 0 && color[0] == '#' {
		return color[1:]
	}
	return color
}
