package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExcelOptions configures workbook generation.
type ExcelOptions struct {
	SheetName    string
	FreezeHeader bool
	AutoFilter   bool
}

func DefaultExcelOptions() ExcelOptions {
	return ExcelOptions{
		SheetName:    "Export",
		FreezeHeader: true,
		AutoFilter:   true,
	}
}

// WriteExcel renders a header row plus data rows into a single-sheet XLSX
// workbook and returns the serialized file.
func WriteExcel(headers []string, rows [][]interface{}, options ExcelOptions) (*bytes.Buffer, error) {
	file := excelize.NewFile()
	defer file.Close()

	sheet := options.SheetName
	if sheet == "" {
		sheet = "Export"
	}
	file.SetSheetName("Sheet1", sheet)

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
		file.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for rowIdx, row := range rows {
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	if options.FreezeHeader {
		file.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	}
	if options.AutoFilter && len(headers) > 0 {
		lastCell, _ := excelize.CoordinatesToCellName(len(headers), len(rows)+1)
		file.AutoFilter(sheet, fmt.Sprintf("A1:%s", lastCell), nil)
	}

	return file.WriteToBuffer()
}
