package source

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// parseXLSX reads the first sheet of an Excel workbook. The first row is the
// header row; excelize yields formatted cell values as strings.
func parseXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	columns := columnIndex(records[0])

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, rowFromCells(columns, record))
	}

	return rows, nil
}
