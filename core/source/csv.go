package source

import (
	"encoding/csv"
	"fmt"
	"io"
)

// parseCSV reads a comma-separated spreadsheet. The first record is the
// header row; rows may be ragged.
func parseCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns := columnIndex(header)

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, rowFromCells(columns, record))
	}

	return rows, nil
}
