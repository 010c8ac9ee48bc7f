package dataset

import (
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/forecast"
	"github.com/xuri/excelize/v2"
)

// loadXLSX reads the first sheet of a workbook. Cells are read raw so date
// cells arrive either as text or as Excel serial numbers.
func loadXLSX(path string) ([]forecast.Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &LoadError{Path: path, Err: ErrEmptyDataset}
	}
	records, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if len(records) == 0 {
		return nil, &LoadError{Path: path, Err: ErrEmptyDataset}
	}

	idx, err := indexHeader(path, records[0])
	if err != nil {
		return nil, err
	}

	rows := make([]forecast.Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		row, err := parseRecord(path, i+2, idx, rec, parseSheetDate)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseSheetDate(raw string) (time.Time, error) {
	if t, err := parseDate(raw); err == nil {
		return t, nil
	}
	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return parseDate(raw)
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, err
	}
	return forecast.Day(t), nil
}
