package dataset

import (
	"encoding/csv"
	"errors"
	"io"
	"os"

	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/forecast"
)

// loadCSV reads a comma-delimited UTF-8 file with a header row.
func loadCSV(path string) ([]forecast.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, &LoadError{Path: path, Err: ErrEmptyDataset}
	}
	if err != nil {
		return nil, &LoadError{Path: path, Line: 1, Err: err}
	}
	idx, err := indexHeader(path, header)
	if err != nil {
		return nil, err
	}

	var rows []forecast.Row
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &LoadError{Path: path, Line: pe.Line, Err: pe.Err}
			}
			return nil, &LoadError{Path: path, Err: err}
		}
		line, _ := r.FieldPos(0)
		if isBlank(rec) {
			continue
		}
		row, err := parseRecord(path, line, idx, rec, parseDate)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if v != "" {
			return false
		}
	}
	return true
}
