package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/forecast"
)

// Required column headers.
const (
	ColDate     = "Date"
	ColMethodA  = "ARIMA_Forecast_mm"
	ColMethodB  = "LSTM_Forecast_mm"
	ColCategory = "Rain_Category"
)

var requiredColumns = []string{ColDate, ColMethodA, ColMethodB, ColCategory}

var (
	errMissingColumn = errors.New("required column missing")
	errBadDate       = errors.New("unparsable date")
	errBadNumber     = errors.New("unparsable number")
	errNegative      = errors.New("negative forecast amount")
	errShortRow      = errors.New("row has fewer fields than header")
	errNoCategory    = errors.New("empty category")
)

// dateLayouts are tried in order; any time-of-day part is dropped.
var dateLayouts = []string{
	forecast.DateLayout,
	"2006/01/02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// columnIndex maps each required column to its position in the header.
type columnIndex map[string]int

// indexHeader locates the required columns by trimmed name and reports the
// first one missing.
func indexHeader(path string, header []string) (columnIndex, error) {
	idx := make(columnIndex, len(requiredColumns))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, seen := idx[h]; !seen {
			idx[h] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, &LoadError{Path: path, Column: col, Err: errMissingColumn}
		}
	}
	return idx, nil
}

// dateParser converts a raw cell into a calendar day. The xlsx loader adds an
// Excel serial-number fallback.
type dateParser func(raw string) (time.Time, error)

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return forecast.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", errBadDate, raw)
}

func parseAmount(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", errBadNumber, raw)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %q", errNegative, raw)
	}
	return v, nil
}

// parseRecord builds a row from one data record. line is used for error reporting.
func parseRecord(path string, line int, idx columnIndex, rec []string, dates dateParser) (forecast.Row, error) {
	cell := func(col string) (string, error) {
		i := idx[col]
		if i >= len(rec) {
			return "", &LoadError{Path: path, Column: col, Line: line, Err: errShortRow}
		}
		return rec[i], nil
	}

	var row forecast.Row

	raw, err := cell(ColDate)
	if err != nil {
		return row, err
	}
	if row.Date, err = dates(raw); err != nil {
		return row, &LoadError{Path: path, Column: ColDate, Line: line, Err: err}
	}

	for _, f := range []struct {
		col string
		dst *float64
	}{
		{ColMethodA, &row.MethodA},
		{ColMethodB, &row.MethodB},
	} {
		raw, err := cell(f.col)
		if err != nil {
			return row, err
		}
		if *f.dst, err = parseAmount(raw); err != nil {
			return row, &LoadError{Path: path, Column: f.col, Line: line, Err: err}
		}
	}

	raw, err = cell(ColCategory)
	if err != nil {
		return row, err
	}
	if row.Category = forecast.ParseCategory(raw); row.Category == "" {
		return row, &LoadError{Path: path, Column: ColCategory, Line: line, Err: errNoCategory}
	}
	return row, nil
}
