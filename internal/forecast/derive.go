package forecast

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineSeries holds parallel sequences for the dual-line chart.
type LineSeries struct {
	Dates   []time.Time `json:"dates"`
	SeriesA []float64   `json:"series_a"`
	SeriesB []float64   `json:"series_b"`
}

// Len returns the number of points.
func (l LineSeries) Len() int { return len(l.Dates) }

// ToLineSeries emits one point per row, in slice order.
func ToLineSeries(rows []Row) LineSeries {
	ls := LineSeries{
		Dates:   make([]time.Time, 0, len(rows)),
		SeriesA: make([]float64, 0, len(rows)),
		SeriesB: make([]float64, 0, len(rows)),
	}
	for _, r := range rows {
		ls.Dates = append(ls.Dates, r.Date)
		ls.SeriesA = append(ls.SeriesA, r.MethodA)
		ls.SeriesB = append(ls.SeriesB, r.MethodB)
	}
	return ls
}

// CategoryCount is one bar of the category histogram.
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}

// ToHistogram counts rows per category. Zero counts are omitted; known
// categories come first in canonical order, unknown ones follow in
// first-seen order.
func ToHistogram(rows []Row) []CategoryCount {
	counts := make(map[Category]int)
	var unknown []Category
	for _, r := range rows {
		if counts[r.Category] == 0 && !r.Category.Known() {
			unknown = append(unknown, r.Category)
		}
		counts[r.Category]++
	}

	out := make([]CategoryCount, 0, len(counts))
	for _, c := range Categories {
		if n := counts[c]; n > 0 {
			out = append(out, CategoryCount{Category: c, Count: n})
		}
	}
	for _, c := range unknown {
		out = append(out, CategoryCount{Category: c, Count: counts[c]})
	}
	return out
}

// TableRow is the display form of a row.
type TableRow struct {
	Date     string   `json:"date"`
	MethodA  float64  `json:"method_a_mm"`
	MethodB  float64  `json:"method_b_mm"`
	Category Category `json:"category"`
}

// ToTableRows formats dates as YYYY-MM-DD and rounds both amounts to 2 places.
func ToTableRows(rows []Row) []TableRow {
	out := make([]TableRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, TableRow{
			Date:     r.Date.Format(DateLayout),
			MethodA:  round2(r.MethodA),
			MethodB:  round2(r.MethodB),
			Category: r.Category,
		})
	}
	return out
}

// round2 rounds half away from zero on the shortest decimal form of v.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
