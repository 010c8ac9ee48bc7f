package forecast

import (
	"slices"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used for display and query parameters.
const DateLayout = "2006-01-02"

// Category is a rain-intensity label. Labels outside the four known values
// are carried through unchanged.
type Category string

const (
	NoRain   Category = "No Rain"
	Drizzle  Category = "Drizzle"
	Moderate Category = "Moderate"
	Heavy    Category = "Heavy"
)

// Categories lists the known labels in canonical display order.
var Categories = []Category{NoRain, Drizzle, Moderate, Heavy}

// ParseCategory trims the raw label and folds the "NoRain" spelling into NoRain.
func ParseCategory(raw string) Category {
	raw = strings.TrimSpace(raw)
	if raw == "NoRain" {
		return NoRain
	}
	return Category(raw)
}

// Known reports whether c is one of the four fixed labels.
func (c Category) Known() bool {
	return slices.Contains(Categories, c)
}

// Row is one day of forecast output.
type Row struct {
	Date     time.Time `json:"date"`
	MethodA  float64   `json:"method_a_mm"`
	MethodB  float64   `json:"method_b_mm"`
	Category Category  `json:"category"`
}

// Day truncates t to its calendar day at UTC midnight, keeping the wall-clock date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses an ISO calendar date.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// Table is an immutable, date-ordered sequence of rows.
type Table struct {
	rows []Row
}

// NewTable copies rows and stable-sorts the copy by date.
func NewTable(rows []Row) Table {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b Row) int {
		return a.Date.Compare(b.Date)
	})
	return Table{rows: sorted}
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.rows) }

// Rows returns a copy of the rows.
func (t Table) Rows() []Row { return slices.Clone(t.rows) }

// Bounds returns the first and last dates. ok is false for an empty table.
func (t Table) Bounds() (first, last time.Time, ok bool) {
	if len(t.rows) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return t.rows[0].Date, t.rows[len(t.rows)-1].Date, true
}

// DateRange is an inclusive pair of calendar days.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Inverted reports whether Start falls after End.
func (r DateRange) Inverted() bool { return r.Start.After(r.End) }

// Contains reports whether d lies within the inclusive range.
func (r DateRange) Contains(d time.Time) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Clamp pulls both ends into [lo, hi]. A range that is inverted or lies
// entirely outside [lo, hi] is returned unchanged so it still selects nothing.
func (r DateRange) Clamp(lo, hi time.Time) DateRange {
	if r.Inverted() || r.End.Before(lo) || r.Start.After(hi) {
		return r
	}
	return DateRange{Start: clampDay(r.Start, lo, hi), End: clampDay(r.End, lo, hi)}
}

func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}

func clampDay(d, lo, hi time.Time) time.Time {
	if d.Before(lo) {
		return lo
	}
	if d.After(hi) {
		return hi
	}
	return d
}
