package forecast

import "time"

// Filter returns the rows of t dated within [start, end], in table order.
// An inverted range yields an empty slice.
func Filter(t Table, start, end time.Time) []Row {
	r := DateRange{Start: start, End: end}
	out := make([]Row, 0)
	if r.Inverted() {
		return out
	}
	for _, row := range t.rows {
		if r.Contains(row.Date) {
			out = append(out, row)
		}
	}
	return out
}
