// Command validate loads a forecast dataset the way the dashboard does and
// reports integrity checks the loader itself does not enforce: duplicate
// dates, rows out of date order, unknown rain categories, and missing days.
//
// Usage:
//
//	go run ./cmd/validate -data rainfall_forecast_output.csv [-strict]
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/dataset"
	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/forecast"
)

// maxListed caps the findings printed per check.
const maxListed = 20

// check tracks the findings of one validation check. Findings of a fatal
// check fail validation; the others only fail it in strict mode.
type check struct {
	name     string
	fatal    bool
	findings []string
}

func (c *check) addf(format string, args ...any) {
	c.findings = append(c.findings, fmt.Sprintf(format, args...))
}

func (c *check) passed() bool { return len(c.findings) == 0 }

func main() {
	data := flag.String("data", "rainfall_forecast_output.csv", "forecast dataset, .csv or .xlsx")
	strict := flag.Bool("strict", false, "treat warnings as failures")
	flag.Parse()

	os.Exit(run(os.Stdout, *data, *strict))
}

func run(w io.Writer, path string, strict bool) int {
	fmt.Fprintln(w, "=== Rainfall Forecast Dataset Validation ===")
	fmt.Fprintln(w)

	rows, err := dataset.ReadRows(path)
	if err != nil {
		fmt.Fprintf(w, "FATAL: %v\n", err)
		return 1
	}
	if len(rows) == 0 {
		fmt.Fprintf(w, "FATAL: %s: %v\n", path, dataset.ErrEmptyDataset)
		return 1
	}

	checks := []*check{
		checkDuplicates(rows),
		checkOrder(rows),
		checkCategories(rows),
		checkGaps(rows),
	}

	failed := false
	for _, c := range checks {
		status := "PASS"
		switch {
		case c.passed():
		case c.fatal || strict:
			status = fmt.Sprintf("FAIL (%d)", len(c.findings))
			failed = true
		default:
			status = fmt.Sprintf("WARN (%d)", len(c.findings))
		}
		fmt.Fprintf(w, "  %-28s %s\n", c.name, status)
	}

	table := forecast.NewTable(rows)
	first, last, _ := table.Bounds()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Rows: %d, span %s to %s\n", len(rows), first.Format(forecast.DateLayout), last.Format(forecast.DateLayout))

	for _, c := range checks {
		if c.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", c.name)
		for i, f := range c.findings {
			if i == maxListed {
				fmt.Fprintf(w, "  ... %d more\n", len(c.findings)-maxListed)
				break
			}
			fmt.Fprintf(w, "  [%d] %s\n", i+1, f)
		}
	}

	if failed {
		fmt.Fprintln(w, "\nValidation FAILED.")
		return 1
	}
	fmt.Fprintln(w, "\nAll validations passed.")
	return 0
}

func checkDuplicates(rows []forecast.Row) *check {
	c := &check{name: "Unique dates", fatal: true}
	seen := make(map[time.Time]int, len(rows))
	for i, r := range rows {
		if prev, ok := seen[r.Date]; ok {
			c.addf("%s appears on rows %d and %d", r.Date.Format(forecast.DateLayout), prev+1, i+1)
			continue
		}
		seen[r.Date] = i
	}
	return c
}

func checkOrder(rows []forecast.Row) *check {
	c := &check{name: "Date order"}
	for i := 1; i < len(rows); i++ {
		if rows[i].Date.Before(rows[i-1].Date) {
			c.addf("row %d (%s) comes after %s", i+1,
				rows[i].Date.Format(forecast.DateLayout), rows[i-1].Date.Format(forecast.DateLayout))
		}
	}
	return c
}

func checkCategories(rows []forecast.Row) *check {
	c := &check{name: "Known rain categories"}
	counts := make(map[forecast.Category]int)
	var order []forecast.Category
	for _, r := range rows {
		if r.Category.Known() {
			continue
		}
		if counts[r.Category] == 0 {
			order = append(order, r.Category)
		}
		counts[r.Category]++
	}
	for _, cat := range order {
		c.addf("%q on %d rows has no color", cat, counts[cat])
	}
	return c
}

func checkGaps(rows []forecast.Row) *check {
	c := &check{name: "Consecutive days"}
	sorted := forecast.NewTable(rows).Rows()
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1].Date, sorted[i].Date
		missing := int(cur.Sub(prev).Hours()/24) - 1
		if missing > 0 {
			c.addf("%d missing day(s) between %s and %s", missing,
				prev.Format(forecast.DateLayout), cur.Format(forecast.DateLayout))
		}
	}
	return c
}
