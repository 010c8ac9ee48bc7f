// Command genmock writes a deterministic mock forecast dataset in the format
// the dashboard loads: one row per day with ARIMA and LSTM forecasts and a
// rain category label.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out rainfall_forecast_output.csv \
//	  -start 2024-01-01 -days 365 -seed 42
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/dataset"
	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/forecast"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "rainfall_forecast_output.csv", "output CSV path")
	startStr := flag.String("start", "2024-01-01", "first forecast day (YYYY-MM-DD)")
	days := flag.Int("days", 365, "number of consecutive days")
	seed := flag.Uint64("seed", 42, "random seed; equal seeds give identical files")
	flag.Parse()

	start, err := forecast.ParseDay(*startStr)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}
	if *days <= 0 {
		return fmt.Errorf("-days must be positive, got %d", *days)
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()

	rows := generate(start, *days, *seed)
	if err := writeCSV(f, rows); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	log.Printf("wrote %d rows to %s", len(rows), *out)
	return f.Close()
}

// generate produces a seasonal rainfall signal with two noisy forecasts of it.
// The category follows the mean of both forecasts.
func generate(start time.Time, days int, seed uint64) []forecast.Row {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	rows := make([]forecast.Row, 0, days)
	for i := range days {
		season := 6 + 5*math.Sin(2*math.Pi*float64(i)/365)
		wet := rng.Float64() < 0.55
		base := 0.0
		if wet {
			base = rng.ExpFloat64() * season
		}
		a := nonNegative(base + rng.NormFloat64()*1.5)
		b := nonNegative(base + rng.NormFloat64()*1.2)
		rows = append(rows, forecast.Row{
			Date:     start.AddDate(0, 0, i),
			MethodA:  a,
			MethodB:  b,
			Category: categorize((a + b) / 2),
		})
	}
	return rows
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return math.Round(v*1000) / 1000
}

func categorize(mm float64) forecast.Category {
	switch {
	case mm < 0.5:
		return forecast.NoRain
	case mm < 4:
		return forecast.Drizzle
	case mm < 12:
		return forecast.Moderate
	default:
		return forecast.Heavy
	}
}

func writeCSV(w io.Writer, rows []forecast.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{dataset.ColDate, dataset.ColMethodA, dataset.ColMethodB, dataset.ColCategory}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Date.Format(forecast.DateLayout),
			strconv.FormatFloat(r.MethodA, 'f', -1, 64),
			strconv.FormatFloat(r.MethodB, 'f', -1, 64),
			string(r.Category),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
