// Package forecast models the precomputed daily rainfall forecast table and
// the views derived from a date-range selection of it.
//
// # Data Shape
//
// Each row carries one calendar day, two forecast amounts in millimetres and a
// rain-intensity label:
//
//	Date        calendar day, stored as UTC midnight
//	MethodA     ARIMA forecast (mm), non-negative
//	MethodB     LSTM forecast (mm), non-negative
//	Category    "No Rain" | "Drizzle" | "Moderate" | "Heavy"
//
// The forecasting models themselves live upstream; both numeric columns are
// opaque inputs here.
//
// # Views
//
// A selection is produced by [Filter] (inclusive bounds, order preserving,
// inverted bounds yield an empty slice). All views are pure functions of a
// selection:
//
//   - [ToLineSeries]: parallel date/value sequences for the dual-line chart.
//   - [ToHistogram]: group-count per category. Categories absent from the
//     selection are omitted. Known categories come first in canonical order
//     (No Rain, Drizzle, Moderate, Heavy), then unknown labels in first-seen
//     order.
//   - [ToTableRows]: ISO dates and amounts rounded to 2 decimal places, half
//     away from zero on the decimal representation (2.675 becomes 2.68).
//   - [Summarize]: totals, means and maxima per method.
package forecast
