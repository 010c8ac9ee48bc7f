// Package render draws the dashboard charts as SVG.
package render

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/forecast"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Chart titles and axis labels.
const (
	LineTitle      = "Rainfall Forecast (ARIMA vs LSTM)"
	CategoryTitle  = "Rain Category Distribution"
	MethodAName    = "ARIMA Forecast"
	MethodBName    = "LSTM Forecast"
	dateAxisName   = "Date"
	amountAxisName = "Rainfall (mm)"
	countAxisName  = "Number of Days"
)

const (
	chartWidth  = 1100
	chartHeight = 420
	barWidth    = 80
)

var chartPadding = chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}

// Charts holds both rendered charts ready for inline embedding.
type Charts struct {
	Line       template.HTML `json:"line_svg"`
	Categories template.HTML `json:"categories_svg"`
}

// RenderCharts draws the line chart for ls over r and the bar chart for hist.
func RenderCharts(ls forecast.LineSeries, r forecast.DateRange, hist []forecast.CategoryCount) (Charts, error) {
	var line, bars bytes.Buffer
	if err := LineChart(&line, ls, r); err != nil {
		return Charts{}, err
	}
	if err := CategoryChart(&bars, hist); err != nil {
		return Charts{}, err
	}
	// go-chart writes text verbatim; every label it draws is escaped on the way in.
	return Charts{Line: template.HTML(line.String()), Categories: template.HTML(bars.String())}, nil
}

// LineChart writes the dual-line forecast chart. An empty series renders the
// axes for r with no lines.
func LineChart(w io.Writer, ls forecast.LineSeries, r forecast.DateRange) error {
	xr := timeAxisRange(ls.Dates, r)
	ch := chart.Chart{
		Title:      html.EscapeString(LineTitle),
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chartPadding},
		XAxis: chart.XAxis{
			Name:           dateAxisName,
			Range:          xr,
			ValueFormatter: dateFormatter,
		},
		YAxis: chart.YAxis{
			Name:  amountAxisName,
			Range: &chart.ContinuousRange{Min: 0, Max: niceMax(ls.SeriesA, ls.SeriesB)},
		},
	}

	if ls.Len() == 0 {
		ch.Series = []chart.Series{placeholderSeries(xr)}
	} else {
		ch.Series = []chart.Series{
			chart.TimeSeries{
				Name:    html.EscapeString(MethodAName),
				XValues: ls.Dates,
				YValues: ls.SeriesA,
				Style:   chart.Style{StrokeColor: chartColor(MethodAColor), StrokeWidth: 2},
			},
			chart.TimeSeries{
				Name:    html.EscapeString(MethodBName),
				XValues: ls.Dates,
				YValues: ls.SeriesB,
				Style:   chart.Style{StrokeColor: chartColor(MethodBColor), StrokeWidth: 2},
			},
		}
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	if err := ch.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render line chart: %w", err)
	}
	return nil
}

// CategoryChart writes one colored bar per histogram entry. An empty
// histogram renders the axes only.
func CategoryChart(w io.Writer, hist []forecast.CategoryCount) error {
	maxCount := 0
	bars := make([]chart.Value, 0, len(hist))
	for _, cc := range hist {
		maxCount = max(maxCount, cc.Count)
		color := chartColor(CategoryColor(cc.Category))
		bars = append(bars, chart.Value{
			Label: html.EscapeString(string(cc.Category)),
			Value: float64(cc.Count),
			Style: chart.Style{FillColor: color, StrokeColor: color},
		})
	}
	if len(bars) == 0 {
		bars = append(bars, chart.Value{
			Label: " ",
			Value: 0,
			Style: chart.Style{FillColor: drawing.ColorTransparent, StrokeColor: drawing.ColorTransparent},
		})
	}

	top := countAxisMax(maxCount)
	bc := chart.BarChart{
		Title:      html.EscapeString(CategoryTitle),
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   barWidth,
		Background: chart.Style{Padding: chartPadding},
		YAxis: chart.YAxis{
			Name:  countAxisName,
			Range: &chart.ContinuousRange{Min: 0, Max: float64(top)},
			Ticks: countTicks(top),
		},
		Bars: bars,
	}
	if err := bc.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render category chart: %w", err)
	}
	return nil
}

// timeAxisRange spans the data, or r when there is none, padded by a day on
// each side when the span would be zero.
func timeAxisRange(dates []time.Time, r forecast.DateRange) *chart.ContinuousRange {
	lo, hi := r.Start, r.End
	if len(dates) > 0 {
		lo, hi = dates[0], dates[len(dates)-1]
	}
	if hi.Before(lo) {
		lo, hi = hi, lo
	}
	if !hi.After(lo) {
		lo, hi = lo.AddDate(0, 0, -1), hi.AddDate(0, 0, 1)
	}
	return &chart.ContinuousRange{Min: chart.TimeToFloat64(lo), Max: chart.TimeToFloat64(hi)}
}

// placeholderSeries is an invisible line along the x axis so go-chart has a
// series to lay out.
func placeholderSeries(xr *chart.ContinuousRange) chart.Series {
	return chart.TimeSeries{
		XValues: []time.Time{chart.TimeFromFloat64(xr.Min), chart.TimeFromFloat64(xr.Max)},
		YValues: []float64{0, 0},
		Style:   chart.Style{StrokeColor: drawing.ColorTransparent, StrokeWidth: 1},
	}
}

func dateFormatter(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(forecast.DateLayout)
	case float64:
		return chart.TimeFromFloat64(t).UTC().Format(forecast.DateLayout)
	default:
		return fmt.Sprint(v)
	}
}

// niceMax leaves 10% headroom above the largest value and never returns 0.
func niceMax(series ...[]float64) float64 {
	m := 0.0
	for _, v := range series {
		for _, x := range v {
			m = math.Max(m, x)
		}
	}
	if m <= 0 {
		return 1
	}
	return math.Ceil(m + m/10)
}

func countAxisMax(n int) int {
	if n < 1 {
		return 1
	}
	return n + max(1, n/10)
}

// countTicks labels the count axis with whole numbers only.
func countTicks(top int) []chart.Tick {
	step := max(1, top/5)
	ticks := make([]chart.Tick, 0, top/step+2)
	for v := 0; v <= top; v += step {
		ticks = append(ticks, chart.Tick{Value: float64(v), Label: strconv.Itoa(v)})
	}
	if last := ticks[len(ticks)-1]; int(last.Value) != top {
		ticks = append(ticks, chart.Tick{Value: float64(top), Label: strconv.Itoa(top)})
	}
	return ticks
}
