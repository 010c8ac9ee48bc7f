package render

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/forecast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	chart "github.com/wcharczuk/go-chart/v2"
)

func day(s string) time.Time {
	d, err := forecast.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

var scenarioRange = forecast.DateRange{Start: day("2024-01-01"), End: day("2024-01-03")}

func scenarioRows() []forecast.Row {
	return []forecast.Row{
		{Date: day("2024-01-01"), MethodA: 5.0, MethodB: 4.5, Category: forecast.Drizzle},
		{Date: day("2024-01-02"), MethodA: 0.0, MethodB: 0.0, Category: forecast.NoRain},
		{Date: day("2024-01-03"), MethodA: 20.0, MethodB: 18.0, Category: forecast.Heavy},
	}
}

func TestLineChart(t *testing.T) {
	var buf bytes.Buffer
	err := LineChart(&buf, forecast.ToLineSeries(scenarioRows()), scenarioRange)
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "<svg"))
	assert.Contains(t, out, "ARIMA vs LSTM")
	assert.Contains(t, out, MethodAName)
	assert.Contains(t, out, MethodBName)
}

func TestLineChart_SinglePoint(t *testing.T) {
	var buf bytes.Buffer
	rows := scenarioRows()[:1]
	err := LineChart(&buf, forecast.ToLineSeries(rows), forecast.DateRange{Start: rows[0].Date, End: rows[0].Date})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<svg")
}

func TestLineChart_EmptyRendersAxes(t *testing.T) {
	var buf bytes.Buffer
	err := LineChart(&buf, forecast.ToLineSeries(nil), forecast.DateRange{Start: day("2024-06-01"), End: day("2024-06-02")})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.NotContains(t, out, MethodAName)
}

func TestCategoryChart(t *testing.T) {
	var buf bytes.Buffer
	err := CategoryChart(&buf, forecast.ToHistogram(scenarioRows()))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, CategoryTitle)
	assert.Contains(t, out, "Drizzle")
	assert.Contains(t, out, "Heavy")
}

func TestCategoryChart_EmptyRendersAxes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CategoryChart(&buf, nil))
	assert.Contains(t, buf.String(), "<svg")
}

func TestRenderCharts(t *testing.T) {
	rows := scenarioRows()
	charts, err := RenderCharts(forecast.ToLineSeries(rows), scenarioRange, forecast.ToHistogram(rows))
	require.NoError(t, err)

	assert.Contains(t, string(charts.Line), "<svg")
	assert.Contains(t, string(charts.Categories), "<svg")
}

func TestCategoryColor(t *testing.T) {
	assert.Equal(t, "#3498DB", CategoryColor(forecast.NoRain))
	assert.Equal(t, "#1ABC9C", CategoryColor(forecast.Drizzle))
	assert.Equal(t, "#F1C40F", CategoryColor(forecast.Moderate))
	assert.Equal(t, "#E74C3C", CategoryColor(forecast.Heavy))
	assert.Equal(t, FallbackColor, CategoryColor("Torrential"))
}

func TestTimeAxisRange(t *testing.T) {
	t.Run("uses data span", func(t *testing.T) {
		xr := timeAxisRange([]time.Time{day("2024-01-02"), day("2024-01-05")}, scenarioRange)
		assert.Equal(t, day("2024-01-02"), chart.TimeFromFloat64(xr.Min).UTC())
		assert.Equal(t, day("2024-01-05"), chart.TimeFromFloat64(xr.Max).UTC())
	})

	t.Run("pads zero span", func(t *testing.T) {
		xr := timeAxisRange([]time.Time{day("2024-01-02")}, scenarioRange)
		assert.Equal(t, day("2024-01-01"), chart.TimeFromFloat64(xr.Min).UTC())
		assert.Equal(t, day("2024-01-03"), chart.TimeFromFloat64(xr.Max).UTC())
	})

	t.Run("falls back to range", func(t *testing.T) {
		xr := timeAxisRange(nil, scenarioRange)
		assert.Equal(t, day("2024-01-01"), chart.TimeFromFloat64(xr.Min).UTC())
		assert.Equal(t, day("2024-01-03"), chart.TimeFromFloat64(xr.Max).UTC())
	})
}

func TestCountTicks(t *testing.T) {
	ticks := countTicks(3)
	labels := make([]string, 0, len(ticks))
	for _, tk := range ticks {
		labels = append(labels, tk.Label)
	}
	assert.Equal(t, []string{"0", "1", "2", "3"}, labels)

	ticks = countTicks(12)
	assert.Equal(t, "0", ticks[0].Label)
	assert.Equal(t, "12", ticks[len(ticks)-1].Label)
}

func TestNiceMax(t *testing.T) {
	assert.Equal(t, 1.0, niceMax(nil, nil))
	assert.Equal(t, 22.0, niceMax([]float64{5, 20}, []float64{18}))
}

func TestDateFormatter(t *testing.T) {
	assert.Equal(t, "2024-01-02", dateFormatter(day("2024-01-02")))
}

func requireWellFormedXML(t *testing.T, doc string) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(doc))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return
		}
		require.NoError(t, err)
	}
}

func TestCategoryChart_EscapesLabels(t *testing.T) {
	hist := []forecast.CategoryCount{
		{Category: "Rain & Wind", Count: 2},
		{Category: "<b>x</b>", Count: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, CategoryChart(&buf, hist))

	svg := buf.String()
	requireWellFormedXML(t, svg)
	assert.NotContains(t, svg, "<b>")
	assert.Contains(t, svg, "Rain &amp; Wind")
	assert.Contains(t, svg, "&lt;b&gt;x&lt;/b&gt;")
}

func TestRenderCharts_ScriptLabelIsInert(t *testing.T) {
	hist := []forecast.CategoryCount{{Category: "<script>alert(1)</script>", Count: 1}}

	charts, err := RenderCharts(forecast.LineSeries{}, scenarioRange, hist)
	require.NoError(t, err)

	assert.NotContains(t, string(charts.Categories), "<script>")
	requireWellFormedXML(t, string(charts.Categories))
	requireWellFormedXML(t, string(charts.Line))
}
