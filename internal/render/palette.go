package render

import (
	"strings"

	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/forecast"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// CategoryColors is the fixed legend for rain categories.
var CategoryColors = map[forecast.Category]string{
	forecast.NoRain:   "#3498DB", // blue
	forecast.Drizzle:  "#1ABC9C", // teal
	forecast.Moderate: "#F1C40F", // yellow
	forecast.Heavy:    "#E74C3C", // red
}

// FallbackColor is used for any category outside CategoryColors.
const FallbackColor = "#95A5A6"

// Series colors for the two forecast methods.
const (
	MethodAColor = "#E74C3C"
	MethodBColor = "#27AE60"
)

// CategoryColor returns the CSS hex color for c, or FallbackColor.
func CategoryColor(c forecast.Category) string {
	if hex, ok := CategoryColors[c]; ok {
		return hex
	}
	return FallbackColor
}

func chartColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
