package forecast

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MethodStats aggregates one forecast column over a selection.
type MethodStats struct {
	Total float64 `json:"total_mm"`
	Mean  float64 `json:"mean_mm"`
	Max   float64 `json:"max_mm"`
}

// Summary aggregates a selection for the headline strip.
type Summary struct {
	Days        int         `json:"days"`
	MethodA     MethodStats `json:"method_a"`
	MethodB     MethodStats `json:"method_b"`
	MeanAbsDiff float64     `json:"mean_abs_diff_mm"`
}

// Summarize computes per-method totals, means and maxima, plus the mean
// absolute gap between the two methods. All figures are zero for an empty
// selection.
func Summarize(rows []Row) Summary {
	if len(rows) == 0 {
		return Summary{}
	}
	ls := ToLineSeries(rows)

	diff := make([]float64, len(rows))
	floats.SubTo(diff, ls.SeriesA, ls.SeriesB)
	for i, d := range diff {
		diff[i] = math.Abs(d)
	}

	return Summary{
		Days:        len(rows),
		MethodA:     methodStats(ls.SeriesA),
		MethodB:     methodStats(ls.SeriesB),
		MeanAbsDiff: round2(stat.Mean(diff, nil)),
	}
}

func methodStats(v []float64) MethodStats {
	return MethodStats{
		Total: round2(floats.Sum(v)),
		Mean:  round2(stat.Mean(v, nil)),
		Max:   round2(floats.Max(v)),
	}
}
