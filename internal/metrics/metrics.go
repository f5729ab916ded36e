package metrics

import (
	"math"
	"sort"

	"PriceWarehouse/internal/model"
)

// DefaultWindow is the rolling window used when none is configured
// (about one trading month).
const DefaultWindow = 20

// Compute derives the return statistics for one ticker's price series.
//
// The input is sorted ascending by date before computing, so output order is
// deterministic regardless of caller ordering. For each row:
//
//	daily return    = (close[i] - close[i-1]) / close[i-1]
//	rolling mean    = arithmetic mean of the trailing `window` returns
//	rolling vol     = sample standard deviation (n-1) of the same span
//
// A value that cannot be computed (first row's return, a return over a zero
// close, a window containing any undefined return) is NaN in the output, never
// a silent zero and never a fault. Compute is pure: it reads nothing but its
// arguments and never touches the store.
func Compute(bars []model.PriceBar, window int) []model.DerivedMetricRow {
	if window < 1 {
		return nil
	}
	if len(bars) == 0 {
		return nil
	}

	sorted := make([]model.PriceBar, len(bars))
	copy(sorted, bars)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	rows := make([]model.DerivedMetricRow, len(sorted))
	returns := make([]float64, len(sorted))

	for i, b := range sorted {
		ret := model.Undefined()
		if i > 0 {
			prev := sorted[i-1].Close
			if prev != 0 {
				ret = (b.Close - prev) / prev
			}
		}
		returns[i] = ret

		rows[i] = model.DerivedMetricRow{
			Date:              b.Date,
			Close:             b.Close,
			DailyReturn:       ret,
			RollingMeanReturn: model.Undefined(),
			RollingVolatility: model.Undefined(),
		}
	}

	for i := window; i < len(rows); i++ {
		span := returns[i-window+1 : i+1]
		if !allDefined(span) {
			continue
		}
		rows[i].RollingMeanReturn = mean(span)
		rows[i].RollingVolatility = sampleStdDev(span)
	}

	return rows
}

func allDefined(vals []float64) bool {
	for _, v := range vals {
		if !model.Defined(v) {
			return false
		}
	}
	return true
}

func mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// sampleStdDev computes the standard deviation with denominator n-1.
// A single-element span has no dispersion estimate and yields NaN.
func sampleStdDev(vals []float64) float64 {
	n := len(vals)
	if n < 2 {
		return model.Undefined()
	}
	m := mean(vals)
	var ss float64
	for _, v := range vals {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}
