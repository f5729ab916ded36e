package model

import (
	"math"
	"time"
)

// DerivedMetricRow holds the per-day return statistics computed from a
// ticker's stored price series. It is produced fresh on every computation
// and never persisted.
//
// Undefined values (first row's return, rows without a full rolling window,
// a return over a zero close) are encoded as NaN so the series keeps its
// length and date alignment.
type DerivedMetricRow struct {
	Date              time.Time
	Close             float64
	DailyReturn       float64
	RollingMeanReturn float64
	RollingVolatility float64
}

// Defined reports whether v carries a value, i.e. is not the NaN marker.
func Defined(v float64) bool { return !math.IsNaN(v) }

// Undefined is the marker for values that cannot be computed.
func Undefined() float64 { return math.NaN() }
