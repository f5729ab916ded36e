package provider

import "time"

// RawBar is one OHLCV row as returned by a data source, before normalization.
// Volume stays float64 here because several sources report it that way.
type RawBar struct {
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   float64
}

// Fetcher defines the interface for fetching daily price history.
//
// An empty result is not an error: sources legitimately return nothing for an
// unknown symbol or a range with no trading activity. Implementations must
// return (nil, nil) in that case rather than failing.
type Fetcher interface {
	FetchDailyBars(symbol string, start, end time.Time) ([]RawBar, error)
	Name() string
}
