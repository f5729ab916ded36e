package model

import "time"

// DateFormat is how calendar dates are stored and exported.
const DateFormat = "2006-01-02"

// Ticker maps a symbol to its stable numeric identity.
type Ticker struct {
	ID     int64
	Symbol string
}

// PriceBar represents one day's OHLCV record for one ticker.
type PriceBar struct {
	TickerID int64
	Date     time.Time // midnight UTC, day granularity
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   int64
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
