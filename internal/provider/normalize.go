package provider

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"PriceWarehouse/internal/model"
)

// ErrMalformedResponse is returned when a provider response cannot be shaped
// into the canonical bar schema.
var ErrMalformedResponse = errors.New("malformed provider response")

// Normalize validates raw provider bars and converts them into canonical
// PriceBars, sorted ascending by date. The ticker identity is left zero; the
// ingestion pipeline fills it in after resolving the symbol.
//
// Rather than silently proceeding with broken rows, any shape violation
// (missing date, non-finite price, negative volume, duplicate date) fails the
// whole batch with ErrMalformedResponse.
func Normalize(raw []RawBar) ([]model.PriceBar, error) {
	bars := make([]model.PriceBar, 0, len(raw))
	seen := make(map[string]bool, len(raw))

	for i, rb := range raw {
		if rb.Date.IsZero() {
			return nil, fmt.Errorf("%w: row %d has no date", ErrMalformedResponse, i)
		}
		for _, p := range []float64{rb.Open, rb.High, rb.Low, rb.Close, rb.AdjClose} {
			if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
				return nil, fmt.Errorf("%w: row %d has invalid price", ErrMalformedResponse, i)
			}
		}
		if rb.Volume < 0 || math.IsNaN(rb.Volume) || math.IsInf(rb.Volume, 0) {
			return nil, fmt.Errorf("%w: row %d has invalid volume", ErrMalformedResponse, i)
		}

		day := model.Day(rb.Date)
		key := day.Format(model.DateFormat)
		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate date %s", ErrMalformedResponse, key)
		}
		seen[key] = true

		adj := rb.AdjClose
		if adj == 0 {
			adj = rb.Close
		}
		bars = append(bars, model.PriceBar{
			Date:     day,
			Open:     rb.Open,
			High:     rb.High,
			Low:      rb.Low,
			Close:    rb.Close,
			AdjClose: adj,
			Volume:   int64(rb.Volume),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}
