package provider

import (
	"time"

	"PriceWarehouse/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars []RawBar
	Err  error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ string, _, _ time.Time) ([]RawBar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Bars, nil
}

// GenerateBars builds a synthetic daily series of count bars ending yesterday,
// drifting around basePrice. Useful for fixtures.
func GenerateBars(basePrice float64, count int) []RawBar {
	bars := make([]RawBar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = RawBar{
			Date:     model.Day(time.Now().UTC().AddDate(0, 0, -(count - i))),
			Open:     p * 0.999,
			High:     p * 1.005,
			Low:      p * 0.995,
			Close:    p,
			AdjClose: p,
			Volume:   1000000,
		}
	}
	return bars
}
