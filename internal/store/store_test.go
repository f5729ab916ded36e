package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PriceWarehouse/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "warehouse.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testBars(tickerID int64, closes ...float64) []model.PriceBar {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = model.PriceBar{
			TickerID: tickerID,
			Date:     base.AddDate(0, 0, i),
			Open:     c,
			High:     c + 1,
			Low:      c - 1,
			Close:    c,
			AdjClose: c,
			Volume:   1000,
		}
	}
	return bars
}

func TestRegister_DuplicatesIgnoredAndIdentitiesStable(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Register([]string{"AAPL", "MSFT"}))
	aapl, err := s.Resolve("AAPL")
	require.NoError(t, err)
	msft, err := s.Resolve("MSFT")
	require.NoError(t, err)
	assert.NotEqual(t, aapl, msft)

	// Re-registering must be a no-op and never reassign identities.
	require.NoError(t, s.Register([]string{"MSFT", "AAPL", "AMZN"}))
	aapl2, err := s.Resolve("AAPL")
	require.NoError(t, err)
	assert.Equal(t, aapl, aapl2)

	tickers, err := s.Tickers()
	require.NoError(t, err)
	require.Len(t, tickers, 3)
	// Insertion order of first-seen symbols.
	assert.Equal(t, "AAPL", tickers[0].Symbol)
	assert.Equal(t, "MSFT", tickers[1].Symbol)
	assert.Equal(t, "AMZN", tickers[2].Symbol)
}

func TestResolve_UnknownTicker(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Resolve("ZZZ")
	assert.ErrorIs(t, err, ErrUnknownTicker)
}

func TestReplaceDailyBars_Idempotent(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Register([]string{"AAPL"}))
	id, err := s.Resolve("AAPL")
	require.NoError(t, err)

	bars := testBars(id, 100, 101, 102)
	require.NoError(t, s.ReplaceDailyBars(id, bars))
	require.NoError(t, s.ReplaceDailyBars(id, bars))

	stored, err := s.BarsForTicker(id)
	require.NoError(t, err)
	require.Len(t, stored, 3)

	// No two bars share a date.
	seen := map[string]bool{}
	for _, b := range stored {
		key := b.Date.Format(model.DateFormat)
		assert.False(t, seen[key], "duplicate date %s", key)
		seen[key] = true
	}
}

func TestReplaceDailyBars_ReplacesNotMerges(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Register([]string{"AAPL"}))
	id, err := s.Resolve("AAPL")
	require.NoError(t, err)

	require.NoError(t, s.ReplaceDailyBars(id, testBars(id, 100, 101, 102, 103)))
	require.NoError(t, s.ReplaceDailyBars(id, testBars(id, 200, 201)))

	stored, err := s.BarsForTicker(id)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, 200.0, stored[0].Close)
}

func TestReplaceDailyBars_IsolatedPerTicker(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Register([]string{"AAPL", "MSFT"}))
	aapl, _ := s.Resolve("AAPL")
	msft, _ := s.Resolve("MSFT")

	require.NoError(t, s.ReplaceDailyBars(aapl, testBars(aapl, 100, 101)))
	require.NoError(t, s.ReplaceDailyBars(msft, testBars(msft, 300)))
	require.NoError(t, s.ReplaceDailyBars(msft, nil))

	stored, err := s.BarsForTicker(aapl)
	require.NoError(t, err)
	assert.Len(t, stored, 2, "replacing MSFT must not touch AAPL history")
}

func TestBarsForSymbol_OrderedAscending(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Register([]string{"AAPL"}))
	id, _ := s.Resolve("AAPL")

	bars := testBars(id, 100, 101, 102)
	// Insert out of order; reads must still come back sorted.
	require.NoError(t, s.ReplaceDailyBars(id, []model.PriceBar{bars[2], bars[0], bars[1]}))

	stored, err := s.BarsForSymbol("AAPL")
	require.NoError(t, err)
	require.Len(t, stored, 3)
	for i := 1; i < len(stored); i++ {
		assert.True(t, stored[i-1].Date.Before(stored[i].Date))
	}
	assert.Equal(t, 100.0, stored[0].Close)
	assert.Equal(t, id, stored[0].TickerID)
}

func TestReplaceDailyBars_DuplicateDateFailsAndPreservesHistory(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Register([]string{"AAPL"}))
	id, _ := s.Resolve("AAPL")

	require.NoError(t, s.ReplaceDailyBars(id, testBars(id, 100, 101)))

	dup := testBars(id, 200, 201)
	dup[1].Date = dup[0].Date // violates UNIQUE(ticker_id, date)
	err := s.ReplaceDailyBars(id, dup)
	require.Error(t, err)

	// The failed transaction must leave the prior batch intact.
	stored, err := s.BarsForTicker(id)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, 100.0, stored[0].Close)
}
