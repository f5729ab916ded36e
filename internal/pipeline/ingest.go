package pipeline

import (
	"errors"
	"fmt"
	"log"
	"time"

	"PriceWarehouse/internal/provider"
	"PriceWarehouse/internal/store"
)

// Status classifies the result of ingesting one symbol.
type Status string

const (
	StatusWritten Status = "written" // fresh batch landed in the store
	StatusNoData  Status = "no_data" // provider had nothing for the range; store untouched
	StatusFailed  Status = "failed"  // fatal for this symbol; store untouched
)

// Outcome is the per-symbol result of one ingestion.
type Outcome struct {
	Symbol  string
	Status  Status
	Written int
	Err     error
}

// Fatal reports whether the outcome should fail the overall run.
// NoDataReturned is benign and never elevated to failure.
func (o Outcome) Fatal() bool { return o.Status == StatusFailed }

func (o Outcome) String() string {
	switch o.Status {
	case StatusWritten:
		return fmt.Sprintf("%s: %d bars written", o.Symbol, o.Written)
	case StatusNoData:
		return fmt.Sprintf("%s: skipped, no data returned", o.Symbol)
	default:
		return fmt.Sprintf("%s: failed: %v", o.Symbol, o.Err)
	}
}

// Ingestor orchestrates registry lookup, provider fetch, normalization and the
// transactional store replace for a batch of symbols.
type Ingestor struct {
	Fetcher provider.Fetcher
	Store   *store.Store
}

// NewIngestor creates a new Ingestor.
func NewIngestor(f provider.Fetcher, s *store.Store) *Ingestor {
	return &Ingestor{Fetcher: f, Store: s}
}

// Ingest refreshes the stored history of one symbol for [start, end].
//
// The fetch happens before any mutation: an empty or failed fetch leaves the
// existing bars for the symbol untouched, so a flaky refresh can never destroy
// good data. Ingestion never registers implicitly; an unresolved symbol is a
// failure.
func (ing *Ingestor) Ingest(symbol string, start, end time.Time) Outcome {
	raw, err := ing.Fetcher.FetchDailyBars(symbol, start, end)
	if err != nil {
		return Outcome{Symbol: symbol, Status: StatusFailed, Err: fmt.Errorf("fetch: %w", err)}
	}
	if len(raw) == 0 {
		return Outcome{Symbol: symbol, Status: StatusNoData}
	}

	bars, err := provider.Normalize(raw)
	if err != nil {
		return Outcome{Symbol: symbol, Status: StatusFailed, Err: err}
	}

	tickerID, err := ing.Store.Resolve(symbol)
	if err != nil {
		return Outcome{Symbol: symbol, Status: StatusFailed, Err: err}
	}
	for i := range bars {
		bars[i].TickerID = tickerID
	}

	if err := ing.Store.ReplaceDailyBars(tickerID, bars); err != nil {
		return Outcome{Symbol: symbol, Status: StatusFailed, Err: fmt.Errorf("persist: %w", err)}
	}

	return Outcome{Symbol: symbol, Status: StatusWritten, Written: len(bars)}
}

// IngestAll registers the symbols once, then ingests each independently.
// One symbol's failure never aborts the rest; every symbol gets an outcome in
// the report.
func (ing *Ingestor) IngestAll(symbols []string, start, end time.Time) (*Report, error) {
	if err := ing.Store.Register(symbols); err != nil {
		return nil, fmt.Errorf("register symbols: %w", err)
	}

	report := &Report{StartedAt: time.Now()}
	for _, symbol := range symbols {
		out := ing.Ingest(symbol, start, end)
		switch out.Status {
		case StatusWritten:
			log.Printf("[INFO] %s", out)
		case StatusNoData:
			log.Printf("[WARN] %s", out)
		default:
			log.Printf("[ERROR] %s", out)
		}
		report.Outcomes = append(report.Outcomes, out)
	}
	report.FinishedAt = time.Now()
	return report, nil
}

// IsUnknownTicker reports whether the outcome failed because the symbol was
// never registered.
func IsUnknownTicker(o Outcome) bool {
	return o.Err != nil && errors.Is(o.Err, store.ErrUnknownTicker)
}
