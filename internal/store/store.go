package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"PriceWarehouse/internal/model"

	_ "modernc.org/sqlite"
)

// ErrUnknownTicker is returned when a symbol was never registered.
var ErrUnknownTicker = errors.New("unknown ticker")

// Store is the SQLite-backed price warehouse: the ticker registry plus the
// daily price bars keyed by (ticker_id, date).
type Store struct {
	db *sql.DB

	mu      sync.Mutex            // guards tickers
	tickers map[int64]*sync.Mutex // per-ticker replace exclusion
}

// Open opens (or creates) the SQLite database and runs migrations.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so readers (exports, ad-hoc queries) don't block ingestion.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &Store{db: db, tickers: make(map[int64]*sync.Mutex)}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] price store opened: %s", dbPath)
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tickers (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol TEXT UNIQUE NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS daily_prices (
			ticker_id INTEGER NOT NULL REFERENCES tickers(id),
			date      TEXT NOT NULL,
			open      REAL,
			high      REAL,
			low       REAL,
			close     REAL,
			adj_close REAL,
			volume    INTEGER,
			UNIQUE(ticker_id, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_prices_ticker_date ON daily_prices(ticker_id, date)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// Register inserts each symbol into the registry, silently ignoring symbols
// already present. Identities are assigned in first-seen order and never
// change on re-registration.
func (s *Store) Register(symbols []string) error {
	for _, symbol := range symbols {
		if _, err := s.db.Exec(
			"INSERT OR IGNORE INTO tickers (symbol) VALUES (?)", symbol,
		); err != nil {
			return fmt.Errorf("register %s: %w", symbol, err)
		}
	}
	return nil
}

// Resolve maps a symbol to its stable identity. Returns ErrUnknownTicker for
// symbols that were never registered.
func (s *Store) Resolve(symbol string) (int64, error) {
	var id int64
	err := s.db.QueryRow("SELECT id FROM tickers WHERE symbol = ?", symbol).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", ErrUnknownTicker, symbol)
	}
	if err != nil {
		return 0, fmt.Errorf("resolve %s: %w", symbol, err)
	}
	return id, nil
}

// Tickers returns all registered tickers in identity order.
func (s *Store) Tickers() ([]model.Ticker, error) {
	rows, err := s.db.Query("SELECT id, symbol FROM tickers ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list tickers: %w", err)
	}
	defer rows.Close()

	var out []model.Ticker
	for rows.Next() {
		var t model.Ticker
		if err := rows.Scan(&t.ID, &t.Symbol); err != nil {
			return nil, fmt.Errorf("scan ticker: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// tickerLock returns the mutex serializing replaces for one ticker identity.
func (s *Store) tickerLock(tickerID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.tickers[tickerID]
	if !ok {
		l = &sync.Mutex{}
		s.tickers[tickerID] = l
	}
	return l
}

// ReplaceDailyBars atomically swaps the stored history of one ticker for the
// given batch: all prior rows are deleted and the new rows inserted inside a
// single transaction. On any failure the prior history remains intact.
func (s *Store) ReplaceDailyBars(tickerID int64, bars []model.PriceBar) error {
	l := s.tickerLock(tickerID)
	l.Lock()
	defer l.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM daily_prices WHERE ticker_id = ?", tickerID); err != nil {
		return fmt.Errorf("purge ticker %d: %w", tickerID, err)
	}

	ins, err := tx.Prepare(`INSERT INTO daily_prices
		(ticker_id, date, open, high, low, close, adj_close, volume)
		VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer ins.Close()

	for _, b := range bars {
		if _, err := ins.Exec(
			tickerID, b.Date.Format(model.DateFormat),
			b.Open, b.High, b.Low, b.Close, b.AdjClose, b.Volume,
		); err != nil {
			return fmt.Errorf("insert bar %s: %w", b.Date.Format(model.DateFormat), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

// BarsForSymbol returns the full stored series for a symbol, ascending by date.
func (s *Store) BarsForSymbol(symbol string) ([]model.PriceBar, error) {
	rows, err := s.db.Query(`SELECT dp.ticker_id, dp.date, dp.open, dp.high, dp.low,
			dp.close, dp.adj_close, dp.volume
		FROM daily_prices dp
		JOIN tickers t ON dp.ticker_id = t.id
		WHERE t.symbol = ?
		ORDER BY dp.date`, symbol)
	if err != nil {
		return nil, fmt.Errorf("query bars for %s: %w", symbol, err)
	}
	defer rows.Close()
	return scanBars(rows)
}

// BarsForTicker returns the full stored series for a ticker identity,
// ascending by date.
func (s *Store) BarsForTicker(tickerID int64) ([]model.PriceBar, error) {
	rows, err := s.db.Query(`SELECT ticker_id, date, open, high, low,
			close, adj_close, volume
		FROM daily_prices
		WHERE ticker_id = ?
		ORDER BY date`, tickerID)
	if err != nil {
		return nil, fmt.Errorf("query bars for ticker %d: %w", tickerID, err)
	}
	defer rows.Close()
	return scanBars(rows)
}

func scanBars(rows *sql.Rows) ([]model.PriceBar, error) {
	var out []model.PriceBar
	for rows.Next() {
		var b model.PriceBar
		var date string
		if err := rows.Scan(&b.TickerID, &date, &b.Open, &b.High, &b.Low,
			&b.Close, &b.AdjClose, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		d, err := parseDay(date)
		if err != nil {
			return nil, err
		}
		b.Date = d
		out = append(out, b)
	}
	return out, rows.Err()
}

func parseDay(s string) (time.Time, error) {
	d, err := time.ParseInLocation(model.DateFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored date %q: %w", s, err)
	}
	return d, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	log.Println("[INFO] closing price store")
	return s.db.Close()
}
