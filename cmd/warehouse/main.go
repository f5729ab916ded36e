package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"PriceWarehouse/internal/config"
	"PriceWarehouse/internal/export"
	"PriceWarehouse/internal/metrics"
	"PriceWarehouse/internal/model"
	"PriceWarehouse/internal/pipeline"
	"PriceWarehouse/internal/provider"
	"PriceWarehouse/internal/scheduler"
	"PriceWarehouse/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] PriceWarehouse starting...")

	cfgPath := flag.String("config", "configs/config.yaml", "path to YAML config")
	symbolsFlag := flag.String("symbols", "", "comma-separated symbols (overrides config)")
	startFlag := flag.String("start", "", "history start date YYYY-MM-DD (overrides config)")
	windowFlag := flag.Int("window", 0, "rolling window size (overrides config)")
	once := flag.Bool("once", false, "run a single refresh and exit even if a cron schedule is configured")
	flag.Parse()

	if v := os.Getenv("CONFIG_PATH"); v != "" && !isFlagSet("config") {
		*cfgPath = v
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if *symbolsFlag != "" {
		cfg.DataSource.Symbols = splitSymbols(*symbolsFlag)
	}
	if *startFlag != "" {
		cfg.DataSource.Start = *startFlag
	}
	if *windowFlag > 0 {
		cfg.Metrics.Window = *windowFlag
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher
	var fetcher provider.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = provider.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	} else {
		fetcher = provider.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init store
	if dir := filepath.Dir(cfg.Database.SQLitePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("[FATAL] create data dir: %v", err)
		}
	}
	st, err := store.Open(cfg.Database.SQLitePath)
	if err != nil {
		log.Fatalf("[FATAL] open store: %v", err)
	}
	defer st.Close()

	saver := export.NewSaver(cfg.Export.Format)
	ing := pipeline.NewIngestor(fetcher, st)

	refresh := func() int { return runRefresh(cfg, ing, st, saver) }

	// Run once and exit unless a cron schedule is configured.
	if cfg.Schedule.RefreshCron == "" || *once {
		code := refresh()
		st.Close()
		os.Exit(code)
	}

	sched := scheduler.NewScheduler(func() { refresh() })
	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		log.Fatalf("[FATAL] register refresh task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing refresh now")
		go sched.RunNow()
	}

	log.Println("[INFO] PriceWarehouse is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
}

// runRefresh is one full warehouse cycle: ingest all symbols, then compute and
// export the derived series for each. Returns the process exit code: nonzero
// when any symbol hit a fatal (non-skip) error.
func runRefresh(cfg *config.Config, ing *pipeline.Ingestor, st *store.Store, saver export.Saver) int {
	start := cfg.StartDate()
	end := model.Day(time.Now().UTC())

	report, err := ing.IngestAll(cfg.DataSource.Symbols, start, end)
	if err != nil {
		log.Printf("[ERROR] batch run: %v", err)
		return 1
	}

	if err := report.Write(cfg.Export.Dir); err != nil {
		log.Printf("[WARN] write run report: %v", err)
	}

	if err := os.MkdirAll(cfg.Export.Dir, 0755); err != nil {
		log.Printf("[ERROR] create export dir: %v", err)
		return 1
	}
	for _, out := range report.Outcomes {
		if out.Status != pipeline.StatusWritten {
			continue
		}
		bars, err := st.BarsForSymbol(out.Symbol)
		if err != nil {
			log.Printf("[ERROR] read bars for %s: %v", out.Symbol, err)
			continue
		}
		rows := metrics.Compute(bars, cfg.Metrics.Window)
		path := filepath.Join(cfg.Export.Dir,
			fmt.Sprintf("%s_metrics.%s", strings.ToLower(out.Symbol), saver.Extension()))
		if err := saver.Save(rows, path); err != nil {
			log.Printf("[ERROR] export %s: %v", out.Symbol, err)
			continue
		}
		log.Printf("[INFO] exported %s: %d rows -> %s", out.Symbol, len(rows), path)
	}

	log.Printf("[INFO] run finished:\n%s", report.Summary())
	if report.Failed() > 0 {
		return 1
	}
	return 0
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func splitSymbols(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
