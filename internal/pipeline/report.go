package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Report summarizes one batch run, one outcome per symbol.
type Report struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Outcomes   []Outcome
}

// Written returns the number of symbols whose batch landed.
func (r *Report) Written() int { return r.count(StatusWritten) }

// Skipped returns the number of symbols the provider had no data for.
func (r *Report) Skipped() int { return r.count(StatusNoData) }

// Failed returns the number of symbols that hit a fatal error.
func (r *Report) Failed() int { return r.count(StatusFailed) }

func (r *Report) count(st Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == st {
			n++
		}
	}
	return n
}

// Summary renders the per-symbol status table for the end of a run.
func (r *Report) Summary() string {
	var b strings.Builder
	for _, o := range r.Outcomes {
		b.WriteString("  ")
		b.WriteString(o.String())
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "written=%d skipped=%d failed=%d", r.Written(), r.Skipped(), r.Failed())
	return b.String()
}

type reportEntry struct {
	Symbol string `json:"symbol"`
	Status string `json:"status"`
	Bars   int    `json:"bars,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Write saves the run report as JSON next to the data so the last run's
// outcome survives the process.
func (r *Report) Write(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	entries := make([]reportEntry, len(r.Outcomes))
	for i, o := range r.Outcomes {
		e := reportEntry{Symbol: o.Symbol, Status: string(o.Status), Bars: o.Written}
		if o.Err != nil {
			e.Reason = o.Err.Error()
		}
		entries[i] = e
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, ".lastrun.json"), data, 0644)
}
