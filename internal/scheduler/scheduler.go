package scheduler

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the periodic warehouse refresh.
type Scheduler struct {
	Cron    *cron.Cron
	refresh func()
}

// NewScheduler creates a Scheduler around the given refresh task
// (ingest + compute + export for all configured symbols).
func NewScheduler(refresh func()) *Scheduler {
	return &Scheduler{
		Cron:    cron.New(cron.WithSeconds()),
		refresh: refresh,
	}
}

// Register adds the refresh task under the given cron expression.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.run); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the refresh immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.run()
}

func (s *Scheduler) run() {
	log.Println("[INFO] running scheduled refresh")
	s.refresh()
}
