package job

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

const refreshTimeout = 5 * time.Minute

type EventRefresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler drives the two background loops on cron entries: the event
// cache refresh and the notification scan.
type Scheduler struct {
	cron         *cron.Cron
	refresher    EventRefresher
	notifier     *Notifier
	refreshEvery time.Duration
	notifyEvery  time.Duration
}

func NewScheduler(refresher EventRefresher, notifier *Notifier, refreshEvery, notifyEvery time.Duration) *Scheduler {
	return &Scheduler{
		cron:         cron.New(),
		refresher:    refresher,
		notifier:     notifier,
		refreshEvery: refreshEvery,
		notifyEvery:  notifyEvery,
	}
}

// Start runs one refresh inline so commands have data as soon as the process
// is up, then registers the recurring entries and starts the cron runner.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.refreshEvery <= 0 || s.notifyEvery <= 0 {
		return fmt.Errorf("scheduler intervals must be positive (refresh %s, notify %s)", s.refreshEvery, s.notifyEvery)
	}

	s.refresh(ctx)

	if _, err := s.cron.AddFunc(every(s.refreshEvery), func() {
		s.refresh(context.Background())
	}); err != nil {
		return fmt.Errorf("scheduling event refresh: %w", err)
	}

	if _, err := s.cron.AddFunc(every(s.notifyEvery), func() {
		s.notifier.RunOnce(context.Background())
	}); err != nil {
		return fmt.Errorf("scheduling notification scan: %w", err)
	}

	s.cron.Start()
	log.Printf("Scheduler started (refresh %s, notify %s)", s.refreshEvery, s.notifyEvery)
	return nil
}

// Stop halts the cron runner and waits for in-flight entries to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Println("Scheduler stopped")
}

func (s *Scheduler) refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()
	if err := s.refresher.Refresh(ctx); err != nil {
		log.Printf("event refresh failed: %v", err)
	}
}

func every(d time.Duration) string {
	return fmt.Sprintf("@every %s", d)
}
