package engagement

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// RollupStore is the persistence the scheduler needs. Satisfied by
// store.Store; kept as an interface so tests can run without a database.
type RollupStore interface {
	ListEngagementEventsSince(ctx context.Context, since time.Time) ([]ViewEvent, error)
	SaveEngagementRollup(ctx context.Context, periodStart time.Time, maps []DocumentHeatMap) error
}

// Scheduler rolls raw view events into hourly heat-map snapshots.
type Scheduler struct {
	Cron  *cron.Cron
	Store RollupStore
}

func NewScheduler(st RollupStore) *Scheduler {
	return &Scheduler{
		Cron:  cron.New(),
		Store: st,
	}
}

// RegisterAll wires the rollup job. Hourly on the hour.
func (s *Scheduler) RegisterAll() error {
	if _, err := s.Cron.AddFunc("0 * * * *", s.runRollup); err != nil {
		return fmt.Errorf("failed to schedule engagement rollup: %w", err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.Cron.Start()
	fmt.Println("[ENGAGEMENT] rollup scheduler started")
}

func (s *Scheduler) Stop() context.Context {
	return s.Cron.Stop()
}

func (s *Scheduler) runRollup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	periodStart := time.Now().UTC().Truncate(time.Hour).Add(-time.Hour)
	events, err := s.Store.ListEngagementEventsSince(ctx, periodStart)
	if err != nil {
		fmt.Printf("[ENGAGEMENT] rollup skipped, event query failed: %v\n", err)
		return
	}
	if len(events) == 0 {
		return
	}

	maps := BuildHeatMaps(events)
	if err := s.Store.SaveEngagementRollup(ctx, periodStart, maps); err != nil {
		fmt.Printf("[ENGAGEMENT] rollup save failed: %v\n", err)
		return
	}
	fmt.Printf("[ENGAGEMENT] rolled up %d events into %d document heat maps\n", len(events), len(maps))
}
