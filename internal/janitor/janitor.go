package janitor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/mcoot/rocketbingo/internal/storage"
	"github.com/mcoot/rocketbingo/internal/web/hub"
)

// DefaultSchedule runs a sweep every five minutes
const DefaultSchedule = "@every 5m"

// SweepResult summarises one sweep
type SweepResult struct {
	HubsRemoved int
	LiveRooms   int
}

// Janitor periodically drops room hubs nobody listens to and reports how
// many rooms are live.
type Janitor struct {
	cron    *cron.Cron
	hubs    *hub.Manager
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new Janitor. It does nothing until Start is called.
func New(hubs *hub.Manager, store storage.Storage, logger *slog.Logger) *Janitor {
	return &Janitor{
		cron:    cron.New(),
		hubs:    hubs,
		storage: store,
		logger:  logger.With("component", "janitor"),
	}
}

// Start schedules the sweep and starts the cron runner
func (j *Janitor) Start(schedule string) error {
	if schedule == "" {
		schedule = DefaultSchedule
	}

	_, err := j.cron.AddFunc(schedule, func() {
		_, _ = j.Sweep(context.Background())
	})
	if err != nil {
		return fmt.Errorf("invalid janitor schedule %q: %w", schedule, err)
	}

	j.cron.Start()
	j.logger.Info("janitor started", slog.String("schedule", schedule))
	return nil
}

// Stop halts the cron runner. The returned context is done once a running
// sweep has finished.
func (j *Janitor) Stop() context.Context {
	return j.cron.Stop()
}

// Sweep runs one cleanup pass
func (j *Janitor) Sweep(ctx context.Context) (SweepResult, error) {
	result := SweepResult{
		HubsRemoved: j.hubs.CleanupEmptyHubs(),
	}

	count, err := j.storage.CountRooms(ctx)
	if err != nil {
		j.logger.Error("failed to count rooms", slog.Any("error", err))
		return result, err
	}
	result.LiveRooms = count

	j.logger.Info("janitor sweep",
		slog.Int("hubs_removed", result.HubsRemoved),
		slog.Int("live_rooms", result.LiveRooms),
		slog.Int("active_hubs", j.hubs.HubCount()),
	)
	return result, nil
}
