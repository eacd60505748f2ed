package worker

import (
	"context"
	"time"

	"sjsage522/pricewatch/logger"
	"sjsage522/pricewatch/services/snapshot"
)

// Refresher replaces the current snapshot with a new acquisition cycle
type Refresher interface {
	Refresh(ctx context.Context) (snapshot.Snapshot, error)
}

// Worker refreshes the snapshot on a fixed cadence, independent of reads
type Worker struct {
	ctx             context.Context
	refresher       Refresher
	refreshInterval time.Duration
	log             *logger.Logger
}

// NewWorker creates a new worker
func NewWorker(ctx context.Context, refresher Refresher, refreshInterval time.Duration) *Worker {
	return &Worker{
		ctx:             ctx,
		refresher:       refresher,
		refreshInterval: refreshInterval,
		log:             logger.ForComponent("worker"),
	}
}

// Start runs a cycle immediately and then every refresh interval until the
// context is cancelled
func (w *Worker) Start() error {
	ticker := time.NewTicker(w.refreshInterval)
	defer ticker.Stop()

	for {
		w.runCycle()

		select {
		case <-w.ctx.Done():
		case <-ticker.C:
		}

		if w.ctx.Err() != nil {
			w.log.Info().Msg("Worker stopped")
			return nil
		}
	}
}

// runCycle performs one scheduled refresh. Failures leave the previous
// snapshot in place.
func (w *Worker) runCycle() {
	start := time.Now()

	snap, err := w.refresher.Refresh(w.ctx)
	if err != nil {
		if w.ctx.Err() == nil {
			w.log.Error().Err(err).Msg("Scheduled price update failed")
		}
		return
	}

	w.log.Info().
		Str("snapshot_id", snap.ID).
		Dur("elapsed", time.Since(start)).
		Msg("Scheduled price update completed")
}
