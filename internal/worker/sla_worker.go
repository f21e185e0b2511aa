package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/service"
)

const sweepBatchSize = 200

// SLAWorker periodically flags open tickets whose response deadline has
// passed. The sweep is idempotent, so overlapping runs after a slow tick are
// harmless.
type SLAWorker struct {
	tickets  *service.TicketService
	interval time.Duration
	logger   *zap.Logger
}

// NewSLAWorker constructs the worker.
func NewSLAWorker(tickets *service.TicketService, interval time.Duration, logger *zap.Logger) *SLAWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SLAWorker{tickets: tickets, interval: interval, logger: logger}
}

// Run blocks until the context is cancelled, sweeping on every tick.
func (w *SLAWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("sla worker started", zap.Duration("interval", w.interval))
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("sla worker stopped")
			return
		case <-ticker.C:
			flagged, err := w.tickets.SweepSLABreaches(ctx, time.Now().UTC(), sweepBatchSize)
			if err != nil {
				w.logger.Error("sla sweep failed", zap.Error(err))
				continue
			}
			if flagged > 0 {
				w.logger.Warn("sla breaches flagged", zap.Int("count", flagged))
			}
		}
	}
}
