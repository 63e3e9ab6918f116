// internal/app/system/workers/seatsweeper.go
package workers

import (
	"context"
	"sync"
	"time"

	teamseatstore "github.com/dalemusser/hackhub/internal/app/store/teamseats"
	"go.uber.org/zap"
)

// SeatSweeper is a background worker that reclaims team seats whose team
// has been deleted or no longer lists the seat's user.
type SeatSweeper struct {
	seats    *teamseatstore.Store
	log      *zap.Logger
	interval time.Duration
	grace    time.Duration
	timeout  time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewSeatSweeper creates a new seat sweeper.
//
// Parameters:
//   - seats: the team seat store
//   - logger: zap logger for logging
//   - interval: how often to sweep (e.g., 5 minutes)
//   - grace: minimum seat age before it can be swept, so seats of a
//     registration still in flight are never touched (e.g., 1 minute)
//   - timeout: per-sweep deadline
func NewSeatSweeper(seats *teamseatstore.Store, logger *zap.Logger, interval, grace, timeout time.Duration) *SeatSweeper {
	return &SeatSweeper{
		seats:    seats,
		log:      logger,
		interval: interval,
		grace:    grace,
		timeout:  timeout,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *SeatSweeper) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("seat sweeper started",
		zap.Duration("interval", w.interval),
		zap.Duration("grace", w.grace))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *SeatSweeper) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("seat sweeper stopped")
	})
}

func (w *SeatSweeper) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Sweep()
		}
	}
}

// Sweep runs one pass and returns the number of seats reclaimed.
func (w *SeatSweeper) Sweep() int64 {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	count, err := w.seats.SweepOrphans(ctx, time.Now().UTC().Add(-w.grace))
	if err != nil {
		w.log.Error("failed to sweep orphaned seats", zap.Error(err))
		return 0
	}
	if count > 0 {
		w.log.Info("reclaimed orphaned team seats", zap.Int64("count", count))
	}
	return count
}
