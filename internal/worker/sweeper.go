package worker

import (
	"context"
	"log"
	"time"

	"github.com/voxrelay/voxrelay/internal/store"
)

// Sweeper periodically evicts audio records older than the retention window.
// It is owned by the service lifecycle: Start blocks until the context is
// cancelled, so shutdown stops the timer with everything else.
type Sweeper struct {
	store    store.AudioStore
	interval time.Duration
	now      func() time.Time // injectable for tests
}

func NewSweeper(s store.AudioStore, interval time.Duration) *Sweeper {
	return &Sweeper{
		store:    s,
		interval: interval,
		now:      time.Now,
	}
}

// Start runs the sweep loop until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	log.Printf("[Sweeper] Started (interval: %v)", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[Sweeper] Shutting down...")
			return
		case <-ticker.C:
			removed, err := s.store.Sweep(ctx, s.now())
			if err != nil {
				log.Printf("[Sweeper] Sweep failed: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("[Sweeper] Evicted %d expired audio record(s)", removed)
			}
		}
	}
}
