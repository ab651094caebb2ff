package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type ExpiredSessionCleaner interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

// StartSessionJanitor deletes expired sessions every interval until the
// returned stop func is called. A non-positive interval disables it.
func StartSessionJanitor(cleaner ExpiredSessionCleaner, clock clockwork.Clock, interval time.Duration, logger *slog.Logger) func() {
	if interval <= 0 {
		return func() {}
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := clock.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				n, err := cleaner.CleanupExpired(ctx)
				if err != nil {
					logger.Error("expired session cleanup failed", "error", err)
					continue
				}
				if n > 0 {
					logger.Info("expired sessions deleted", "count", n)
				}
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			wg.Wait()
		})
	}
}
