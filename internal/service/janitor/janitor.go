package janitor

import (
	"context"
	"time"

	"github.com/nexanest/authsvc/internal/logger"
)

const defaultSweepInterval = 1 * time.Hour

type sessionStore interface {
	DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error)
}

// Janitor deletes sessions whose refresh token expired.
// Pure maintenance: nothing on the request path depends on it, expired
// sessions are unusable either way.
type Janitor struct {
	interval time.Duration
	sessions sessionStore
	logger   logger.Logger
}

func New(interval time.Duration, sessions sessionStore, logger logger.Logger) *Janitor {
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	return &Janitor{
		interval: interval,
		sessions: sessions,
		logger:   logger,
	}
}

// Run sweeps on every tick until the context is cancelled.
// The returned channel closes when the janitor has fully stopped.
func (j *Janitor) Run(ctx context.Context) <-chan struct{} {
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)

		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				j.logger.Debug("Session janitor stopped")
				return
			case <-ticker.C:
				j.sweep(ctx)
			}
		}
	}()

	return stopped
}

func (j *Janitor) sweep(ctx context.Context) {
	deleted, err := j.sessions.DeleteExpired(ctx, time.Now())
	if err != nil {
		j.logger.Error("Failed to delete expired sessions", "error", err.Error())
		return
	}

	if deleted > 0 {
		j.logger.Info("Deleted expired sessions", "count", deleted)
	}
}
