package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/quizrun/quizrun-backend/internal/session"
)

const ReapInterval = 1 * time.Minute

// ReaperWorker periodically closes sessions nobody has touched within the
// configured TTL, so abandoned browser tabs do not accumulate state.
type ReaperWorker struct {
	manager *session.Manager
	maxIdle time.Duration
	log     zerolog.Logger
}

func NewReaperWorker(manager *session.Manager, maxIdle time.Duration, log zerolog.Logger) *ReaperWorker {
	return &ReaperWorker{
		manager: manager,
		maxIdle: maxIdle,
		log:     log.With().Str("component", "reaper_worker").Logger(),
	}
}

func (w *ReaperWorker) Start(ctx context.Context) {
	w.log.Info().Dur("max_idle", w.maxIdle).Msg("ReaperWorker started")

	ticker := time.NewTicker(ReapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Closing all sessions...")
			w.manager.CloseAll()
			return

		case <-ticker.C:
			if reaped := w.manager.SweepIdle(w.maxIdle); reaped > 0 {
				w.log.Debug().
					Int("reaped", reaped).
					Int("remaining", w.manager.Count()).
					Msg("Sweep complete")
			}
		}
	}
}
