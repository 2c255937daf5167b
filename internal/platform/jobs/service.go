package jobs

import (
	"context"
	"log/slog"
	"time"

	"hrsync/internal/domain/sync"
	"hrsync/internal/session"
)

// Service runs periodic maintenance in the background. Today that is one
// job: sweeping expired entries out of the deleted-items buffer so restores
// past the retention window disappear even when nobody opens the trash
// view.
type Service struct {
	Sync     *sync.Service
	Session  *session.Session
	Interval time.Duration
}

func New(syncService *sync.Service, sess *session.Session, interval time.Duration) *Service {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Service{Sync: syncService, Session: sess, Interval: interval}
}

func (s *Service) Start(ctx context.Context) {
	go s.sweepLoop(ctx)
}

func (s *Service) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep forces a read of the deleted-items buffer, which prunes expired
// entries as a side effect. A signed-out session is skipped, not an error.
func (s *Service) sweep(ctx context.Context) {
	if _, ok := s.Session.UserID(); !ok {
		return
	}
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if _, err := s.Sync.DeletedItems(sweepCtx, s.Session); err != nil {
		slog.Warn("trash sweep failed", "err", err)
	}
}
