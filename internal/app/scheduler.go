package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type expiredTokenStore interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler runs background maintenance tasks.
type Scheduler struct {
	resetTokens expiredTokenStore
	logger      *zap.Logger
	stopChan    chan struct{}
}

func NewScheduler(resetTokens expiredTokenStore, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		resetTokens: resetTokens,
		logger:      logger,
		stopChan:    make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("starting background scheduler")

	go s.runTokenCleanupTask(ctx)
}

func (s *Scheduler) Stop() {
	s.logger.Info("stopping background scheduler")
	close(s.stopChan)
}

// runTokenCleanupTask purges dead password reset tokens once an hour.
func (s *Scheduler) runTokenCleanupTask(ctx context.Context) {
	s.cleanupTokens(ctx)

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanupTokens(ctx)
		case <-s.stopChan:
			s.logger.Info("token cleanup task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("token cleanup task cancelled")
			return
		}
	}
}

func (s *Scheduler) cleanupTokens(ctx context.Context) {
	removed, err := s.resetTokens.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("token cleanup failed", zap.Error(err))
		return
	}
	if removed > 0 {
		s.logger.Info("expired reset tokens removed", zap.Int64("count", removed))
	}
}
