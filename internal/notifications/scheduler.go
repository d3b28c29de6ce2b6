package notifications

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs the dispatcher every minute so scheduled notifications go
// out close to their due time.
type Scheduler struct {
	cron    *cron.Cron
	service *Service
	logger  *zap.Logger
}

func NewScheduler(service *Service, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		service: service,
		logger:  logger,
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("* * * * *", s.dispatch)
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("notification dispatcher started")
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		s.logger.Warn("notification dispatcher did not stop cleanly")
	}
}

func (s *Scheduler) dispatch() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sent, err := s.service.DispatchDue(ctx)
	if err != nil {
		s.logger.Error("notification dispatch failed", zap.Error(err))
		return
	}
	if sent > 0 {
		s.logger.Info("dispatched scheduled notifications", zap.Int("count", sent))
	}
}
