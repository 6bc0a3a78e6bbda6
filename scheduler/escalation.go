package scheduler

import (
	"context"
	"time"

	"civicwatch/services"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// EscalationScheduler runs the escalation sweep inside the process instead of
// exposing it as a publicly reachable GET endpoint.
type EscalationScheduler struct {
	cron    *cron.Cron
	service *services.IssueService
	logger  *zap.Logger
}

func NewEscalationScheduler(service *services.IssueService, logger *zap.Logger) *EscalationScheduler {
	return &EscalationScheduler{
		cron:    cron.New(),
		service: service,
		logger:  logger,
	}
}

// Start schedules the hourly sweep and launches the cron loop.
func (s *EscalationScheduler) Start() error {
	if _, err := s.cron.AddFunc("@hourly", s.run); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("escalation scheduler started", zap.String("schedule", "@hourly"))
	return nil
}

// Stop halts the cron loop and waits for a running sweep to finish.
func (s *EscalationScheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *EscalationScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := s.service.RunEscalationSweep(ctx, time.Now()); err != nil {
		s.logger.Error("scheduled escalation sweep failed", zap.Error(err))
	}
}
