package application

import (
	"context"
	"log"
	"time"
)

// Scheduler executes the rule set on a fixed interval.
type Scheduler struct {
	service  *Service
	interval time.Duration
	logger   *log.Logger
}

// NewScheduler constructs a Scheduler.
func NewScheduler(service *Service, interval time.Duration, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{service: service, interval: interval, logger: logger}
}

// Start begins the scheduler loop and blocks until the context is done.
func (s *Scheduler) Start(ctx context.Context) {
	if s == nil || s.service == nil || s.interval <= 0 {
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			summary, err := s.service.Execute(ctx)
			if err != nil {
				s.logger.Printf("rules scheduler: execute error: %v", err)
				continue
			}
			s.logger.Printf("rules scheduler: executed %d rules, matched=%d succeeded=%d failed=%d",
				summary.Evaluated, summary.Matched, summary.Succeeded, summary.Failed)
		}
	}
}
