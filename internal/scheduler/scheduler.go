package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const jobTimeout = 5 * time.Minute

// Scheduler runs named background jobs on cron schedules.
type Scheduler struct {
	cron *cron.Cron
	log  *slog.Logger
}

func New(log *slog.Logger) *Scheduler {
	return &Scheduler{cron: cron.New(), log: log}
}

func (s *Scheduler) Add(spec, name string, job func(context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := time.Now()
		if err := job(ctx); err != nil {
			s.log.Error("job failed", "job", name, "error", err)
			return
		}
		s.log.Info("job finished", "job", name, "took", time.Since(start).String())
	})
	return err
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}
