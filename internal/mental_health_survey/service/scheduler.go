package service

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// DefaultReloadSpec re-reads the dataset every night at midnight.
const DefaultReloadSpec = "0 0 0 * * *"

type Reloader interface {
	Reload(ctx context.Context) error
}

// Scheduler periodically reloads the dataset.
type Scheduler struct {
	cron   *cron.Cron
	target Reloader
	spec   string
}

func NewScheduler(target Reloader, spec string) *Scheduler {
	if spec == "" {
		spec = DefaultReloadSpec
	}
	return &Scheduler{cron: cron.New(cron.WithSeconds()), target: target, spec: spec}
}

// Start registers the reload job and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.runReload)
	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return err
	}
	log.Printf("Cron scheduler started (dataset reload spec=%q)", s.spec)
	s.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for a running reload to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runReload() {
	if err := s.target.Reload(context.Background()); err != nil {
		log.Printf("Scheduled dataset reload failed: %v", err)
	}
}
