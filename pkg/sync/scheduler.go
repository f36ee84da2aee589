package sync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vistatrade/firesync/pkg/logger"
)

// SchedulerConfig contains configuration for periodic sync runs
type SchedulerConfig struct {
	Enabled bool `yaml:"enabled"`

	// Schedule is a standard cron expression; defaults to hourly
	Schedule string `yaml:"schedule"`

	// RunTimeout bounds one full sync run
	RunTimeout time.Duration `yaml:"run_timeout"`
}

// DefaultSchedulerConfig returns default scheduler configuration
func DefaultSchedulerConfig() *SchedulerConfig {
	return &SchedulerConfig{
		Enabled:    true,
		Schedule:   "0 * * * *",
		RunTimeout: 30 * time.Minute,
	}
}

// Scheduler triggers full sync runs on a cron schedule. Overlapping runs
// are skipped rather than queued: a run already holding the rate limiter
// gains nothing from a second one behind it.
type Scheduler struct {
	config       *SchedulerConfig
	orchestrator *Orchestrator
	cron         *cron.Cron
	log          *logger.Logger

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a scheduler driving the orchestrator
func NewScheduler(config *SchedulerConfig, orchestrator *Orchestrator, log *logger.Logger) *Scheduler {
	if config == nil {
		config = DefaultSchedulerConfig()
	}
	if log == nil {
		log = logger.Nop()
	}

	return &Scheduler{
		config:       config,
		orchestrator: orchestrator,
		cron:         cron.New(),
		log:          log,
	}
}

// Start registers the sync job and begins the cron loop
func (s *Scheduler) Start() error {
	if !s.config.Enabled {
		s.log.Info("sync scheduler disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.config.Schedule, s.runOnce); err != nil {
		return fmt.Errorf("invalid sync schedule %q: %w", s.config.Schedule, err)
	}

	s.cron.Start()
	s.log.WithField("schedule", s.config.Schedule).Info("sync scheduler started")
	return nil
}

// Stop halts the cron loop and waits for an in-flight run to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runOnce() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.log.Warn("previous sync run still in progress, skipping")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.config.RunTimeout)
	defer cancel()

	s.orchestrator.SyncAll(ctx)
}
