package scheduler

import (
	"context"
	"fmt"
	"time"

	"StockPredictor/internal/metrics"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher is the job the scheduler runs.
type Refresher interface {
	Refresh(ctx context.Context) (int, error)
}

// Scheduler manages the periodic data refresh.
type Scheduler struct {
	Cron      *cron.Cron
	Refresher Refresher
	Metrics   *metrics.Metrics
	Log       *zap.Logger
	Ctx       context.Context
	Timeout   time.Duration
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, r Refresher, m *metrics.Metrics, log *zap.Logger) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Refresher: r,
		Metrics:   m,
		Log:       log,
		Ctx:       ctx,
		Timeout:   2 * time.Minute,
	}
}

// Register adds the refresh job on the given six-field cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info("scheduler started", zap.Int("jobs", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info("scheduler stopped")
}

// RunNow executes the refresh task immediately (RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	ctx, cancel := context.WithTimeout(s.Ctx, s.Timeout)
	defer cancel()

	s.Log.Info("running data refresh")
	rows, err := s.Refresher.Refresh(ctx)
	if err != nil {
		s.Log.Error("data refresh failed", zap.Error(err))
		s.Metrics.RefreshTotal.WithLabelValues("error").Inc()
		return
	}
	s.Metrics.RefreshTotal.WithLabelValues("success").Inc()
	s.Metrics.RefreshLastUnix.SetToCurrentTime()
	s.Log.Debug("data refresh done", zap.Int("rows", rows))
}
