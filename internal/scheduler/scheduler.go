package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"khetibook/internal/config"
	"khetibook/internal/service/reporting"
	"khetibook/internal/service/session"
)

// Scheduler manages the recurring reporting jobs.
type Scheduler struct {
	cron         *cron.Cron
	reportingSvc *reporting.Service
	cfg          config.ReportingConfig
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance. Jobs run in the configured
// timezone; an unknown timezone falls back to the local one.
func NewScheduler(cfg config.ReportingConfig, reportingSvc *reporting.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, using local", zap.String("timezone", cfg.Timezone), zap.Error(err))
		location = time.Local
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(location)),
		reportingSvc: reportingSvc,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers the reporting job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runDailyReporting); err != nil {
		s.logger.Error("failed to schedule daily reporting", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runDailyReporting() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.reportingSvc.CaptureDailySnapshot(ctx); err != nil {
		if errors.Is(err, session.ErrNotSignedIn) {
			return
		}
		s.logger.Error("failed to capture daily snapshot", zap.Error(err))
	}

	if _, err := s.reportingSvc.ExportTransactions(ctx); err != nil {
		if errors.Is(err, session.ErrNotSignedIn) {
			return
		}
		s.logger.Error("failed to export transactions", zap.Error(err))
	}
}
