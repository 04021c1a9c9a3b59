package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/oliveraq/internal/domain/models"
	"github.com/mamadbah2/oliveraq/internal/service/reporting"
)

const jobTimeout = 2 * time.Minute

// Publisher publishes the monthly stock report.
type Publisher interface {
	PublishMonthlyReport(ctx context.Context, source reporting.StockSource) (reporting.PublishResult, error)
}

// Scheduler runs the monthly stock report job.
type Scheduler struct {
	cron      *cron.Cron
	schedule  string
	publisher Publisher
	source    reporting.StockSource
	calendar  models.Calendar
	logger    *zap.Logger
}

// NewScheduler creates a scheduler firing on schedule in loc.
func NewScheduler(schedule string, loc *time.Location, publisher Publisher, source reporting.StockSource, calendar models.Calendar, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		schedule:  schedule,
		publisher: publisher,
		source:    source,
		calendar:  calendar,
		logger:    logger,
	}
}

// Start registers the job and starts the cron loop.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.publishMonthlyReport); err != nil {
		return fmt.Errorf("schedule monthly report %q: %w", s.schedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// publishMonthlyReport runs on every tick but only publishes on the last day of the month.
func (s *Scheduler) publishMonthlyReport() {
	today := s.calendar.Today()
	if !IsLastDayOfMonth(today) {
		s.logger.Debug("skip monthly report, not the last day", zap.String("today", today.String()))
		return
	}

	s.logger.Info("generating monthly stock report")
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	result, err := s.publisher.PublishMonthlyReport(ctx, s.source)
	if err != nil {
		s.logger.Error("failed to publish monthly report", zap.Error(err))
		return
	}
	s.logger.Info("monthly report published", zap.String("period", result.Period), zap.String("file", result.File.Path))
}

// IsLastDayOfMonth reports whether day is the last day of its month.
func IsLastDayOfMonth(day models.Date) bool {
	return day.Equal(day.MonthEnd())
}
