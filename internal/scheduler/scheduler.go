package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"webhook-inbox-go/internal/config"
	metricsPkg "webhook-inbox-go/internal/metrics"
)

// MessageCounter reports how many messages are stored
type MessageCounter interface {
	Count(ctx context.Context) (int64, error)
}

// Scheduler periodically refreshes the stored-messages gauge
type Scheduler struct {
	cron      *cron.Cron
	entryID   cron.EntryID
	config    *config.SchedulerConfig
	counter   MessageCounter
	metrics   *metricsPkg.Metrics
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning bool
	mu        sync.RWMutex
}

// New creates a new scheduler
func New(cfg *config.SchedulerConfig, counter MessageCounter, metrics *metricsPkg.Metrics) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		config:  cfg,
		counter: counter,
		metrics: metrics,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	schedule := fmt.Sprintf("@every %ds", s.config.StatsRefreshSeconds)

	entryID, err := s.cron.AddFunc(schedule, s.refreshStats)
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.entryID = entryID
	s.cron.Start()
	s.isRunning = true

	logrus.Infof("Scheduler started with interval: %d seconds", s.config.StatsRefreshSeconds)
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	// Cancel context to stop any running refresh
	s.cancel()

	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
		logrus.Info("Scheduler stopped gracefully")
	case <-time.After(30 * time.Second):
		logrus.Warn("Scheduler stop timeout, forcing shutdown")
	}

	s.cron.Remove(s.entryID)
	s.isRunning = false
	return nil
}

// IsRunning returns whether the scheduler is running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *Scheduler) refreshStats() {
	s.mu.RLock()
	if !s.isRunning {
		s.mu.RUnlock()
		return
	}
	ctx := s.ctx
	s.mu.RUnlock()

	s.refresh(ctx)
}

func (s *Scheduler) refresh(ctx context.Context) {
	s.wg.Add(1)
	defer s.wg.Done()

	total, err := s.counter.Count(ctx)
	if err != nil {
		logrus.Errorf("Failed to refresh stored message count: %v", err)
		return
	}

	s.metrics.MessagesStored.Set(float64(total))
	logrus.Debugf("Stored message count refreshed: %d", total)
}

// RunOnce refreshes the gauge immediately
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.refresh(ctx)
}

// GetNextRun returns the time of the next scheduled run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isRunning {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// GetLastRun returns the time of the last run
func (s *Scheduler) GetLastRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isRunning {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Prev
}

// Wait waits for in-flight refreshes to finish
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
