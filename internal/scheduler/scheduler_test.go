package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"webhook-inbox-go/internal/config"
	"webhook-inbox-go/internal/metrics"
)

// dummyCounter implements MessageCounter with a fixed answer
type dummyCounter struct {
	total int64
	err   error
}

func (d *dummyCounter) Count(ctx context.Context) (int64, error) { return d.total, d.err }

func TestSchedulerRestart(t *testing.T) {
	cfg := &config.SchedulerConfig{StatsRefreshSeconds: 3600}
	sched := New(cfg, &dummyCounter{}, metrics.NewMetrics(prometheus.NewRegistry()))

	if err := sched.Start(); err != nil {
		t.Fatalf("first start failed: %v", err)
	}
	if !sched.IsRunning() {
		t.Fatalf("scheduler should be running after Start")
	}
	if err := sched.Start(); err == nil {
		t.Fatalf("second start while running should fail")
	}
	if sched.GetNextRun().IsZero() {
		t.Fatalf("next run should be scheduled")
	}
	if err := sched.Stop(); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if sched.IsRunning() {
		t.Fatalf("scheduler should not be running after Stop")
	}
	if !sched.GetNextRun().IsZero() {
		t.Fatalf("stopped scheduler should report no next run")
	}
	if err := sched.Start(); err != nil {
		t.Fatalf("second start failed: %v", err)
	}
	if !sched.IsRunning() {
		t.Fatalf("scheduler should be running after second Start")
	}
	// context should be active
	if sched.ctx == nil || sched.ctx.Err() != nil {
		t.Fatalf("scheduler context should be active after restart")
	}
	if got := len(sched.cron.Entries()); got != 1 {
		t.Fatalf("expected exactly one cron entry after restart, got %d", got)
	}
	sched.Stop()
}

func TestRunOnceSetsGauge(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	counter := &dummyCounter{total: 12}
	sched := New(&config.SchedulerConfig{StatsRefreshSeconds: 60}, counter, m)

	sched.RunOnce(context.Background())
	assert.Equal(t, 12.0, testutil.ToFloat64(m.MessagesStored))

	// a failing count keeps the previous value
	counter.err = errors.New("database is locked")
	sched.RunOnce(context.Background())
	sched.Wait()
	assert.Equal(t, 12.0, testutil.ToFloat64(m.MessagesStored))
}
