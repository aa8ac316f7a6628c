// Package scheduler runs the ingestion cycle on a fixed interval and
// prunes stored articles past the retention window after each run.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	ingestService "github.com/reshetovitsme/rss-digest-feed/internal/modules/ingest/service"
)

// CycleRunner runs one ingestion cycle.
type CycleRunner interface {
	RunCycle(ctx context.Context) (*ingestService.Report, error)
}

// Pruner deletes articles created before the cutoff.
type Pruner interface {
	DeleteOlderThan(cutoff time.Time) (int, error)
}

// Scheduler drives periodic ingestion runs
type Scheduler struct {
	runner    CycleRunner
	pruner    Pruner
	interval  time.Duration
	retention time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new scheduler. A retention of zero disables pruning.
func New(runner CycleRunner, pruner Pruner, interval, retention time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		runner:    runner,
		pruner:    pruner,
		interval:  interval,
		retention: retention,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start begins the periodic run loop
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.runLoop()
}

// Stop stops the scheduler and waits for an in-flight run to finish
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) runLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Initial run
	s.runOnce()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.runOnce()
		}
	}
}

func (s *Scheduler) runOnce() {
	report, err := s.runner.RunCycle(s.ctx)
	if err != nil {
		slog.Error("Scheduled ingestion cycle failed", "error", err)
		return
	}
	slog.Info("Scheduled ingestion cycle finished",
		"processed", report.ProcessedCount,
		"new", report.NewArticlesCount,
		"errors", report.ErrorCount)

	if s.retention <= 0 {
		return
	}
	cutoff := time.Now().UTC().Add(-s.retention)
	deleted, err := s.pruner.DeleteOlderThan(cutoff)
	if err != nil {
		slog.Error("Retention pruning failed", "error", err)
		return
	}
	if deleted > 0 {
		slog.Info("Pruned old articles", "deleted", deleted, "cutoff", cutoff)
	}
}
