package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/EliteSamurai/RehabFlow-sub000/internal/engine"
	"github.com/EliteSamurai/RehabFlow-sub000/pkg/logger"
)

// Runner is the dispatch entry the scheduler fires on each tick.
type Runner interface {
	Run(ctx context.Context, opts engine.RunOptions) (*engine.Report, error)
}

// Scheduler drives dispatch runs on a fixed interval for deployments
// without an external cron. The run lock inside the engine makes an
// overlap with an external trigger safe either way.
type Scheduler struct {
	runner   Runner
	interval time.Duration

	ticker       *time.Ticker
	stopChan     chan struct{}
	isRunning    bool
	runningMutex sync.Mutex
}

func New(runner Runner, interval time.Duration) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (s *Scheduler) Start() error {
	s.runningMutex.Lock()
	defer s.runningMutex.Unlock()

	if s.isRunning {
		return nil
	}

	s.ticker = time.NewTicker(s.interval)
	s.isRunning = true

	go func() {
		s.fire()
		for {
			select {
			case <-s.ticker.C:
				s.fire()
			case <-s.stopChan:
				s.ticker.Stop()
				return
			}
		}
	}()

	logger.Info("scheduler started", "interval", s.interval.String())
	return nil
}

func (s *Scheduler) fire() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	report, err := s.runner.Run(ctx, engine.RunOptions{})
	if err != nil {
		if errors.Is(err, engine.ErrRunInProgress) {
			return
		}
		logger.Error("scheduler: dispatch run failed", "error", err)
		return
	}
	logger.Info("scheduler: dispatch run finished",
		"processed", report.Processed, "pending", report.Pending, "errors", len(report.Errors))
}

func (s *Scheduler) Stop() error {
	s.runningMutex.Lock()
	defer s.runningMutex.Unlock()

	if !s.isRunning {
		return nil
	}

	s.stopChan <- struct{}{}
	s.isRunning = false
	return nil
}

func (s *Scheduler) IsRunning() bool {
	s.runningMutex.Lock()
	defer s.runningMutex.Unlock()
	return s.isRunning
}
