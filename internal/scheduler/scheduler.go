// Package scheduler owns when ingestion runs happen: the cron schedule, the
// cross-instance run lock and the persisted last-run report.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/logger"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/pipeline"
)

// ErrRunInProgress is returned when a trigger loses the run lock race.
var ErrRunInProgress = errors.New("an ingestion run is already in progress")

// Ingestor executes one run against caller-owned run state.
type Ingestor interface {
	RunWith(ctx context.Context, rc *pipeline.RunContext)
}

// Locker is the run lease. Exactly one run holds it at a time.
type Locker interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// StatusSink records completed run reports.
type StatusSink interface {
	SaveLast(ctx context.Context, report RunReport) error
}

// Scheduler triggers ingestion runs on a cron schedule and on demand.
// Every trigger path goes through the same lock, so scheduled and manual
// runs can never overlap.
type Scheduler struct {
	cron     *cron.Cron
	runner   Ingestor
	lock     Locker
	status   StatusSink
	log      logger.Logger
	schedule string

	mu      sync.Mutex
	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a scheduler. schedule is a cron spec such as "@every 6h".
func New(runner Ingestor, lock Locker, status StatusSink, schedule string, log logger.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		runner:   runner,
		lock:     lock,
		status:   status,
		log:      log,
		schedule: schedule,
	}
}

// Start registers the cron entry and begins scheduling. runOnStart also
// triggers one run immediately.
func (s *Scheduler) Start(runOnStart bool) error {
	s.mu.Lock()
	s.baseCtx, s.cancel = context.WithCancel(context.Background())
	s.mu.Unlock()

	_, err := s.cron.AddFunc(s.schedule, func() {
		if _, triggerErr := s.Trigger(); triggerErr != nil {
			s.log.Warn("Scheduled run not started", logger.Error(triggerErr))
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("Scheduler started", logger.String("schedule", s.schedule))

	if runOnStart {
		if _, triggerErr := s.Trigger(); triggerErr != nil {
			s.log.Warn("Startup run not started", logger.Error(triggerErr))
		}
	}

	return nil
}

// Trigger starts a run now if the lock is free and returns its run ID.
// The run itself executes in the background.
func (s *Scheduler) Trigger() (string, error) {
	s.mu.Lock()
	ctx := s.baseCtx
	s.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}

	acquired, err := s.lock.Acquire(ctx)
	if err != nil {
		return "", err
	}
	if !acquired {
		return "", ErrRunInProgress
	}

	rc := pipeline.NewRunContext()
	s.wg.Add(1)
	go s.execute(ctx, rc)

	return rc.ID, nil
}

func (s *Scheduler) execute(ctx context.Context, rc *pipeline.RunContext) {
	defer s.wg.Done()
	defer func() {
		if err := s.lock.Release(context.Background()); err != nil {
			s.log.Error("Failed to release run lock", logger.Error(err))
		}
	}()

	s.runner.RunWith(ctx, rc)

	report := RunReport{
		RunID:       rc.ID,
		StartedAt:   rc.StartedAt,
		FinishedAt:  time.Now().UTC(),
		AISuspended: rc.IsAIGenerationSuspended(),
		Stats:       rc.Snapshot(),
	}
	if err := s.status.SaveLast(context.Background(), report); err != nil {
		s.log.Error("Failed to store run report",
			logger.String("run_id", rc.ID),
			logger.Error(err),
		)
	}
}

// Stop halts scheduling, cancels any in-flight run and waits for it to wind
// down.
func (s *Scheduler) Stop() {
	s.cron.Stop()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info("Scheduler stopped")
}
