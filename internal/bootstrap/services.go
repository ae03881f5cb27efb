package bootstrap

import (
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/ai"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/collector"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/extraction"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/fetch"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/pipeline"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/scheduler"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/service"
)

// ServiceComponents groups the ingestion pipeline and read services.
type ServiceComponents struct {
	Runner     *pipeline.Runner
	Scheduler  *scheduler.Scheduler
	RunStatus  *scheduler.RedisStatus
	JobService *service.JobService
}

// SetupServices wires the collectors, the extraction pipeline, the run
// scheduler and the read services.
func SetupServices(deps *Deps, db *DatabaseComponents, redisClient *redis.Client) (*ServiceComponents, error) {
	cfg := deps.Config

	generator, err := ai.NewAnthropicGenerator(ai.Config{
		APIKey:         cfg.AI.APIKey,
		RequestTimeout: cfg.AI.RequestTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create ai generator: %w", err)
	}

	orchestrator := extraction.New(generator, deps.Logger, extraction.Config{
		PrimaryModel:  cfg.AI.Model,
		FallbackModel: cfg.AI.FallbackModel,
		MaxTokens:     cfg.AI.MaxTokens,
		RejectInvalid: cfg.Ingest.RejectInvalid,
	})

	runner := pipeline.NewRunner(
		collector.FromConfig(cfg.Sources),
		fetch.New(cfg.Ingest.FetchTimeout, deps.Logger),
		orchestrator,
		db.ArchiveRepo,
		db.JobRepo,
		deps.Logger,
		cfg.Ingest,
	)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = cfg.Service.Name
	}

	lock := scheduler.NewRedisLock(redisClient, hostname, cfg.Ingest.RunLockTTL)
	status := scheduler.NewRedisStatus(redisClient)
	sched := scheduler.New(runner, lock, status, cfg.Ingest.Schedule, deps.Logger)

	return &ServiceComponents{
		Runner:     runner,
		Scheduler:  sched,
		RunStatus:  status,
		JobService: service.NewJobService(db.JobRepo, deps.Logger),
	}, nil
}
