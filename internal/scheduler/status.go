package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/pipeline"
)

// Redis keys for run status.
const (
	lastRunKey = "ingest:run:last"
	// lastRunTTL keeps the report around long past the next scheduled run.
	lastRunTTL = 7 * 24 * time.Hour
)

// ErrNoRunYet is returned when no run has completed since the key expired.
var ErrNoRunYet = errors.New("no completed run on record")

// RunReport is the persisted summary of one completed run.
type RunReport struct {
	RunID       string         `json:"run_id"`
	StartedAt   time.Time      `json:"started_at"`
	FinishedAt  time.Time      `json:"finished_at"`
	AISuspended bool           `json:"ai_suspended"`
	Stats       pipeline.Stats `json:"stats"`
}

// RedisStatus stores the most recent run report in redis.
type RedisStatus struct {
	client *redis.Client
}

// NewRedisStatus creates a run status store.
func NewRedisStatus(client *redis.Client) *RedisStatus {
	return &RedisStatus{client: client}
}

// SaveLast overwrites the stored report with this run's summary.
func (s *RedisStatus) SaveLast(ctx context.Context, report RunReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal run report: %w", err)
	}

	if err := s.client.Set(ctx, lastRunKey, data, lastRunTTL).Err(); err != nil {
		return fmt.Errorf("store run report: %w", err)
	}
	return nil
}

// LastRun returns the most recent run report, or ErrNoRunYet.
func (s *RedisStatus) LastRun(ctx context.Context) (*RunReport, error) {
	data, err := s.client.Get(ctx, lastRunKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoRunYet
	}
	if err != nil {
		return nil, fmt.Errorf("load run report: %w", err)
	}

	var report RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("unmarshal run report: %w", err)
	}
	return &report, nil
}
