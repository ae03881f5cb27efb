// Package collector defines the source collector contract and the generic
// listing-page collector. Site-specific selector details stay behind the
// Collector interface so the pipeline never depends on page structure.
package collector

import (
	"context"

	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/domain"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/logger"
)

// Collector produces the current list of announcements from one source.
// Collect is best-effort: implementations return an error instead of
// panicking, and the caller isolates the failure to that source.
type Collector interface {
	Name() string
	Collect(ctx context.Context) ([]domain.Notice, error)
}

// CollectAll invokes every collector sequentially and concatenates the
// results. A failing source is logged and contributes zero notices; it
// never aborts the run.
func CollectAll(ctx context.Context, collectors []Collector, log logger.Logger) []domain.Notice {
	var notices []domain.Notice

	for _, c := range collectors {
		if ctx.Err() != nil {
			break
		}

		found, err := c.Collect(ctx)
		if err != nil {
			log.Error("Collector failed, skipping source",
				logger.String("source", c.Name()),
				logger.Error(err),
			)
			continue
		}

		log.Info("Collected notices",
			logger.String("source", c.Name()),
			logger.Int("count", len(found)),
		)
		notices = append(notices, found...)
	}

	return notices
}
