package bootstrap

import (
	"fmt"

	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/config"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/logger"
)

// defaultConfigPath is used when CONFIG_PATH is not set.
const defaultConfigPath = "config.yml"

// Deps carries the foundation every later phase needs.
type Deps struct {
	Config *config.Config
	Logger logger.Logger
}

// NewDeps loads configuration and creates the logger.
func NewDeps() (*Deps, error) {
	cfg, err := config.Load(config.GetConfigPath(defaultConfigPath))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	log.Info("Configuration loaded",
		logger.String("service", cfg.Service.Name),
		logger.String("version", cfg.Service.Version),
		logger.Int("sources", len(cfg.Sources)),
	)

	return &Deps{Config: cfg, Logger: log}, nil
}
