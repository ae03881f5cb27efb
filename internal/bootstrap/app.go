// Package bootstrap handles application initialization and lifecycle for the
// ingestion service.
//
// The bootstrap process follows these phases:
//   - Phase 1: Config & Logger
//   - Phase 2: Database - PostgreSQL connection and repositories
//   - Phase 3: Redis - run lock and run status store
//   - Phase 4: Services - collectors, extraction pipeline, scheduler
//   - Phase 5: Server - HTTP server with API, health and metrics
//   - Phase 6: Run - schedule runs and wait for interrupt
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/logger"
)

// Start initializes the service and blocks until interrupt or fatal error.
func Start() error {
	// Phase 1: config and logger
	deps, err := NewDeps()
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}
	defer func() { _ = deps.Logger.Sync() }()

	// Phase 2: database
	db, err := SetupDatabase(deps)
	if err != nil {
		return fmt.Errorf("setup database: %w", err)
	}
	defer db.Conn.Close()

	// Phase 3: redis
	redisClient, err := SetupRedis(deps)
	if err != nil {
		return fmt.Errorf("setup redis: %w", err)
	}
	defer redisClient.Close()

	// Phase 4: services
	services, err := SetupServices(deps, db, redisClient)
	if err != nil {
		return fmt.Errorf("setup services: %w", err)
	}

	// Phase 5: HTTP server
	server := SetupHTTPServer(deps, db, redisClient, services)

	// Phase 6: run
	if startErr := services.Scheduler.Start(deps.Config.Ingest.RunOnStart); startErr != nil {
		return fmt.Errorf("start scheduler: %w", startErr)
	}

	errCh := server.StartAsync()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case serveErr := <-errCh:
		services.Scheduler.Stop()
		return serveErr
	case sig := <-sigCh:
		deps.Logger.Info("Shutdown signal received", logger.String("signal", sig.String()))
	}

	services.Scheduler.Stop()
	if shutdownErr := server.Shutdown(context.Background()); shutdownErr != nil {
		return shutdownErr
	}

	return nil
}
