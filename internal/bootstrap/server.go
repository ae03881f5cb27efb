package bootstrap

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/api"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/httpserver"
)

// SetupHTTPServer builds the server with health checks and API routes.
func SetupHTTPServer(deps *Deps, db *DatabaseComponents, redisClient *redis.Client, services *ServiceComponents) *httpserver.Server {
	checker := httpserver.NewChecker()
	checker.Register("database", func(ctx context.Context) error {
		return db.Conn.Ping(ctx)
	})
	checker.Register("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})

	handler := api.NewHandler(
		services.JobService,
		services.Scheduler,
		services.RunStatus,
		deps.Logger,
	)

	return httpserver.New(
		httpserver.Config{
			Port:  deps.Config.Service.Port,
			Debug: deps.Config.Service.Debug,
		},
		deps.Logger,
		checker,
		func(router *gin.Engine) {
			api.RegisterRoutes(router, handler)
		},
	)
}
