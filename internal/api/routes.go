package api

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts all API endpoints under /api/v1.
func RegisterRoutes(router *gin.Engine, h *Handler) {
	v1 := router.Group("/api/v1")

	jobs := v1.Group("/jobs")
	jobs.GET("", h.ListJobs)
	jobs.GET("/search", h.SearchJobs)
	jobs.GET("/slug/:slug", h.GetJobBySlug)
	jobs.GET("/:id", h.GetJob)

	ingest := v1.Group("/ingest")
	ingest.POST("/runs", h.TriggerRun)
	ingest.GET("/runs/last", h.LastRun)
}
