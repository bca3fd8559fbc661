package http

import (
	"github.com/gin-gonic/gin"
)

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(SecurityHeadersMiddleware())

	health := NewHealthController(cfg.Database, cfg.Queue, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")

	if cfg.Runs != nil {
		runs := NewRunsController(cfg.Runs)
		api.GET("/runs", runs.ListRuns)
		api.GET("/runs/:id", runs.GetRun)
	}

	convert := NewConvertController(cfg.Runner, cfg.Queue)
	api.POST("/convert/:source", convert.Convert)

	if cfg.Queue != nil {
		tasksController := NewTasksController(cfg.Queue)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
	}

	return router
}
