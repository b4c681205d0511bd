package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/datapar/analysis-backend/internal/http/handlers"
	httpMW "github.com/datapar/analysis-backend/internal/http/middleware"
	"github.com/datapar/analysis-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler    *httpH.AuthHandler
	UserHandler    *httpH.UserHandler
	DatasetHandler *httpH.DatasetHandler
	JobHandler     *httpH.JobHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.AttachRequestContext())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.CORS())

	// Health
	r.GET("/healthcheck", httpH.HealthCheck)

	api := r.Group("/api/v1")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/auth/sign-up", cfg.AuthHandler.SignUp)
			api.POST("/auth/sign-in", cfg.AuthHandler.SignIn)
			api.POST("/auth/refresh", cfg.AuthHandler.Refresh)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/auth/sign-out", cfg.AuthHandler.SignOut)
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/user", cfg.UserHandler.GetMe)
		}

		// Datasets
		if cfg.DatasetHandler != nil {
			protected.POST("/dataset/upload", cfg.DatasetHandler.Upload)
			protected.GET("/dataset", cfg.DatasetHandler.ListMine)
			protected.GET("/dataset/:id", cfg.DatasetHandler.Get)
			protected.DELETE("/dataset/:id", cfg.DatasetHandler.Delete)
		}

		// Jobs
		if cfg.JobHandler != nil {
			protected.POST("/job", cfg.JobHandler.Create)
			protected.GET("/job", cfg.JobHandler.List)
			protected.GET("/job/:id", cfg.JobHandler.Get)
			protected.PATCH("/job/:id", cfg.JobHandler.Update)
			protected.DELETE("/job/:id", cfg.JobHandler.Delete)
			protected.POST("/job/:id/ml-results", cfg.JobHandler.RecordMLResult)
			protected.GET("/job/:id/ml-results", cfg.JobHandler.ListMLResults)
			protected.POST("/job/:id/statistics", cfg.JobHandler.RecordStatistics)
			protected.GET("/job/:id/statistics", cfg.JobHandler.ListStatistics)
			protected.DELETE("/ml-results/:id", cfg.JobHandler.DeleteMLResult)
			protected.DELETE("/statistics/:id", cfg.JobHandler.DeleteStatistics)
		}
	}

	return r
}
