package app

import (
	httpX "github.com/datapar/analysis-backend/internal/http"
	"github.com/datapar/analysis-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, handlers Handlers, middleware Middleware) *httpX.Server {
	return httpX.NewServer(httpX.RouterConfig{
		Log:            log,
		AuthMiddleware: middleware.Auth,
		AuthHandler:    handlers.Auth,
		UserHandler:    handlers.User,
		DatasetHandler: handlers.Dataset,
		JobHandler:     handlers.Job,
	})
}
