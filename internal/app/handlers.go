package app

import (
	httpH "github.com/datapar/analysis-backend/internal/http/handlers"
	"github.com/datapar/analysis-backend/internal/platform/logger"
)

type Handlers struct {
	Auth    *httpH.AuthHandler
	User    *httpH.UserHandler
	Dataset *httpH.DatasetHandler
	Job     *httpH.JobHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:    httpH.NewAuthHandler(services.Auth, services.User),
		User:    httpH.NewUserHandler(services.User),
		Dataset: httpH.NewDatasetHandler(services.Dataset),
		Job:     httpH.NewJobHandler(services.Job, services.Result),
	}
}
