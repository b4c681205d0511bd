package app

import (
	"github.com/datapar/analysis-backend/internal/platform/logger"
	"github.com/datapar/analysis-backend/internal/platform/objstore"
	"github.com/datapar/analysis-backend/internal/services"
)

type Services struct {
	Auth    services.AuthService
	User    services.UserService
	Dataset services.DatasetService
	Job     services.JobService
	Result  services.ResultService
}

func wireServices(log *logger.Logger, cfg Config, m Models, objects objstore.Client) Services {
	log.Info("Wiring services...")

	revoked := services.NewMemoryRevocations()

	authService := services.NewAuthService(
		log,
		m.Users,
		revoked,
		cfg.AccessSecret,
		cfg.RefreshSecret,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
	)

	return Services{
		Auth:    authService,
		User:    services.NewUserService(log, m.Users),
		Dataset: services.NewDatasetService(log, m.Datasets, objects),
		Job:     services.NewJobService(log, m.Jobs),
		Result:  services.NewResultService(log, m.MLResults, m.Statistics),
	}
}
