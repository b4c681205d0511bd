package app

import (
	"github.com/datapar/analysis-backend/internal/data/models"
	"github.com/datapar/analysis-backend/internal/platform/docstore"
	"github.com/datapar/analysis-backend/internal/platform/logger"
)

type Models struct {
	Users      *models.UserModel
	Datasets   *models.DatasetModel
	Jobs       *models.JobModel
	MLResults  *models.MLResultModel
	Statistics *models.StatisticsModel
}

func wireModels(store *docstore.Store, log *logger.Logger) Models {
	log.Info("Wiring models...")
	return Models{
		Users:      models.NewUserModel(store, log),
		Datasets:   models.NewDatasetModel(store, log),
		Jobs:       models.NewJobModel(store, log),
		MLResults:  models.NewMLResultModel(store, log),
		Statistics: models.NewStatisticsModel(store, log),
	}
}
