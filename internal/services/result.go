package services

import (
	"context"

	"github.com/datapar/analysis-backend/internal/platform/apierr"
	"github.com/datapar/analysis-backend/internal/platform/docstore"
	"github.com/datapar/analysis-backend/internal/platform/logger"

	"github.com/datapar/analysis-backend/internal/data/models"
)

// ResultService records and reads job outputs: MLResult documents for ml
// jobs, Statistics documents for descriptive jobs.
type ResultService interface {
	RecordMLResult(ctx context.Context, jobID string, data docstore.Document) (docstore.Document, error)
	MLResultsByJob(ctx context.Context, jobID string) ([]docstore.Document, error)
	DeleteMLResult(ctx context.Context, id string) error

	RecordStatistics(ctx context.Context, jobID string, data docstore.Document) (docstore.Document, error)
	StatisticsByJob(ctx context.Context, jobID string) ([]docstore.Document, error)
	DeleteStatistics(ctx context.Context, id string) error
}

type resultService struct {
	log        *logger.Logger
	mlResults  *models.MLResultModel
	statistics *models.StatisticsModel
}

func NewResultService(baseLog *logger.Logger, mlResults *models.MLResultModel, statistics *models.StatisticsModel) ResultService {
	return &resultService{
		log:        baseLog.With("service", "ResultService"),
		mlResults:  mlResults,
		statistics: statistics,
	}
}

func (rs *resultService) RecordMLResult(ctx context.Context, jobID string, data docstore.Document) (docstore.Document, error) {
	doc := docstore.Document{"jobId": jobID}
	for _, k := range []string{"modelType", "metrics", "outputFiles"} {
		if v, ok := data[k]; ok {
			doc[k] = v
		}
	}
	return rs.mlResults.Create(ctx, doc)
}

func (rs *resultService) MLResultsByJob(ctx context.Context, jobID string) ([]docstore.Document, error) {
	results, err := rs.mlResults.FindByJobID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []docstore.Document{}
	}
	return results, nil
}

func (rs *resultService) DeleteMLResult(ctx context.Context, id string) error {
	n, err := rs.mlResults.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apierr.NotFound("ml result not found")
	}
	return nil
}

func (rs *resultService) RecordStatistics(ctx context.Context, jobID string, data docstore.Document) (docstore.Document, error) {
	doc := docstore.Document{"jobId": jobID}
	if v, ok := data["statistics"]; ok {
		doc["statistics"] = v
	}
	return rs.statistics.Create(ctx, doc)
}

func (rs *resultService) StatisticsByJob(ctx context.Context, jobID string) ([]docstore.Document, error) {
	stats, err := rs.statistics.FindByJobID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = []docstore.Document{}
	}
	return stats, nil
}

func (rs *resultService) DeleteStatistics(ctx context.Context, id string) error {
	n, err := rs.statistics.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apierr.NotFound("statistics not found")
	}
	return nil
}
