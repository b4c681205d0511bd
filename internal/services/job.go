package services

import (
	"context"

	"github.com/datapar/analysis-backend/internal/platform/apierr"
	"github.com/datapar/analysis-backend/internal/platform/docstore"
	"github.com/datapar/analysis-backend/internal/platform/logger"

	"github.com/datapar/analysis-backend/internal/data/models"
)

type JobInput struct {
	DatasetID     string
	JobType       string
	SubType       string
	Parameters    map[string]any
	ClusterConfig any
}

type JobService interface {
	Create(ctx context.Context, input JobInput) (docstore.Document, error)
	GetByID(ctx context.Context, id string) (docstore.Document, error)
	ListByDataset(ctx context.Context, datasetID string) ([]docstore.Document, error)
	ListByStatus(ctx context.Context, status string) ([]docstore.Document, error)
	UpdateByID(ctx context.Context, id string, updates docstore.Document) (docstore.Document, error)
	DeleteByID(ctx context.Context, id string) error
}

type jobService struct {
	log  *logger.Logger
	jobs *models.JobModel
}

func NewJobService(baseLog *logger.Logger, jobs *models.JobModel) JobService {
	return &jobService{
		log:  baseLog.With("service", "JobService"),
		jobs: jobs,
	}
}

// Create runs both validators: the job-type-specific parameter gate first,
// then the generic job schema inside the model. A job is well-formed only
// when both pass.
func (js *jobService) Create(ctx context.Context, input JobInput) (docstore.Document, error) {
	parameters := input.Parameters
	if parameters == nil {
		parameters = map[string]any{}
	}
	if err := ValidateJobParameters(input.JobType, input.SubType, parameters); err != nil {
		return nil, err
	}
	doc := docstore.Document{
		"datasetId":  input.DatasetID,
		"jobType":    input.JobType,
		"parameters": parameters,
	}
	if input.ClusterConfig != nil {
		doc["clusterConfig"] = input.ClusterConfig
	}
	job, err := js.jobs.Create(ctx, doc)
	if err != nil {
		return nil, err
	}
	js.log.Info("Job created",
		"job_id", job[docstore.IDField],
		"dataset_id", input.DatasetID,
		"job_type", input.JobType,
	)
	return job, nil
}

func (js *jobService) GetByID(ctx context.Context, id string) (docstore.Document, error) {
	job, err := js.jobs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apierr.NotFound("job not found")
	}
	return job, nil
}

func (js *jobService) ListByDataset(ctx context.Context, datasetID string) ([]docstore.Document, error) {
	jobs, err := js.jobs.FindByDatasetID(ctx, datasetID)
	if err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []docstore.Document{}
	}
	return jobs, nil
}

func (js *jobService) ListByStatus(ctx context.Context, status string) ([]docstore.Document, error) {
	jobs, err := js.jobs.FindByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []docstore.Document{}
	}
	return jobs, nil
}

func (js *jobService) UpdateByID(ctx context.Context, id string, updates docstore.Document) (docstore.Document, error) {
	job, err := js.jobs.UpdateByID(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apierr.NotFound("job not found")
	}
	return job, nil
}

func (js *jobService) DeleteByID(ctx context.Context, id string) error {
	n, err := js.jobs.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apierr.NotFound("job not found")
	}
	return nil
}
