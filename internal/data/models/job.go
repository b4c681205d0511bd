package models

import (
	"context"

	"github.com/datapar/analysis-backend/internal/platform/docid"
	"github.com/datapar/analysis-backend/internal/platform/docstore"
	"github.com/datapar/analysis-backend/internal/platform/logger"

	"github.com/datapar/analysis-backend/internal/data/schema"
)

var jobStatusRule = schema.Enum{Values: []any{"pending", "processing", "completed", "failed"}}

var jobSchema = schema.Schema{
	{Name: "datasetId", Rule: schema.String{Required: true}},
	{Name: "jobType", Rule: schema.Enum{Required: true, Values: []any{"descriptive", "ml"}}},
	{Name: "parameters", Rule: schema.Object{}},
	{Name: "status", Rule: jobStatusRule, HasDefault: true},
	{Name: "resultsPath", Rule: schema.String{}, Skip: true},
	{Name: "clusterConfig", Rule: schema.Enum{Required: true, Values: []any{1, 2, 4}}},
	{Name: "executionTimes", Rule: schema.Object{}, HasDefault: true},
	{Name: "speedup", Rule: schema.Object{}, HasDefault: true},
	{Name: "efficiency", Rule: schema.Object{}, HasDefault: true},
	{Name: "createdAt", Rule: schema.String{}, HasDefault: true},
	{Name: "completedAt", Rule: schema.String{}, Skip: true},
}

type JobModel struct {
	col *docstore.Collection
	log *logger.Logger
}

func NewJobModel(store *docstore.Store, baseLog *logger.Logger) *JobModel {
	return &JobModel{
		col: store.Collection(JobsCollection),
		log: baseLog.With("model", "JobModel"),
	}
}

func (m *JobModel) Create(ctx context.Context, data docstore.Document) (docstore.Document, error) {
	if err := schema.Validate(data, jobSchema, schema.ModeCreate); err != nil {
		return nil, err
	}
	doc := withID(data, docid.New())
	schema.ApplyDefaults(doc, map[string]any{
		"status":         "pending",
		"createdAt":      timestamp(),
		"executionTimes": map[string]any{},
		"speedup":        map[string]any{},
		"efficiency":     map[string]any{},
	})
	return m.col.Insert(ctx, doc)
}

func (m *JobModel) FindByID(ctx context.Context, id string) (docstore.Document, error) {
	return m.col.FindOne(ctx, docstore.Document{docstore.IDField: id})
}

func (m *JobModel) FindByDatasetID(ctx context.Context, datasetID string) ([]docstore.Document, error) {
	return m.col.Find(ctx, docstore.Document{"datasetId": datasetID})
}

func (m *JobModel) FindByStatus(ctx context.Context, status string) ([]docstore.Document, error) {
	statusOnly := schema.Schema{{Name: "status", Rule: jobStatusRule}}
	if err := schema.Validate(docstore.Document{"status": status}, statusOnly, schema.ModeCreate); err != nil {
		return nil, err
	}
	return m.col.Find(ctx, docstore.Document{"status": status})
}

func (m *JobModel) UpdateByID(ctx context.Context, id string, updates docstore.Document) (docstore.Document, error) {
	if err := schema.Validate(updates, jobSchema, schema.ModeUpdate); err != nil {
		return nil, err
	}
	set := clone(updates)
	set["updatedAt"] = timestamp()
	res, err := m.col.Update(ctx, docstore.Document{docstore.IDField: id}, set, docstore.UpdateOptions{ReturnUpdated: true})
	if err != nil {
		return nil, err
	}
	return firstOrNil(res.Docs), nil
}

func (m *JobModel) DeleteByID(ctx context.Context, id string) (int, error) {
	return m.col.Remove(ctx, docstore.Document{docstore.IDField: id})
}
