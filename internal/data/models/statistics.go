package models

import (
	"context"

	"github.com/datapar/analysis-backend/internal/platform/docid"
	"github.com/datapar/analysis-backend/internal/platform/docstore"
	"github.com/datapar/analysis-backend/internal/platform/logger"

	"github.com/datapar/analysis-backend/internal/data/schema"
)

var statisticsSchema = schema.Schema{
	{Name: "jobId", Rule: schema.String{Required: true}},
	{Name: "statistics", Rule: schema.Object{}, HasDefault: true},
	{Name: "createdAt", Rule: schema.String{}, HasDefault: true},
}

type StatisticsModel struct {
	col *docstore.Collection
	log *logger.Logger
}

func NewStatisticsModel(store *docstore.Store, baseLog *logger.Logger) *StatisticsModel {
	return &StatisticsModel{
		col: store.Collection(StatisticsCollection),
		log: baseLog.With("model", "StatisticsModel"),
	}
}

func (m *StatisticsModel) Create(ctx context.Context, data docstore.Document) (docstore.Document, error) {
	if err := schema.Validate(data, statisticsSchema, schema.ModeCreate); err != nil {
		return nil, err
	}
	doc := withID(data, docid.New())
	schema.ApplyDefaults(doc, map[string]any{
		"statistics": map[string]any{},
		"createdAt":  timestamp(),
	})
	return m.col.Insert(ctx, doc)
}

func (m *StatisticsModel) FindByID(ctx context.Context, id string) (docstore.Document, error) {
	return m.col.FindOne(ctx, docstore.Document{docstore.IDField: id})
}

func (m *StatisticsModel) FindByJobID(ctx context.Context, jobID string) ([]docstore.Document, error) {
	return m.col.Find(ctx, docstore.Document{"jobId": jobID})
}

func (m *StatisticsModel) UpdateByID(ctx context.Context, id string, updates docstore.Document) (docstore.Document, error) {
	if err := schema.Validate(updates, statisticsSchema, schema.ModeUpdate); err != nil {
		return nil, err
	}
	res, err := m.col.Update(ctx, docstore.Document{docstore.IDField: id}, updates, docstore.UpdateOptions{ReturnUpdated: true})
	if err != nil {
		return nil, err
	}
	return firstOrNil(res.Docs), nil
}

func (m *StatisticsModel) DeleteByID(ctx context.Context, id string) (int, error) {
	return m.col.Remove(ctx, docstore.Document{docstore.IDField: id})
}
