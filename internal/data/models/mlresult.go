package models

import (
	"context"

	"github.com/datapar/analysis-backend/internal/platform/docid"
	"github.com/datapar/analysis-backend/internal/platform/docstore"
	"github.com/datapar/analysis-backend/internal/platform/logger"

	"github.com/datapar/analysis-backend/internal/data/schema"
)

var mlResultSchema = schema.Schema{
	{Name: "jobId", Rule: schema.String{Required: true}},
	{Name: "modelType", Rule: schema.String{}, Skip: true},
	{Name: "metrics", Rule: schema.Object{}, HasDefault: true},
	{Name: "outputFiles", Rule: schema.Array{Elements: schema.ElementString}, HasDefault: true},
	{Name: "createdAt", Rule: schema.String{}, HasDefault: true},
}

type MLResultModel struct {
	col *docstore.Collection
	log *logger.Logger
}

func NewMLResultModel(store *docstore.Store, baseLog *logger.Logger) *MLResultModel {
	return &MLResultModel{
		col: store.Collection(MLResultsCollection),
		log: baseLog.With("model", "MLResultModel"),
	}
}

func (m *MLResultModel) Create(ctx context.Context, data docstore.Document) (docstore.Document, error) {
	if err := schema.Validate(data, mlResultSchema, schema.ModeCreate); err != nil {
		return nil, err
	}
	doc := withID(data, docid.New())
	schema.ApplyDefaults(doc, map[string]any{
		"metrics":     map[string]any{},
		"outputFiles": []any{},
		"createdAt":   timestamp(),
	})
	return m.col.Insert(ctx, doc)
}

func (m *MLResultModel) FindByID(ctx context.Context, id string) (docstore.Document, error) {
	return m.col.FindOne(ctx, docstore.Document{docstore.IDField: id})
}

func (m *MLResultModel) FindByJobID(ctx context.Context, jobID string) ([]docstore.Document, error) {
	return m.col.Find(ctx, docstore.Document{"jobId": jobID})
}

func (m *MLResultModel) UpdateByID(ctx context.Context, id string, updates docstore.Document) (docstore.Document, error) {
	if err := schema.Validate(updates, mlResultSchema, schema.ModeUpdate); err != nil {
		return nil, err
	}
	res, err := m.col.Update(ctx, docstore.Document{docstore.IDField: id}, updates, docstore.UpdateOptions{ReturnUpdated: true})
	if err != nil {
		return nil, err
	}
	return firstOrNil(res.Docs), nil
}

func (m *MLResultModel) DeleteByID(ctx context.Context, id string) (int, error) {
	return m.col.Remove(ctx, docstore.Document{docstore.IDField: id})
}
