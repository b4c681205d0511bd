package models

import (
	"context"

	"github.com/datapar/analysis-backend/internal/platform/docid"
	"github.com/datapar/analysis-backend/internal/platform/docstore"
	"github.com/datapar/analysis-backend/internal/platform/logger"

	"github.com/datapar/analysis-backend/internal/data/schema"
)

// AllowedFileTypes are the upload extensions a dataset may carry.
var AllowedFileTypes = []string{"pdf", "csv", "txt", "json"}

var datasetSchema = schema.Schema{
	{Name: "userId", Rule: schema.String{Required: true}},
	{Name: "fileName", Rule: schema.String{Required: true}},
	{Name: "fileType", Rule: schema.Enum{Values: fileTypeValues()}, HasDefault: true},
	{Name: "fileSize", Rule: schema.Number{}},
	{Name: "storagePath", Rule: schema.String{Required: true}},
	{Name: "uploadDate", Rule: schema.String{}, HasDefault: true},
	{Name: "status", Rule: schema.Enum{Values: []any{"uploaded", "failed"}}, HasDefault: true},
}

func fileTypeValues() []any {
	values := make([]any, len(AllowedFileTypes))
	for i, t := range AllowedFileTypes {
		values[i] = t
	}
	return values
}

type DatasetModel struct {
	col *docstore.Collection
	log *logger.Logger
}

func NewDatasetModel(store *docstore.Store, baseLog *logger.Logger) *DatasetModel {
	return &DatasetModel{
		col: store.Collection(DatasetsCollection),
		log: baseLog.With("model", "DatasetModel"),
	}
}

func (m *DatasetModel) Create(ctx context.Context, data docstore.Document) (docstore.Document, error) {
	if err := schema.Validate(data, datasetSchema, schema.ModeCreate); err != nil {
		return nil, err
	}
	doc := withID(data, docid.New())
	schema.ApplyDefaults(doc, map[string]any{
		"fileType":   "csv",
		"status":     "uploaded",
		"uploadDate": timestamp(),
	})
	return m.col.Insert(ctx, doc)
}

func (m *DatasetModel) FindByID(ctx context.Context, id string) (docstore.Document, error) {
	return m.col.FindOne(ctx, docstore.Document{docstore.IDField: id})
}

func (m *DatasetModel) FindByUserID(ctx context.Context, userID string) ([]docstore.Document, error) {
	return m.col.Find(ctx, docstore.Document{"userId": userID})
}

func (m *DatasetModel) UpdateByID(ctx context.Context, id string, updates docstore.Document) (docstore.Document, error) {
	if err := schema.Validate(updates, datasetSchema, schema.ModeUpdate); err != nil {
		return nil, err
	}
	res, err := m.col.Update(ctx, docstore.Document{docstore.IDField: id}, updates, docstore.UpdateOptions{ReturnUpdated: true})
	if err != nil {
		return nil, err
	}
	return firstOrNil(res.Docs), nil
}

func (m *DatasetModel) DeleteByID(ctx context.Context, id string) (int, error) {
	return m.col.Remove(ctx, docstore.Document{docstore.IDField: id})
}
