package services

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/datapar/analysis-backend/internal/platform/apierr"
	"github.com/datapar/analysis-backend/internal/platform/docstore"
	"github.com/datapar/analysis-backend/internal/platform/logger"
	"github.com/datapar/analysis-backend/internal/platform/objstore"

	"github.com/datapar/analysis-backend/internal/data/models"
)

const maxUploadBytes = 50 << 20 // 50 MiB

// contentTypeByExtension doubles as the allowed-extension set.
var contentTypeByExtension = map[string]string{
	"pdf":  "application/pdf",
	"csv":  "text/csv",
	"txt":  "text/plain",
	"json": "application/json",
}

var unsafeFileNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// Upload is what the multipart middleware hands us.
type Upload struct {
	OriginalName string
	ContentType  string
	Size         int64
	Content      io.Reader
}

type DatasetService interface {
	// UploadDataset writes the file to the object store and persists the
	// dataset record. When the object store write fails the record is still
	// persisted with status "failed" and the intended key; the upload is
	// never rolled back.
	UploadDataset(ctx context.Context, userID string, upload Upload) (docstore.Document, error)
	GetByID(ctx context.Context, id string) (docstore.Document, error)
	ListByUser(ctx context.Context, userID string) ([]docstore.Document, error)
	DeleteByID(ctx context.Context, id string) error
}

type datasetService struct {
	log      *logger.Logger
	datasets *models.DatasetModel
	objects  objstore.Client
}

func NewDatasetService(baseLog *logger.Logger, datasets *models.DatasetModel, objects objstore.Client) DatasetService {
	return &datasetService{
		log:      baseLog.With("service", "DatasetService"),
		datasets: datasets,
		objects:  objects,
	}
}

type uploadMeta struct {
	fileType    string
	contentType string
	safeName    string
}

func validateUpload(upload Upload) (uploadMeta, error) {
	if upload.OriginalName == "" || upload.Content == nil {
		return uploadMeta{}, apierr.Validation("File is required", nil)
	}
	parts := strings.Split(upload.OriginalName, ".")
	ext := strings.ToLower(parts[len(parts)-1])
	contentType, ok := contentTypeByExtension[ext]
	if !ok {
		return uploadMeta{}, apierr.Validation(fmt.Sprintf("Unsupported file type: %s", ext), nil)
	}
	if upload.Size > maxUploadBytes {
		return uploadMeta{}, apierr.Validation("File exceeds maximum allowed size", nil)
	}
	return uploadMeta{
		fileType:    ext,
		contentType: contentType,
		safeName:    unsafeFileNameChars.ReplaceAllString(upload.OriginalName, "_"),
	}, nil
}

func (ds *datasetService) UploadDataset(ctx context.Context, userID string, upload Upload) (docstore.Document, error) {
	meta, err := validateUpload(upload)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("datasets/%s/%d-%s", userID, time.Now().UnixMilli(), meta.safeName)

	record := docstore.Document{
		"userId":   userID,
		"fileName": meta.safeName,
		"fileType": meta.fileType,
		"fileSize": upload.Size,
	}

	var put objstore.PutResult
	putErr := fmt.Errorf("object store not configured")
	if ds.objects != nil {
		put, putErr = ds.objects.Put(ctx, key, upload.Content, upload.Size, meta.contentType)
	}
	if putErr != nil {
		ds.log.Warn("Object store upload failed, recording failed dataset",
			"user_id", userID,
			"storage_path", key,
			"error", putErr,
		)
		record["storagePath"] = key
		record["status"] = "failed"
		failed, createErr := ds.datasets.Create(ctx, record)
		if createErr != nil {
			return nil, fmt.Errorf("record failed dataset after upload error %v: %w", putErr, createErr)
		}
		return failed, nil
	}

	record["storagePath"] = put.Location
	record["status"] = "uploaded"
	dataset, err := ds.datasets.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	ds.log.Info("Dataset uploaded",
		"dataset_id", dataset[docstore.IDField],
		"user_id", userID,
		"storage_path", put.Location,
	)
	return dataset, nil
}

func (ds *datasetService) GetByID(ctx context.Context, id string) (docstore.Document, error) {
	dataset, err := ds.datasets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dataset == nil {
		return nil, apierr.NotFound("dataset not found")
	}
	return dataset, nil
}

func (ds *datasetService) ListByUser(ctx context.Context, userID string) ([]docstore.Document, error) {
	datasets, err := ds.datasets.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if datasets == nil {
		datasets = []docstore.Document{}
	}
	return datasets, nil
}

func (ds *datasetService) DeleteByID(ctx context.Context, id string) error {
	n, err := ds.datasets.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apierr.NotFound("dataset not found")
	}
	return nil
}
