// Package objstore wraps an S3-compatible object store. Uploads overwrite
// by key, which is what the dataset flow relies on for at-least-once
// writes.
package objstore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/datapar/analysis-backend/internal/platform/envutil"
	"github.com/datapar/analysis-backend/internal/platform/logger"
)

type PutResult struct {
	Bucket   string
	Location string
}

type Client interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (PutResult, error)
}

type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func ConfigFromEnv() Config {
	return Config{
		Endpoint:  envutil.String("S3_ENDPOINT", "localhost:9000"),
		Region:    envutil.String("S3_REGION", "us-east-1"),
		AccessKey: envutil.String("S3_ACCESS_KEY", ""),
		SecretKey: envutil.String("S3_SECRET_KEY", ""),
		Bucket:    envutil.String("S3_BUCKET_NAME", ""),
		UseSSL:    envutil.Bool("S3_USE_SSL", false),
	}
}

type s3Client struct {
	log    *logger.Logger
	client *minio.Client
	bucket string
}

func New(baseLog *logger.Logger, cfg Config) (Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("object store bucket not configured")
	}
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://")
	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init object store client: %w", err)
	}
	return &s3Client{
		log:    baseLog.With("component", "objstore"),
		client: mc,
		bucket: cfg.Bucket,
	}, nil
}

func (s *s3Client) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (PutResult, error) {
	if key == "" {
		return PutResult{}, fmt.Errorf("object key is required")
	}
	info, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return PutResult{}, fmt.Errorf("put object %q: %w", key, err)
	}
	s.log.Debug("Uploaded object", "key", info.Key, "size", info.Size)
	return PutResult{Bucket: s.bucket, Location: info.Key}, nil
}
