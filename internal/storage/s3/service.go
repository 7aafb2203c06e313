package s3

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/consensuslabs/storefront/backend/internal/config"
	"github.com/consensuslabs/storefront/backend/internal/storage"
	"github.com/minio/minio-go/v7"
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"
)

// Service implements storage.ArchiveSink on an S3 compatible bucket
type Service struct {
	client *minio.Client
	bucket string
	prefix string
	logger storage.Logger
}

var _ storage.ArchiveSink = (*Service)(nil)

// NewService creates a new S3 archive sink
func NewService(cfg *config.ArchiveConfig, logger storage.Logger) (*Service, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("archive bucket is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  miniocreds.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	return &Service{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		logger: logger,
	}, nil
}

// ObjectKey joins the configured prefix and key
func (s *Service) ObjectKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}

// Put uploads data as a JSON object and returns its location
func (s *Service) Put(ctx context.Context, key string, data []byte) (string, error) {
	objectKey := s.ObjectKey(key)
	result, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", s.logger.LogError(fmt.Errorf("failed to upload archive to S3: %w", err), "Archive upload failed", map[string]interface{}{
			"bucket": s.bucket,
			"key":    objectKey,
		})
	}

	s.logger.LogInfo("Archive uploaded", map[string]interface{}{
		"bucket": s.bucket,
		"key":    objectKey,
		"size":   result.Size,
	})

	location := result.Location
	if location == "" {
		location = fmt.Sprintf("s3://%s/%s", s.bucket, objectKey)
	}
	return location, nil
}

// Close implements storage.ArchiveSink. The minio client holds no
// long-lived connections.
func (s *Service) Close() error {
	return nil
}
