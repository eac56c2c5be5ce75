package storage

import (
	"context"
	"fmt"
	"time"

	"docquiz/internal/config"
	"docquiz/internal/domain"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioURLIssuer implements domain.UploadURLIssuer using MinIO presigned PUT
// URLs.
type MinioURLIssuer struct {
	client *minio.Client
	bucket string
}

// NewMinioURLIssuer connects to the object storage endpoint and ensures the
// upload bucket exists.
func NewMinioURLIssuer(cfg config.StorageConfig) (*MinioURLIssuer, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage client: %w", err)
	}

	exists, err := client.BucketExists(context.Background(), cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(context.Background(), cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &MinioURLIssuer{client: client, bucket: cfg.Bucket}, nil
}

// Bucket returns the bucket uploads are credentialed for.
func (s *MinioURLIssuer) Bucket() string {
	return s.bucket
}

// PresignedPut issues a time-limited write credential for the given key.
// MinIO PUT presigning does not bind the content type into the signature;
// the parameter is accepted for contract parity and ignored here.
func (s *MinioURLIssuer) PresignedPut(ctx context.Context, key string, contentType string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedPutObject(ctx, s.bucket, key, expiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign upload for %s: %w", key, err)
	}
	return u.String(), nil
}

var _ domain.UploadURLIssuer = (*MinioURLIssuer)(nil)
