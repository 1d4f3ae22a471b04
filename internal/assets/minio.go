// Package assets stores uploaded media in MinIO/S3. The public ids it mints
// are what block configs reference through assetPublicId fields.
package assets

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"launchpage/api/internal/util"
)

type Store struct {
	client *minio.Client
	bucket string
}

// New connects to the object store and ensures the bucket exists.
func New(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*Store, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to object store: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &Store{client: client, bucket: bucket}, nil
}

// Put uploads an asset and returns its minted public id.
func (s *Store) Put(ctx context.Context, reader io.Reader, size int64, contentType string) (string, error) {
	publicID := util.NewID("ast")
	_, err := s.client.PutObject(ctx, s.bucket, publicID, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload asset: %w", err)
	}
	return publicID, nil
}

// PresignedURL returns a time-limited download URL for an asset.
func (s *Store) PresignedURL(ctx context.Context, publicID string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, publicID, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign asset url: %w", err)
	}
	return u.String(), nil
}
