// Package minioctrl syncs the corpus artifact pair with an S3-compatible
// bucket, so deploys do not need the embedding matrix checked into the
// repository.
package minioctrl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"skynet/src/core/knowledge/corpusfile"
	"skynet/src/log"
)

const DefaultBucket = "skynet-artifacts"

type MinioService struct {
	client *minio.Client
	bucket string
}

func NewMinioService(endpoint, accessKeyID, secretAccessKey, bucket string, useSSL bool) (*MinioService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %v", err)
	}

	if bucket == "" {
		bucket = DefaultBucket
	}

	return &MinioService{
		client: client,
		bucket: bucket,
	}, nil
}

func (s *MinioService) EnsureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %v", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %v", err)
		}
	}

	return nil
}

// Pull downloads whichever of the two artifact files is missing locally.
// Object names are the file base names.
func (s *MinioService) Pull(ctx context.Context, embeddingsPath string) error {
	for _, path := range []string{embeddingsPath, corpusfile.ChunksPath(embeddingsPath)} {
		if _, err := os.Stat(path); err == nil {
			continue
		}

		object := filepath.Base(path)
		log.Info("downloading artifact", "bucket", s.bucket, "object", object, "path", path)

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create artifact directory: %v", err)
		}
		if err := s.client.FGetObject(ctx, s.bucket, object, path, minio.GetObjectOptions{}); err != nil {
			return fmt.Errorf("failed to download %s: %v", object, err)
		}
	}
	return nil
}

// Push uploads the artifact pair produced by an index build.
func (s *MinioService) Push(ctx context.Context, embeddingsPath string) error {
	if err := s.EnsureBucketExists(ctx); err != nil {
		return err
	}

	for _, path := range []string{embeddingsPath, corpusfile.ChunksPath(embeddingsPath)} {
		object := filepath.Base(path)
		log.Info("uploading artifact", "bucket", s.bucket, "object", object, "path", path)

		_, err := s.client.FPutObject(ctx, s.bucket, object, path, minio.PutObjectOptions{
			ContentType: "application/octet-stream",
		})
		if err != nil {
			return fmt.Errorf("failed to upload %s: %v", object, err)
		}
	}
	return nil
}
