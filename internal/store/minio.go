package store

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"rwstats/internal/structures"
)

// MinioStore talks to any S3-compatible object store. Folders are key
// prefixes inside a single bucket.
type MinioStore struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

func NewMinioStore(conf structures.ObjectStoreConfig) (*MinioStore, error) {
	client, err := minio.New(conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKey, conf.SecretKey, ""),
		Secure: conf.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	baseURL := strings.TrimSuffix(conf.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = client.EndpointURL().String() + "/" + conf.Bucket
	}

	return &MinioStore{
		client:        client,
		bucket:        conf.Bucket,
		publicBaseURL: baseURL,
	}, nil
}

func (m *MinioStore) List(ctx context.Context, folder string, limit int) (ListPage, error) {
	opts := minio.ListObjectsOptions{
		Prefix:    folder + "/",
		Recursive: true,
	}

	var page ListPage
	for obj := range m.client.ListObjects(ctx, m.bucket, opts) {
		if obj.Err != nil {
			return ListPage{}, fmt.Errorf("failed to list %s: %w", folder, obj.Err)
		}
		if len(page.Entries) >= limit {
			page.Truncated = true
			break
		}
		page.Entries = append(page.Entries, ObjectInfo{
			Path:    obj.Key,
			Size:    obj.Size,
			HasSize: true,
		})
	}
	return page, nil
}

func (m *MinioStore) Upload(ctx context.Context, path string, data []byte, contentType string, upsert bool) error {
	if !upsert {
		if _, err := m.client.StatObject(ctx, m.bucket, path, minio.StatObjectOptions{}); err == nil {
			return fmt.Errorf("object %s already exists", path)
		}
	}

	_, err := m.client.PutObject(ctx, m.bucket, path, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", path, err)
	}
	return nil
}

func (m *MinioStore) Remove(ctx context.Context, paths []string) error {
	for _, path := range paths {
		if err := m.client.RemoveObject(ctx, m.bucket, path, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	return nil
}

func (m *MinioStore) PublicURL(path string) string {
	return m.publicBaseURL + "/" + path
}
