package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"progressly/api/internal/config"
	"progressly/api/internal/ids"
)

// ObjectStore keeps uploaded profile photos; the rest of the system only
// ever sees the durable URL it hands back.
type ObjectStore struct {
	client *minio.Client
	cfg    config.StorageConfig
}

func NewObjectStore(cfg config.StorageConfig) (*ObjectStore, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &ObjectStore{
		client: client,
		cfg:    cfg,
	}, nil
}

func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.BucketPhotos)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", s.cfg.BucketPhotos, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.cfg.BucketPhotos, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.cfg.BucketPhotos, err)
		}
	}
	return nil
}

// UploadPhoto stores a profile photo and returns its public URL.
func (s *ObjectStore) UploadPhoto(ctx context.Context, filename string, contentType string, r io.Reader, size int64) (string, error) {
	objectKey := s.buildObjectKey(filename)

	options := minio.PutObjectOptions{ContentType: contentType}
	if _, err := s.client.PutObject(ctx, s.cfg.BucketPhotos, objectKey, r, size, options); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return s.buildPublicURL(objectKey), nil
}

func (s *ObjectStore) buildObjectKey(filename string) string {
	datePrefix := time.Now().UTC().Format("2006/01/02")
	ext := path.Ext(filename)
	return path.Join(datePrefix, ids.New()+ext)
}

func (s *ObjectStore) buildPublicURL(objectKey string) string {
	base := strings.TrimSuffix(s.cfg.Endpoint, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	return fmt.Sprintf("%s/%s/%s", base, s.cfg.BucketPhotos, objectKey)
}
