package adapter

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/indieinfra/scribble-media/config"
)

// S3Client is the subset of the minio client the S3 adapter uses.
type S3Client interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

var newMinioClient = func(endpoint string, opts *minio.Options) (S3Client, error) {
	return minio.New(endpoint, opts)
}

// S3 writes media to S3 or any compatible service (R2, Backblaze, MinIO).
type S3 struct {
	client         S3Client
	bucket         string
	prefix         string
	publicBase     string
	forcePathStyle bool
	endpointHost   string
	secure         bool
	region         string
}

func NewS3(cfg *config.S3Adapter) (*S3, error) {
	if cfg == nil {
		return nil, fmt.Errorf("s3 adapter config is nil")
	}

	region := strings.TrimSpace(cfg.Region)
	if strings.EqualFold(region, "auto") {
		region = ""
	}

	endpointHost := strings.TrimSpace(cfg.Endpoint)
	if endpointHost == "" {
		if region == "" {
			endpointHost = "s3.amazonaws.com"
		} else {
			endpointHost = fmt.Sprintf("s3.%s.amazonaws.com", region)
		}
	} else if parsed, err := url.Parse(endpointHost); err == nil && parsed.Host != "" {
		endpointHost = parsed.Host
	}

	lookup := minio.BucketLookupAuto
	if cfg.ForcePathStyle {
		lookup = minio.BucketLookupPath
	}

	secure := !cfg.DisableSSL

	client, err := newMinioClient(endpointHost, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKeyId, cfg.SecretKeyId, ""),
		Secure:       secure,
		Region:       region,
		BucketLookup: lookup,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	return newS3(cfg, client, endpointHost, secure)
}

// NewS3WithClient creates an S3 adapter around an existing client.
func NewS3WithClient(cfg *config.S3Adapter, client S3Client) (*S3, error) {
	if cfg == nil {
		return nil, fmt.Errorf("s3 adapter config is nil")
	}
	if client == nil {
		return nil, fmt.Errorf("s3 client is nil")
	}

	endpointHost := strings.TrimSpace(cfg.Endpoint)
	if parsed, err := url.Parse(endpointHost); err == nil && parsed.Host != "" {
		endpointHost = parsed.Host
	}

	return newS3(cfg, client, endpointHost, !cfg.DisableSSL)
}

func newS3(cfg *config.S3Adapter, client S3Client, endpointHost string, secure bool) (*S3, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to verify s3 bucket %q: %w", cfg.Bucket, err)
	}

	if !exists {
		return nil, fmt.Errorf("s3 bucket %q does not exist or is not accessible", cfg.Bucket)
	}

	return &S3{
		client:         client,
		bucket:         cfg.Bucket,
		prefix:         strings.Trim(cfg.Prefix, "/"),
		publicBase:     strings.TrimSuffix(cfg.PublicUrl, "/"),
		forcePathStyle: cfg.ForcePathStyle,
		endpointHost:   endpointHost,
		secure:         secure,
		region:         cfg.Region,
	}, nil
}

func (s *S3) Kind() Kind { return KindObjectStorage }

func (s *S3) sealed() {}

// Write uploads r, translating builder metadata into object headers.
func (s *S3) Write(ctx context.Context, key string, r io.Reader, size int64, metadata map[string]any) error {
	if r == nil {
		return fmt.Errorf("reader is required")
	}

	opts := putObjectOptions(metadata)
	if _, err := s.client.PutObject(ctx, s.bucket, s.objectKey(key), r, size, opts); err != nil {
		return fmt.Errorf("upload to s3 failed: %w", err)
	}

	return nil
}

func (s *S3) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, s.objectKey(key), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete from s3 failed: %w", err)
	}

	return nil
}

func (s *S3) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, s.objectKey(key), minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}

	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return false, nil
	}

	return false, fmt.Errorf("stat s3 object failed: %w", err)
}

func (s *S3) URL(key string) string {
	return s.objectURL(s.objectKey(key))
}

func (s *S3) objectKey(key string) string {
	key = strings.TrimPrefix(key, "/")
	if s.prefix == "" {
		return key
	}

	return s.prefix + "/" + key
}

func (s *S3) objectURL(objectKey string) string {
	if s.publicBase != "" {
		return s.publicBase + "/" + objectKey
	}

	scheme := "https"
	if !s.secure {
		scheme = "http"
	}

	if s.forcePathStyle {
		return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpointHost, s.bucket, objectKey)
	}

	return fmt.Sprintf("%s://%s.%s/%s", scheme, s.bucket, s.endpointHost, objectKey)
}
