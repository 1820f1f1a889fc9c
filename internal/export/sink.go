package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/calance/sales-edge/internal/config"
)

// Sink stores an exported file and reports where it went.
type Sink interface {
	Put(ctx context.Context, f File) (string, error)
}

// NewSink returns the S3 sink when it is enabled, otherwise a directory sink.
func NewSink(cfg config.ExportConfig) (Sink, error) {
	if cfg.S3.Enabled {
		return NewS3Sink(cfg.S3)
	}
	return DirSink{Dir: cfg.Dir}, nil
}

// DirSink writes files into a local directory.
type DirSink struct {
	Dir string
}

func (s DirSink) Put(_ context.Context, f File) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}
	p := filepath.Join(dir, filepath.Base(f.Name))
	if err := os.WriteFile(p, f.Data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return p, nil
}

// S3Sink uploads files to an S3-compatible bucket.
type S3Sink struct {
	client *minio.Client
	bucket string
	prefix string
	region string

	mu    sync.Mutex
	ready bool // set once the bucket is known to exist
}

// NewS3Sink validates cfg and builds the object storage client.
func NewS3Sink(cfg config.S3Config) (*S3Sink, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return &S3Sink{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		region: region,
	}, nil
}

// ensureBucket checks for the bucket and creates it when missing. Only
// success is remembered; a failed check runs again on the next Put.
func (s *S3Sink) ensureBucket(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return nil
	}
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return err
		}
	}
	s.ready = true
	return nil
}

// ObjectKey is where a file lands inside the bucket.
func (s *S3Sink) ObjectKey(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

func (s *S3Sink) Put(ctx context.Context, f File) (string, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}
	key := s.ObjectKey(f.Name)
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(f.Data), int64(len(f.Data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}
