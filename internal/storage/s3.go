package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/spec-kit/homecare-api/internal/config"
)

// ErrNotConfigured is returned when no bucket is configured.
var ErrNotConfigured = errors.New("object storage not configured")

// ObjectStore stores uploaded files.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	PresignGet(ctx context.Context, key string) (string, error)
}

// S3Store is an ObjectStore backed by an S3-compatible bucket.
type S3Store struct {
	client     *s3.Client
	presign    *s3.PresignClient
	bucket     string
	presignTTL time.Duration
	logger     *zap.Logger
}

// NewS3Store builds the client from static credentials. A custom endpoint
// (MinIO, Spaces, R2) is used when configured.
func NewS3Store(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, ErrNotConfigured
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	ttl := time.Duration(cfg.PresignTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	logger.Info("object storage enabled", zap.String("bucket", cfg.Bucket), zap.String("endpoint", cfg.Endpoint))
	return &S3Store{
		client:     client,
		presign:    s3.NewPresignClient(client),
		bucket:     cfg.Bucket,
		presignTTL: ttl,
		logger:     logger,
	}, nil
}

// Put uploads data under key.
func (s *S3Store) Put(ctx context.Context, key, contentType string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	s.logger.Debug("object stored", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

// PresignGet returns a time-limited download URL for key.
func (s *S3Store) PresignGet(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignTTL))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}
