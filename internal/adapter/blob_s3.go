package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/MKhiriev/pixshare/internal/config"
	"github.com/MKhiriev/pixshare/internal/logger"
	"github.com/MKhiriev/pixshare/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const defaultS3Region = "us-east-1"

type s3BlobStore struct {
	client  *s3.Client
	bucket  string
	baseURL string
	logger  *logger.Logger
}

// NewS3BlobStore returns a [BlobStore] writing to cfg.Bucket. A custom
// cfg.Endpoint (MinIO, LocalStack) switches the client to path-style
// addressing. Static credentials are used when cfg.AccessKeyID is set,
// otherwise the default AWS credential chain applies.
func NewS3BlobStore(ctx context.Context, cfg config.Blob, logger *logger.Logger) (BlobStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	region := cfg.Region
	if region == "" {
		region = defaultS3Region
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &s3BlobStore{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: s3PublicBaseURL(cfg, region),
		logger:  logger,
	}, nil
}

func s3PublicBaseURL(cfg config.Blob, region string) string {
	switch {
	case cfg.PublicBaseURL != "":
		return cfg.PublicBaseURL
	case cfg.Endpoint != "":
		return joinURL(cfg.Endpoint, cfg.Bucket)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
	}
}

func (s *s3BlobStore) Upload(ctx context.Context, path string, content []byte, contentType string) (models.Blob, error) {
	log := logger.FromContext(ctx)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(path),
		Body:          bytes.NewReader(content),
		ContentLength: aws.Int64(int64(len(content))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		log.Err(err).Str("func", "*s3BlobStore.Upload").Str("path", path).Msg("put object failed")
		return models.Blob{}, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	return models.Blob{
		Path:        path,
		URL:         joinURL(s.baseURL, path),
		ContentType: contentType,
		Size:        int64(len(content)),
	}, nil
}

func (s *s3BlobStore) Download(ctx context.Context, path string) (io.ReadCloser, string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, "", ErrBlobNotFound
		}
		return nil, "", fmt.Errorf("error fetching blob %s: %w", path, err)
	}

	return out.Body, aws.ToString(out.ContentType), nil
}

func (s *s3BlobStore) Delete(ctx context.Context, path string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*s3BlobStore.Delete").Str("path", path).Msg("delete object failed")
		return fmt.Errorf("error deleting blob %s: %w", path, err)
	}
	return nil
}
