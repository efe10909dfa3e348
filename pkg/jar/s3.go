package jar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/epithet-ssh/jarmf/pkg/manifest"
)

// DefaultMaxArchiveSize bounds how much of an S3 object is read (256MB).
const DefaultMaxArchiveSize = 256 * 1024 * 1024

// ErrArchiveTooLarge indicates an object larger than the source allows.
var ErrArchiveTooLarge = errors.New("jar: archive exceeds maximum size")

// GetObjectAPI is the part of *s3.Client used by S3Source.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source fetches archives from S3.
type S3Source struct {
	client  GetObjectAPI
	maxSize int64
	logger  *slog.Logger
}

// S3SourceConfig configures an S3Source.
type S3SourceConfig struct {
	Client  GetObjectAPI
	MaxSize int64        // Optional, defaults to DefaultMaxArchiveSize
	Logger  *slog.Logger // Optional, defaults to slog.Default()
}

// NewS3Source creates a source reading objects through config.Client.
func NewS3Source(config S3SourceConfig) *S3Source {
	if config.MaxSize == 0 {
		config.MaxSize = DefaultMaxArchiveSize
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &S3Source{
		client:  config.Client,
		maxSize: config.MaxSize,
		logger:  config.Logger,
	}
}

// NewS3Client builds an S3 client from the default AWS configuration chain
// (environment, shared config files, instance metadata).
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("jar: loading AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// Fetch downloads the object at bucket/key.
func (s *S3Source) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	s.logger.Debug("fetching archive", "bucket", bucket, "key", key)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("jar: fetching s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("jar: reading s3://%s/%s: %w", bucket, key, err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, ErrArchiveTooLarge
	}

	s.logger.Debug("fetched archive", "bucket", bucket, "key", key, "bytes", len(data))
	return data, nil
}

// DecodeS3 fetches the archive named by an s3://bucket/key URL and decodes
// its manifest.
func DecodeS3[V any](ctx context.Context, src *S3Source, rawURL string, decodeValue manifest.ValueDecoder[V], opts ...manifest.Option) (manifest.Manifest[V], error) {
	bucket, key, err := ParseS3URL(rawURL)
	if err != nil {
		return nil, err
	}

	data, err := src.Fetch(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	return DecodeBytes(data, decodeValue, opts...)
}

// IsS3URL reports whether s uses the s3 scheme.
func IsS3URL(s string) bool {
	return strings.HasPrefix(s, "s3://")
}

// ParseS3URL splits s3://bucket/key into its parts.
func ParseS3URL(rawURL string) (bucket, key string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("jar: invalid S3 URL %q: %w", rawURL, err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("jar: invalid S3 URL %q: scheme must be s3", rawURL)
	}

	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("jar: invalid S3 URL %q: need s3://bucket/key", rawURL)
	}
	return bucket, key, nil
}
