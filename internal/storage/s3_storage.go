package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"coastline/villas/internal/config"
)

var ErrObjectNotFound = errors.New("object not found")

// IObjectStore reads gallery image originals.
type IObjectStore interface {
	GetObject(ctx context.Context, key string) ([]byte, string, error)
}

// S3Storage implements IObjectStore on an S3 bucket.
type S3Storage struct {
	bucket   string
	maxBytes int64
	s3Client *s3.Client
}

const defaultMaxObjectBytes = 20 * 1024 * 1024

// NewS3Storage creates a new S3 storage service using static credentials from config.
func NewS3Storage(cfg *config.Config) (*S3Storage, error) {
	awsCfg, err := aws_config.LoadDefaultConfig(context.TODO(),
		aws_config.WithRegion(cfg.AwsRegion),
		aws_config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AwsAccessKeyID,
			cfg.AwsSecretAccessKey,
			"", // session token
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Storage{
		bucket:   cfg.AwsS3Bucket,
		maxBytes: defaultMaxObjectBytes,
		s3Client: s3.NewFromConfig(awsCfg),
	}, nil
}

// GetObject downloads key and returns its bytes and content type.
func (s *S3Storage) GetObject(ctx context.Context, key string) ([]byte, string, error) {
	out, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, "", fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return nil, "", fmt.Errorf("failed to get object %s from S3: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, s.maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read object %s: %w", key, err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, "", fmt.Errorf("object %s exceeds %d bytes", key, s.maxBytes)
	}

	contentType := aws.ToString(out.ContentType)
	return data, contentType, nil
}
