package receipt

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// Archiver mirrors generated receipt documents to durable storage.
type Archiver interface {
	Archive(ctx context.Context, filename string, data []byte) error
}

// s3Archiver implements Archiver against an S3 bucket.
type s3Archiver struct {
	client *s3.Client
	bucket string
	prefix string
	logger zerolog.Logger
}

// NewS3Archiver creates an S3-backed receipt archiver.
func NewS3Archiver(ctx context.Context, bucket, region, prefix string, logger zerolog.Logger) (Archiver, error) {
	logger = logger.With().Str("component", "s3-receipt-archiver").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Str("prefix", prefix).
		Msg("S3 receipt archiver initialised")

	return &s3Archiver{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}, nil
}

// Archive uploads one receipt document under prefix+filename.
func (a *s3Archiver) Archive(ctx context.Context, filename string, data []byte) error {
	key := a.prefix + filename

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		a.logger.Error().
			Err(err).
			Str("bucket", a.bucket).
			Str("key", key).
			Msg("failed to upload receipt to S3")
		return fmt.Errorf("failed to upload receipt to S3 (bucket=%s, key=%s): %w", a.bucket, key, err)
	}

	a.logger.Debug().
		Str("bucket", a.bucket).
		Str("key", key).
		Int("bytes", len(data)).
		Msg("receipt archived to S3")

	return nil
}
