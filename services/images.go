package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/George1161/the-legit-website/config"
	"github.com/George1161/the-legit-website/errs"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const DefaultMaxImageBytes = 5 << 20

// ImageUpload is an image file received with a submission or edit.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ImageStore persists uploaded images and returns the reference stored on the project.
type ImageStore interface {
	Upload(ctx context.Context, image ImageUpload) (string, error)
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageStore writes images to an S3 bucket under a key prefix.
type S3ImageStore struct {
	client        objectPutter
	bucket        string
	prefix        string
	publicBaseURL string
	logger        zerolog.Logger
}

func NewS3ImageStore(client objectPutter, bucket, prefix, publicBaseURL string) *S3ImageStore {
	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
	}
	return &S3ImageStore{
		client:        client,
		bucket:        bucket,
		prefix:        strings.Trim(prefix, "/"),
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        log.With().Str("service", "s3ImageStore").Logger(),
	}
}

// NewImageStoreFromConfig returns nil when S3_BUCKET is not set, which
// disables image uploads.
func NewImageStoreFromConfig(ctx context.Context, c map[string]string) (ImageStore, error) {
	bucket := config.GetString(c, "S3_BUCKET", "")
	if bucket == "" {
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return NewS3ImageStore(client, bucket,
		config.GetString(c, "S3_PREFIX", "projects"),
		config.GetString(c, "S3_PUBLIC_BASE_URL", ""),
	), nil
}

func (s *S3ImageStore) Upload(ctx context.Context, image ImageUpload) (string, error) {
	key := uuid.NewString() + strings.ToLower(path.Ext(image.Filename))
	if s.prefix != "" {
		key = s.prefix + "/" + key
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        image.Body,
		ContentType: aws.String(image.ContentType),
	}
	if image.Size > 0 {
		input.ContentLength = aws.Int64(image.Size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to upload image")
		return "", errs.NewStorageError("upload", "image", err)
	}

	url := s.publicBaseURL + "/" + key
	s.logger.Info().Str("key", key).Msg("Uploaded project image")
	return url, nil
}
