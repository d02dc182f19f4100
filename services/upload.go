package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Uploader stores uploaded font binaries and project images in an S3 bucket
// and hands back publicly resolvable URLs.
type Uploader struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
	logger        zerolog.Logger
}

// NewUploader builds an uploader against the named bucket. Credentials and
// region come from the standard AWS environment. publicBaseURL overrides the
// default virtual-hosted URL shape, e.g. for a CDN in front of the bucket.
func NewUploader(ctx context.Context, bucket, publicBaseURL string) (*Uploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("upload bucket is required")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &Uploader{
		client:        s3.NewFromConfig(cfg),
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
		logger:        log.With().Str("component", "uploader").Logger(),
	}, nil
}

// CheckBucket lists a single object to verify the bucket is reachable before
// any upload is attempted.
func (u *Uploader) CheckBucket(ctx context.Context) error {
	_, err := u.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(u.bucket),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return fmt.Errorf("bucket %s not accessible: %w", u.bucket, err)
	}
	return nil
}

// Upload stores the blob at the given key and returns its public URL.
func (u *Uploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	key = strings.TrimPrefix(path.Clean(key), "/")
	if key == "" || key == "." {
		return "", fmt.Errorf("upload key is required")
	}

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		u.logger.Error().Err(err).Str("key", key).Msg("upload failed")
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}

	u.logger.Info().Str("key", key).Msg("uploaded object")
	return u.PublicURL(key), nil
}

// PublicURL returns the resolvable URL for a stored key.
func (u *Uploader) PublicURL(key string) string {
	if u.publicBaseURL != "" {
		return u.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", u.bucket, key)
}
