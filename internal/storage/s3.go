package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Bucket names are 3-63 chars of lowercase letters, digits, dots and hyphens.
var bucketNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)

// S3Config holds the settings the remote backend needs.
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// S3Store stores objects in an S3 bucket.
type S3Store struct {
	client *s3.Client
	bucket string
	region string
}

// NewS3Store builds the remote backend. Credentials are logged only as a
// masked suffix.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if !bucketNameRegex.MatchString(cfg.Bucket) {
		return nil, &Error{Kind: KindConfig, Key: cfg.Bucket,
			Err: fmt.Errorf("invalid bucket name %q", cfg.Bucket)}
	}

	slog.Info("initializing S3 storage",
		"region", cfg.Region,
		"bucket", cfg.Bucket,
		"access_key", maskKey(cfg.AccessKeyID),
	)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, &Error{Kind: KindConfig, Err: fmt.Errorf("failed to load AWS config: %w", err)}
	}

	return &S3Store{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		region: cfg.Region,
	}, nil
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

func (s *S3Store) objectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// UploadText stores markdown content under key.
func (s *S3Store) UploadText(ctx context.Context, key, content string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(content),
		ContentType: aws.String("text/markdown"),
	})
	if err != nil {
		return "", classify(key, err)
	}
	return s.objectURL(key), nil
}

// GetText fetches markdown content by key.
func (s *S3Store) GetText(ctx context.Context, key string) (string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", classify(key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return "", &Error{Kind: KindUnavailable, Key: key, Err: err}
	}
	return string(body), nil
}

// Delete removes an object. Missing keys are not an error.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		serr := classify(key, err)
		if IsNotFound(serr) {
			return nil
		}
		return serr
	}
	return nil
}

// UploadBinary stores binary content under key.
func (s *S3Store) UploadBinary(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", classify(key, err)
	}
	return s.objectURL(key), nil
}

// classify maps SDK errors onto the storage error taxonomy.
func classify(key string, err error) error {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return &Error{Kind: KindNotFound, Key: key, Err: err}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return &Error{Kind: KindNotFound, Key: key, Err: err}
		case "AccessDenied":
			return &Error{Kind: KindAccessDenied, Key: key, Err: err}
		case "NoSuchBucket", "InvalidBucketName":
			return &Error{Kind: KindConfig, Key: key, Err: err}
		}
	}
	return &Error{Kind: KindUnavailable, Key: key, Err: err}
}
