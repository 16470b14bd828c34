package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/edkeeper/classvault/internal/shared"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
	getObject = func(c *s3.Client, ctx context.Context, in *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
		return c.GetObject(ctx, in)
	}
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in)
	}
)

// S3Options configures access to an S3-compatible backend (e.g. MinIO).
type S3Options struct {
	Region       string
	RootUser     string
	RootPassword string
	Bucket       string
	BaseEndpoint string
}

// S3Store keeps blobs in an S3-compatible bucket. Object keys are
// date-prefixed uuids, so they are never reused across uploads.
type S3Store struct {
	client *s3.Client
	bucket string
}

func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.RootUser,
			opts.RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load aws config: %v", shared.ErrStorageUnavailable, err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(opts.BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Store{client: client, bucket: opts.Bucket}, nil
}

func randomObjectKey() string {
	d := time.Now()
	return fmt.Sprintf("uploads/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *S3Store) Put(ctx context.Context, data []byte) (string, error) {
	key := randomObjectKey()

	_, err := putObject(s.client, ctx, &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to upload blob: %v", shared.ErrStorageUnavailable, err)
	}

	return key, nil
}

func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := getObject(s.client, ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("%w: failed to fetch blob %s: %v", shared.ErrStorageUnavailable, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read blob %s: %v", shared.ErrStorageUnavailable, key, err)
	}
	return data, nil
}

// Delete removes the object. S3 delete is idempotent: deleting an absent key
// succeeds.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := deleteObject(s.client, ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to delete blob %s: %v", shared.ErrStorageUnavailable, key, err)
	}
	return nil
}
