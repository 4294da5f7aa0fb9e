// Package objectstore provides access to per-owner case file objects held in
// S3. Objects are keyed as "<ownerID>/<filename>".
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrNotFound is returned when the named object does not exist.
var ErrNotFound = errors.New("object not found")

// Store is the contract for case file storage backends.
type Store interface {
	Download(ctx context.Context, ownerID, filename, destPath string) error
	Upload(ctx context.Context, ownerID, filename string, body io.Reader) error
	Delete(ctx context.Context, ownerID, filename string) error
}

// S3Store implements Store against an S3 bucket.
type S3Store struct {
	client *s3.Client
	bucket string
}

// NewS3Store builds an S3-backed store. When accessKey is empty the default
// credential chain is used (instance profile, env, shared config).
func NewS3Store(ctx context.Context, bucket, region, accessKey, secretKey string) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if accessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &S3Store{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
	}, nil
}

func objectKey(ownerID, filename string) string {
	return ownerID + "/" + filename
}

// Download fetches the object into destPath. The destination file is removed
// again on a partial write so callers never see a truncated download.
func (s *S3Store) Download(ctx context.Context, ownerID, filename, destPath string) error {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(ownerID, filename)),
	})
	if err != nil {
		return fmt.Errorf("get object %s: %w", objectKey(ownerID, filename), err)
	}
	defer out.Body.Close()

	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", destPath, err)
	}

	if _, err := io.Copy(f, out.Body); err != nil {
		f.Close()
		os.Remove(destPath)
		return fmt.Errorf("write %s: %w", destPath, err)
	}
	return f.Close()
}

func (s *S3Store) Upload(ctx context.Context, ownerID, filename string, body io.Reader) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(ownerID, filename)),
		Body:   body,
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", objectKey(ownerID, filename), err)
	}
	return nil
}

func (s *S3Store) Delete(ctx context.Context, ownerID, filename string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(ownerID, filename)),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", objectKey(ownerID, filename), err)
	}
	return nil
}
