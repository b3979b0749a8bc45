// Package objectstore downloads the input CSV and uploads the output
// CSV to S3-compatible object storage.
package objectstore

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/lshdedup/lshdedup/internal/respenvelope"
)

// Store downloads and uploads CSV objects by bucket and key.
type Store interface {
	Download(ctx context.Context, bucket, key string) ([]byte, *respenvelope.ServiceError)
	Upload(ctx context.Context, bucket, key string, body []byte) *respenvelope.ServiceError
}

// S3Store is a Store backed by an AWS S3-compatible client.
type S3Store struct {
	client *s3.S3
}

// NewS3Store builds an S3Store for the given region on a new AWS
// session created by this call.
func NewS3Store(region string) (*S3Store, *respenvelope.ServiceError) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, respenvelope.InternalError("creating aws session: %v", err)
	}
	return &S3Store{client: s3.New(sess)}, nil
}

// Download fetches an object's full body.
func (s *S3Store) Download(ctx context.Context, bucket, key string) ([]byte, *respenvelope.ServiceError) {
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, respenvelope.IOError("downloading s3://%s/%s: %v", bucket, key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, respenvelope.IOError("reading s3://%s/%s body: %v", bucket, key, err)
	}
	return body, nil
}

// Upload writes an object's full body, overwriting any existing
// object at the same bucket and key.
func (s *S3Store) Upload(ctx context.Context, bucket, key string, body []byte) *respenvelope.ServiceError {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	})
	if err != nil {
		return respenvelope.IOError("uploading s3://%s/%s: %v", bucket, key, err)
	}
	return nil
}

// OutputBucket derives the output bucket from the input bucket by
// replacing every occurrence of the substring "/input" with "/output"
// (so "/inputs" also becomes "/outputs").
func OutputBucket(inputBucket string) string {
	return strings.ReplaceAll(inputBucket, "/input", "/output")
}
