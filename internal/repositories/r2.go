package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// R2Store keeps blobs as objects in a Cloudflare R2 bucket. Paths are object
// keys.
type R2Store struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
}

// NewR2Store initializes the R2 client using static credentials and custom endpoint.
func NewR2Store(accessKey, secretKey, accountID, bucketName, region string) *R2Store {
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)

	cfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		Region:      region,
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	log.Println("Successfully initialized R2 client")

	return &R2Store{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    bucketName,
	}
}

func (s *R2Store) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(name),
		Body:          r,
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", name, err)
	}
	return name, nil
}

func (s *R2Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	return out.Body, nil
}

// Remove deletes the object. R2 reports success for absent keys, so existence
// is checked first to surface metadata/blob divergence like DiskStore does.
func (s *R2Store) Remove(ctx context.Context, key string) error {
	exists, err := s.VerifyObjectExists(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check object %s: %w", key, err)
	}
	if !exists {
		return fmt.Errorf("object %s does not exist", key)
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// PresignGet creates a presigned URL for downloading an object from R2.
func (s *R2Store) PresignGet(ctx context.Context, key string, expires time.Duration) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// VerifyObjectExists checks if a given object key exists in the R2 bucket.
// Returns true if the object exists, false if not, and an error if something went wrong.
func (s *R2Store) VerifyObjectExists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *s3types.NotFound
		if ok := errors.As(err, &nsk); ok {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
