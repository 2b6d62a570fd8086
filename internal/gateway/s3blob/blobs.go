// Package s3blob implements the blob half of the remote data gateway over
// an S3-compatible object store (MinIO, R2, AWS).
package s3blob

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config carries the object-storage connection settings.
type Config struct {
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
}

// Blobs implements gateway.Blobs over an S3 client.
type Blobs struct {
	client   *s3.Client
	endpoint string
}

// New builds an S3 client with static credentials and a custom base
// endpoint, the usual setup for a MinIO-style backend.
func New(ctx context.Context, cfg Config) (*Blobs, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		o.UsePathStyle = true
	})

	return &Blobs{client: client, endpoint: strings.TrimSuffix(cfg.BaseEndpoint, "/")}, nil
}

// Upload stores data under bucket/key with its MIME type preserved.
func (b *Blobs) Upload(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Remove deletes the object at bucket/key. S3 treats deleting a missing
// object as success, which suits the best-effort cleanup paths.
func (b *Blobs) Remove(ctx context.Context, bucket, key string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", bucket, key, err)
	}
	return nil
}

// PublicURL resolves bucket/key against the path-style base endpoint.
func (b *Blobs) PublicURL(bucket, key string) string {
	return b.endpoint + "/" + bucket + "/" + key
}
