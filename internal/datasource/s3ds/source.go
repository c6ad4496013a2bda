// Package s3ds reads the input CSV from an S3 (or S3-compatible) bucket.
package s3ds

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config identifies the object and how to reach it.
type Config struct {
	Bucket string
	Key    string

	// Region falls back to AWS_REGION, then us-east-1.
	Region string

	// Endpoint overrides the service endpoint (MinIO, localstack).
	Endpoint     string
	UsePathStyle bool
}

// GetObjectAPI is the subset of *s3.Client the source needs.
type GetObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Source streams one S3 object.
type Source struct {
	client GetObjectAPI
	bucket string
	key    string
}

// New loads the default AWS configuration (env, shared config, instance
// role) and returns a Source for cfg.
func New(ctx context.Context, cfg Config) (*Source, error) {
	if cfg.Bucket == "" || cfg.Key == "" {
		return nil, fmt.Errorf("s3ds: bucket and key are required")
	}
	region := cfg.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
		if region == "" {
			region = "us-east-1"
		}
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("s3ds: load AWS config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return NewWithClient(client, cfg.Bucket, cfg.Key), nil
}

// NewWithClient builds a Source around an existing client.
func NewWithClient(client GetObjectAPI, bucket, key string) *Source {
	return &Source{client: client, bucket: bucket, key: key}
}

// Name returns the s3:// URI of the object.
func (s *Source) Name() string { return "s3://" + s.bucket + "/" + s.key }

// Open fetches the object and returns its body.
func (s *Source) Open(ctx context.Context) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3ds: get %s: %w", s.Name(), err)
	}
	return out.Body, nil
}
