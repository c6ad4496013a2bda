// Package datasource abstracts where the pipeline's input bytes come from.
// Each implementation opens a fresh stream per call; the extractor owns
// closing it.
package datasource

import (
	"context"
	"fmt"
	"io"
	"time"

	"socialads/internal/config"
	"socialads/internal/datasource/file"
	"socialads/internal/datasource/httpds"
	"socialads/internal/datasource/s3ds"
)

// Source yields the raw input stream.
type Source interface {
	// Open returns a reader positioned at the start of the input.
	Open(ctx context.Context) (io.ReadCloser, error)
	// Name identifies the input in logs and errors (path, URL, s3://bucket/key).
	Name() string
}

// FromConfig builds the Source selected by cfg.Kind.
func FromConfig(ctx context.Context, cfg config.Source) (Source, error) {
	switch cfg.Kind {
	case "", "file":
		return file.NewLocal(cfg.File.Path), nil
	case "http":
		return httpds.New(httpds.Config{
			URL:     cfg.HTTP.URL,
			Timeout: time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
		}), nil
	case "s3":
		return s3ds.New(ctx, s3ds.Config{
			Bucket:       cfg.S3.Bucket,
			Key:          cfg.S3.Key,
			Region:       cfg.S3.Region,
			Endpoint:     cfg.S3.Endpoint,
			UsePathStyle: cfg.S3.UsePathStyle,
		})
	default:
		return nil, fmt.Errorf("datasource: unknown source kind %q", cfg.Kind)
	}
}
