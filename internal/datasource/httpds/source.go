// Package httpds implements an HTTP(S) datasource that downloads the input
// CSV with a single GET. There is no retry: a failed download fails the run.
package httpds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Config configures the HTTP source.
//
// Zero values are given sensible defaults:
//   - Timeout: 30s
type Config struct {
	// URL is the absolute http(s) URL of the CSV.
	URL string

	// Timeout bounds the whole request, including reading the body.
	Timeout time.Duration

	// Header is sent with the request (e.g. Authorization).
	Header http.Header

	// Transport is an optional custom RoundTripper, mainly for tests.
	Transport http.RoundTripper
}

// Source downloads the configured URL.
type Source struct {
	url        string
	header     http.Header
	httpClient *http.Client
}

// New constructs a Source from cfg, applying defaults for zero values.
func New(cfg Config) *Source {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	hdr := http.Header{}
	for k, vs := range cfg.Header {
		for _, v := range vs {
			hdr.Add(k, v)
		}
	}
	return &Source{
		url:    cfg.URL,
		header: hdr,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
	}
}

// Name returns the URL.
func (s *Source) Name() string { return s.url }

// Open issues the GET and returns the response body. Any status outside 2xx
// is an error; the body is closed in that case.
func (s *Source) Open(ctx context.Context) (io.ReadCloser, error) {
	if s.url == "" {
		return nil, fmt.Errorf("httpds: url must not be empty")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("httpds: build request: %w", err)
	}
	for k, vs := range s.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpds: GET %s: %w", s.url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, &StatusError{URL: s.url, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return resp.Body, nil
}

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("httpds: GET %s: unexpected status %s", e.URL, e.Status)
}
