package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults applied by ApplyDefaults.
const (
	DefaultJob       = "social_ads_etl"
	DefaultTable     = "social_ads"
	DefaultBatchSize = 500
)

// Load reads a pipeline file, decodes it as YAML when the extension is
// .yaml/.yml and as JSON otherwise, then applies defaults.
func Load(path string) (Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("read config: %w", err)
	}
	p, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return Pipeline{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	ApplyDefaults(&p)
	return p, nil
}

// Decode parses data as YAML for ext ".yaml"/".yml" and JSON otherwise.
// Defaults are not applied.
func Decode(data []byte, ext string) (Pipeline, error) {
	var p Pipeline
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &p); err != nil {
			return Pipeline{}, err
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&p); err != nil {
			return Pipeline{}, err
		}
	}
	if p.Parser.Options == nil {
		p.Parser.Options = Options{}
	}
	return p, nil
}

// ApplyDefaults fills zero-valued fields with their defaults.
func ApplyDefaults(p *Pipeline) {
	if strings.TrimSpace(p.Job) == "" {
		p.Job = DefaultJob
	}
	if p.Source.Kind == "" {
		p.Source.Kind = "file"
	}
	if p.Parser.Kind == "" {
		p.Parser.Kind = "csv"
	}
	if p.Parser.Options == nil {
		p.Parser.Options = Options{}
	}
	if p.Storage.Kind == "" {
		p.Storage.Kind = "sqlite"
	}
	if p.Storage.DB.Table == "" {
		p.Storage.DB.Table = DefaultTable
	}
	if p.Storage.DB.BatchSize <= 0 {
		p.Storage.DB.BatchSize = DefaultBatchSize
	}
	if p.Metrics.Backend == "" {
		p.Metrics.Backend = "none"
	}
	if p.Logging.Level == "" {
		p.Logging.Level = "info"
	}
	if p.Logging.Format == "" {
		p.Logging.Format = "text"
	}
}

// Environment variables consulted by ApplyEnv.
const (
	EnvSource         = "SOCIALADS_SOURCE"
	EnvDSN            = "SOCIALADS_DSN"
	EnvMetricsBackend = "METRICS_BACKEND"
	EnvPushgatewayURL = "PUSHGATEWAY_URL"
	EnvDatadogAddr    = "DATADOG_ADDR"
)

// ApplyEnv overlays non-empty environment values onto p. getenv is usually
// os.Getenv. SOCIALADS_SOURCE replaces the path, URL or object key of the
// configured source kind.
func ApplyEnv(p *Pipeline, getenv func(string) string) {
	if v := getenv(EnvSource); v != "" {
		SetSourceLocation(p, v)
	}
	if v := getenv(EnvDSN); v != "" {
		p.Storage.DB.DSN = v
	}
	if v := getenv(EnvMetricsBackend); v != "" {
		p.Metrics.Backend = v
	}
	if v := getenv(EnvPushgatewayURL); v != "" {
		p.Metrics.PushgatewayURL = v
	}
	if v := getenv(EnvDatadogAddr); v != "" {
		p.Metrics.Datadog.Addr = v
	}
}

// SetSourceLocation points the configured source kind at loc.
func SetSourceLocation(p *Pipeline, loc string) {
	switch p.Source.Kind {
	case "http":
		p.Source.HTTP.URL = loc
	case "s3":
		p.Source.S3.Key = loc
	default:
		p.Source.File.Path = loc
	}
}
