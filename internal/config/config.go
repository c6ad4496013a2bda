// Package config defines the JSON/YAML-serializable configuration for the
// social ads pipeline. A pipeline file names where the CSV comes from, how it
// is parsed, where the results go, and how the run reports itself (metrics,
// logging).
//
// Example (trimmed):
//
//	{
//	  "job":     "social_ads_etl",
//	  "source":  { "kind": "file", "file": { "path": "data/raw/social_ads.csv" } },
//	  "parser":  { "kind": "csv", "options": { "comma": "," } },
//	  "storage": { "kind": "sqlite", "db": { "dsn": "data/processed/social_ads.db", "table": "social_ads" } }
//	}
//
// The record schema, validation rules and buckets are fixed and therefore not
// configurable here.
package config

import "encoding/json"

// Pipeline is the top-level object decoded from a pipeline file
// (configs/pipelines/*.json or *.yaml).
type Pipeline struct {
	// Job names the pipeline for logs and metrics grouping.
	Job string `json:"job" yaml:"job"`

	Source  Source  `json:"source" yaml:"source"`
	Parser  Parser  `json:"parser" yaml:"parser"`
	Storage Storage `json:"storage" yaml:"storage"`
	Metrics Metrics `json:"metrics" yaml:"metrics"`
	Logging Logging `json:"logging" yaml:"logging"`
}

// Source identifies where the CSV bytes come from.
type Source struct {
	// Kind selects the implementation: "file" (default), "http" or "s3".
	Kind string `json:"kind" yaml:"kind"`

	File SourceFile `json:"file" yaml:"file"`
	HTTP SourceHTTP `json:"http" yaml:"http"`
	S3   SourceS3   `json:"s3" yaml:"s3"`
}

// SourceFile holds configuration for the "file" source kind.
type SourceFile struct {
	// Path is the local filesystem path to the input file.
	Path string `json:"path" yaml:"path"`
}

// SourceHTTP holds configuration for the "http" source kind.
type SourceHTTP struct {
	URL            string `json:"url" yaml:"url"`
	TimeoutSeconds int    `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// SourceS3 holds configuration for the "s3" source kind. Credentials come
// from the default AWS chain (env, shared config, instance role).
type SourceS3 struct {
	Bucket string `json:"bucket" yaml:"bucket"`
	Key    string `json:"key" yaml:"key"`
	Region string `json:"region" yaml:"region"`

	// Endpoint overrides the S3 endpoint (MinIO, localstack).
	Endpoint     string `json:"endpoint" yaml:"endpoint"`
	UsePathStyle bool   `json:"use_path_style" yaml:"use_path_style"`
}

// Parser selects how raw bytes become rows. Only "csv" exists.
type Parser struct {
	Kind string `json:"kind" yaml:"kind"`

	// Options is interpreted by the parser. For CSV:
	//   comma (string, single character; default ",")
	Options Options `json:"options" yaml:"options"`
}

// Storage selects the sink used to persist transformed records.
type Storage struct {
	// Kind selects the backend: "sqlite" (default), "postgres", "mysql",
	// "mssql".
	Kind string `json:"kind" yaml:"kind"`

	DB DBConfig `json:"db" yaml:"db"`
}

// DBConfig configures the destination database.
type DBConfig struct {
	// DSN is the backend-specific connection string.
	DSN string `json:"dsn" yaml:"dsn"`

	// Table is the destination table, optionally schema-qualified.
	Table string `json:"table" yaml:"table"`

	// BatchSize bounds the number of rows per INSERT statement for backends
	// that build multi-row statements. All batches share one transaction.
	BatchSize int `json:"batch_size" yaml:"batch_size"`
}

// Metrics selects a metrics backend.
type Metrics struct {
	// Backend is "none" (default), "pushgateway" or "datadog".
	Backend        string  `json:"backend" yaml:"backend"`
	PushgatewayURL string  `json:"pushgateway_url" yaml:"pushgateway_url"`
	Datadog        Datadog `json:"datadog" yaml:"datadog"`
}

// Datadog configures the DogStatsD client.
type Datadog struct {
	Addr      string   `json:"addr" yaml:"addr"`
	Namespace string   `json:"namespace" yaml:"namespace"`
	Tags      []string `json:"tags" yaml:"tags"`
}

// Logging configures the process logger.
type Logging struct {
	// Level is debug, info, warn or error.
	Level string `json:"level" yaml:"level"`
	// Format is text or json.
	Format string `json:"format" yaml:"format"`
}

// Options is a small helper to fetch typed values from free-form maps. It
// performs only minimal coercion and returns the provided default when a key
// is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers decode as float64
// and YAML integers as int; both are accepted.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty. Used for the CSV delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// UnmarshalJSON decodes a missing or null "options" object to an empty,
// non-nil map.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
