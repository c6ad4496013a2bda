// Command socialads runs the social ads ETL pipeline once: extract the CSV,
// validate and enrich it, append the result to the social_ads table and print
// a summary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"socialads/internal/config"
	"socialads/internal/datasource"
	"socialads/internal/etlerr"
	"socialads/internal/extractor"
	"socialads/internal/logging"
	"socialads/internal/pipeline"
	"socialads/internal/storage"
	"socialads/internal/transformer"

	// register all backends with the storage factory.
	_ "socialads/internal/storage/all"
)

const defaultConfig = "configs/pipelines/social_ads.json"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, os.Getenv))
}

type options struct {
	cfgPath        string
	source         string
	dsn            string
	metricsBackend string
	pushgatewayURL string
	datadogAddr    string
	validate       bool
	verbose        bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("socialads", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.cfgPath, "config", defaultConfig, "pipeline config path (.json, .yaml or .yml)")
	fs.StringVar(&o.source, "source", "", "input location; overrides the configured path, URL or S3 key")
	fs.StringVar(&o.dsn, "dsn", "", "destination connection string (overrides env SOCIALADS_DSN)")
	fs.StringVar(&o.metricsBackend, "metrics-backend", "", "metrics backend: none, pushgateway or datadog (overrides env METRICS_BACKEND)")
	fs.StringVar(&o.pushgatewayURL, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	fs.StringVar(&o.datadogAddr, "datadog-addr", "", "DogStatsD address (overrides env DATADOG_ADDR)")
	fs.BoolVar(&o.validate, "validate", false, "validate the configuration and exit")
	fs.BoolVar(&o.verbose, "v", false, "enable debug logs")
	return o, fs.Parse(args)
}

// loadPipeline resolves the effective configuration: file, then environment,
// then flags.
func loadPipeline(o options, getenv func(string) string) (config.Pipeline, error) {
	p, err := config.Load(o.cfgPath)
	if err != nil {
		return config.Pipeline{}, err
	}
	config.ApplyEnv(&p, getenv)
	if o.source != "" {
		config.SetSourceLocation(&p, o.source)
	}
	if o.dsn != "" {
		p.Storage.DB.DSN = o.dsn
	}
	if o.metricsBackend != "" {
		p.Metrics.Backend = o.metricsBackend
	}
	if o.pushgatewayURL != "" {
		p.Metrics.PushgatewayURL = o.pushgatewayURL
	}
	if o.datadogAddr != "" {
		p.Metrics.Datadog.Addr = o.datadogAddr
	}
	if o.verbose {
		p.Logging.Level = "debug"
	}
	return p, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	p, err := loadPipeline(o, getenv)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}

	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		fmt.Fprintf(stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		fmt.Fprintf(stderr, "configuration is invalid: %s\n", o.cfgPath)
		return 1
	}
	if o.validate {
		fmt.Fprintf(stdout, "configuration is valid: %s\n", o.cfgPath)
		return 0
	}

	level, _ := logging.ParseLevel(p.Logging.Level)
	log, err := logging.New(stderr, level, p.Logging.Format)
	if err != nil {
		fmt.Fprintf(stderr, "logging: %v\n", err)
		return 1
	}

	flush := setupMetrics(p, log)
	defer flush()

	fmt.Fprintln(stdout, "Starting Social Ads ETL Pipeline...")

	sum, err := runPipeline(ctx, p, log)
	if err != nil {
		kind := etlerr.KindOf(err)
		log.Error("pipeline failed", "stage", kind.Stage(), "kind", kind.String(), "err", err)
		return 1
	}

	if err := sum.Print(stdout); err != nil {
		log.Error("write summary", "err", err)
		return 1
	}
	fmt.Fprintln(stdout, "ETL Pipeline completed!")
	return 0
}

func runPipeline(ctx context.Context, p config.Pipeline, log *slog.Logger) (pipeline.Summary, error) {
	log.Debug("pipeline config",
		"source", p.Source.Kind, "parser", p.Parser.Kind,
		"storage", p.Storage.Kind, "table", p.Storage.DB.Table)

	src, err := datasource.FromConfig(ctx, p.Source)
	if err != nil {
		return pipeline.Summary{}, etlerr.New(etlerr.KindExtractionIO, err)
	}

	pl := &pipeline.Pipeline{
		Job:         p.Job,
		Extractor:   extractor.New(src, p.Parser.Options.Rune("comma", ','), log),
		Transformer: transformer.New(log),
		Loader: storage.NewLoader(storage.Config{
			Kind:      p.Storage.Kind,
			DSN:       p.Storage.DB.DSN,
			Table:     p.Storage.DB.Table,
			BatchSize: p.Storage.DB.BatchSize,
		}, log),
		Log: log,
	}
	return pl.Run(ctx)
}
