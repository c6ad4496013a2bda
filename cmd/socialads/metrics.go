package main

import (
	"log/slog"

	"socialads/internal/config"
	"socialads/internal/metrics"
	"socialads/internal/metrics/datadog"
	"socialads/internal/metrics/prompush"
)

const (
	defaultPushgatewayURL = "http://localhost:9091"
	defaultDatadogAddr    = "127.0.0.1:8125"
)

// setupMetrics installs the configured metrics backend and returns a func
// that flushes it. A backend that fails to initialize leaves metrics disabled.
func setupMetrics(p config.Pipeline, log *slog.Logger) func() {
	var (
		b   metrics.Backend
		err error
	)
	switch p.Metrics.Backend {
	case "pushgateway":
		url := p.Metrics.PushgatewayURL
		if url == "" {
			url = defaultPushgatewayURL
		}
		b, err = prompush.NewBackend(p.Job, url)
		log.Debug("metrics", "backend", "pushgateway", "url", url, "job", p.Job)
	case "datadog":
		addr := p.Metrics.Datadog.Addr
		if addr == "" {
			addr = defaultDatadogAddr
		}
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       addr,
			Namespace:  p.Metrics.Datadog.Namespace,
			GlobalTags: append([]string{"job:" + p.Job}, p.Metrics.Datadog.Tags...),
		})
		log.Debug("metrics", "backend", "datadog", "addr", addr)
	case "", "none":
		log.Debug("metrics disabled")
		return func() {}
	default:
		log.Warn("unknown metrics backend; metrics disabled", "backend", p.Metrics.Backend)
		return func() {}
	}
	if err != nil {
		log.Warn("metrics backend init failed; metrics disabled", "backend", p.Metrics.Backend, "err", err)
		return func() {}
	}

	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Warn("metrics flush failed", "err", err)
		}
	}
}
