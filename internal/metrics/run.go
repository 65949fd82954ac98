// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package metrics records per-run sync counters and optionally pushes them to
// a Prometheus Pushgateway when the run ends.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Registry holds every churchsync collector. Runs are short-lived, so there
// is no scrape endpoint; see Push.
var Registry = prometheus.NewRegistry()

var (
	syncActionsTotal = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "churchsync_sync_actions_total",
		Help: "Remote actions performed per target",
	}, []string{"target", "action"}) // action=create|update|skip|upload|delete|preview

	recordFailuresTotal = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "churchsync_record_failures_total",
		Help: "Records that failed and were skipped, by target and reason",
	}, []string{"target", "reason"}) // reason=malformed|api

	runDuration = promauto.With(Registry).NewGaugeVec(prometheus.GaugeOpts{
		Name: "churchsync_run_duration_seconds",
		Help: "Duration of the last run per job",
	}, []string{"job"})

	lastSuccess = promauto.With(Registry).NewGaugeVec(prometheus.GaugeOpts{
		Name: "churchsync_last_success_timestamp_seconds",
		Help: "Unix time of the last successful run per job",
	}, []string{"job"})

	runFailuresTotal = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "churchsync_run_failures_total",
		Help: "Runs that terminated with an error",
	}, []string{"job"})
)

// RecordAction counts one remote action against target.
func RecordAction(target, action string) {
	syncActionsTotal.WithLabelValues(target, action).Inc()
}

// RecordFailure counts one skipped record.
func RecordFailure(target, reason string) {
	recordFailuresTotal.WithLabelValues(target, reason).Inc()
}

// RecordRun stores the outcome of a finished run.
func RecordRun(job string, started time.Time, err error) {
	runDuration.WithLabelValues(job).Set(time.Since(started).Seconds())
	if err != nil {
		runFailuresTotal.WithLabelValues(job).Inc()
		return
	}
	lastSuccess.WithLabelValues(job).SetToCurrentTime()
}

// Push sends the registry to the Pushgateway at url, grouped by job.
func Push(ctx context.Context, url, job string) error {
	if url == "" {
		return nil
	}
	if err := push.New(url, "churchsync").Grouping("job_name", job).Gatherer(Registry).PushContext(ctx); err != nil {
		return fmt.Errorf("metrics: push to %s: %w", url, err)
	}
	return nil
}
