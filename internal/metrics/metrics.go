// Package metrics holds the Prometheus counters for the orchestration core.
// Labels never carry asset or file ids.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orchestrator_jobs_published_total",
		Help: "Jobs accepted by a queue, by queue name.",
	}, []string{"queue"})

	JobPublishFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orchestrator_job_publish_failures_total",
		Help: "Jobs the queue refused or could not receive, by queue name.",
	}, []string{"queue"})

	JobsRepublishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orchestrator_jobs_republished_total",
		Help: "Jobs republished by reconciliation after being lost.",
	})

	FilesVerifiedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orchestrator_files_verified_total",
		Help: "In-flight files inspected by reconciliation.",
	})

	EventsConsumedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orchestrator_events_consumed_total",
		Help: "Status events taken off the bus, by kind and result.",
	}, []string{"kind", "result"})

	DirectoriesRemovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orchestrator_local_directories_removed_total",
		Help: "Local working directories removed by disk reclamation.",
	})

	UnknownHeightFallbackTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orchestrator_unknown_height_fallback_total",
		Help: "Processing jobs routed to the lowest rung because their height is not on the ladder.",
	})
)

const (
	ResultHandled = "handled"
	ResultIgnored = "ignored"
	ResultError   = "error"
	ResultInvalid = "invalid"
)
