// Package metrics defines and registers the custom Prometheus metrics of the
// Oasis API. HTTP request metrics come from the echoprometheus middleware;
// everything here covers domain activity and the background worker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "oasis"

// ── Background tasks ──────────────────────────────────────────────────────────

// TasksProcessedTotal counts tasks that completed successfully.
// Label:
//   - kind: task kind (e.g. "activity", "welcome_email")
var TasksProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_processed_total",
		Help:      "Total number of background tasks processed successfully.",
	},
	[]string{"kind"},
)

// TaskErrorsTotal counts tasks abandoned after their last attempt.
var TaskErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_errors_total",
		Help:      "Total number of background tasks that failed permanently.",
	},
	[]string{"kind"},
)

// TaskRetriesTotal counts retry attempts after a failed try.
var TaskRetriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_retries_total",
		Help:      "Total number of background task retries.",
	},
	[]string{"kind"},
)

// TasksDroppedTotal counts tasks refused because a worker queue was full.
var TasksDroppedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_dropped_total",
		Help:      "Total number of background tasks dropped on a full queue.",
	},
	[]string{"kind"},
)

// TaskDedupTotal counts deduplication decisions.
// Label:
//   - result: "hit" (already done, skipped) or "miss"
var TaskDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_dedup_total",
		Help:      "Total number of task deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// TaskQueueDepth tracks pending tasks per worker channel.
var TaskQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "task_queue_depth",
		Help:      "Current number of tasks pending in each worker channel.",
	},
	[]string{"worker_id"},
)

// TaskProcessingDuration measures a task from dequeue to final outcome, retries included.
var TaskProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "task_processing_duration_seconds",
		Help:      "Duration of background task processing including retries.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)

// ── Domain ────────────────────────────────────────────────────────────────────

// EmailsSentTotal counts outgoing emails.
// Labels:
//   - template: "welcome", "password_reset" or "followup"
//   - result: "ok", "error" or "not_configured"
var EmailsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_sent_total",
		Help:      "Total number of transactional emails attempted.",
	},
	[]string{"template", "result"},
)

// AnalyticsCacheTotal counts analytics cache lookups by result (hit, miss or error).
var AnalyticsCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analytics_cache_total",
		Help:      "Total number of analytics report cache lookups.",
	},
	[]string{"result"},
)

// ImagesStoredTotal counts accepted course image uploads by stored format.
var ImagesStoredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "images_stored_total",
		Help:      "Total number of course images stored, by output format.",
	},
	[]string{"format"},
)
