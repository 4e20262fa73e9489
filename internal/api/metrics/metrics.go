// Package metrics defines and registers all custom Prometheus metrics for
// the task API. It is the single source of truth for metric names, labels,
// and help strings. Collectors register themselves with the default
// registry at import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskhive"

// TasksCreatedTotal counts newly created tasks.
// Label:
//   - status: the status the task was created with ("pending" or "completed")
var TasksCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of tasks created, by initial status.",
	},
	[]string{"status"},
)

// AuthFailuresTotal counts rejected requests at the authentication
// middleware.
// Label:
//   - reason: "missing_header", "bad_scheme", "expired", "malformed", or "missing_subject"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected by the auth middleware, by reason.",
	},
	[]string{"reason"},
)

// CategoryCacheTotal counts category cache lookups.
// Label:
//   - result: "hit" or "miss"
var CategoryCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "category_cache_total",
		Help:      "Total number of category cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ActivityRecordedTotal counts activity entries persisted by the
// background workers.
// Label:
//   - action: "created", "updated", "completed", or "deleted"
var ActivityRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_recorded_total",
		Help:      "Total number of activity entries recorded, by action.",
	},
	[]string{"action"},
)

// ActivityQueueDepth tracks the current number of entries waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of activity entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
