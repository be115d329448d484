// Package metrics defines the custom Prometheus metrics of the catalog
// service. HTTP request metrics come from echoprometheus; this package holds
// the domain counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalog"

// ── Authorization ─────────────────────────────────────────────────────────────

// AccessDeniedTotal counts requests refused by the authorization gate.
// Label:
//   - surface: "page" (redirected to sign-in) or "api" (401)
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests denied by the authorization gate.",
	},
	[]string{"surface"},
)

// SignInsTotal counts sign-in attempts.
// Label:
//   - result: "ok", "rejected" or "error"
var SignInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sign_ins_total",
		Help:      "Total number of sign-in attempts, by result.",
	},
	[]string{"result"},
)

// SignUpsTotal counts accounts created through the public sign-up endpoint.
var SignUpsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sign_ups_total",
		Help:      "Total number of customer accounts created by sign-up.",
	},
)

// ── Records ───────────────────────────────────────────────────────────────────

// RecordsMutatedTotal counts successful dashboard writes.
// Labels:
//   - collection: e.g. "destinations", "policies"
//   - op: "create", "update", "delete"
var RecordsMutatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_mutated_total",
		Help:      "Total number of records created, updated or deleted from the dashboard.",
	},
	[]string{"collection", "op"},
)

// DeleteMissingTotal counts deletes of ids that did not exist.
var DeleteMissingTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "delete_missing_total",
		Help:      "Total number of deletes addressed to records that did not exist.",
	},
	[]string{"collection"},
)

// SubmissionsRejectedTotal counts create forms rejected as double submissions.
var SubmissionsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submissions_rejected_total",
		Help:      "Total number of duplicate create submissions rejected.",
	},
	[]string{"collection"},
)

// ── Content ───────────────────────────────────────────────────────────────────

// BlocksDroppedTotal counts content blocks that rendered as absent.
var BlocksDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "content_blocks_dropped_total",
		Help:      "Total number of content blocks skipped because their payload could not be rendered.",
	},
)

// ── Status notifications ─────────────────────────────────────────────────────

// StatusDeliveriesTotal counts processed booking status changes.
// Label:
//   - result: "ok" or "error"
var StatusDeliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_deliveries_total",
		Help:      "Total number of booking status changes delivered to their owner.",
	},
	[]string{"result"},
)

// StatusQueueDepth tracks pending status changes per dispatcher worker.
var StatusQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "status_queue_depth",
		Help:      "Current number of status changes pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// StatusDroppedTotal counts status changes dropped because a queue was full.
var StatusDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_dropped_total",
		Help:      "Total number of status changes dropped on a full queue.",
	},
)

// QueueObserver feeds dispatcher events into the status metrics.
type QueueObserver struct{}

func (QueueObserver) Depth(worker string, n int) {
	StatusQueueDepth.WithLabelValues(worker).Set(float64(n))
}

func (QueueObserver) Result(ok bool) {
	if ok {
		StatusDeliveriesTotal.WithLabelValues("ok").Inc()
		return
	}
	StatusDeliveriesTotal.WithLabelValues("error").Inc()
}

func (QueueObserver) Dropped() { StatusDroppedTotal.Inc() }
