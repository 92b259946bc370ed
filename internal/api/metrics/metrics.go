// Package metrics defines and registers the custom Prometheus metrics for
// the access API. It is the single source of truth for metric names, labels,
// and help strings; metrics register with the default registry at import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "access"

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "invalid_credentials", "banned", or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by outcome.",
	},
	[]string{"result"},
)

// SessionsRevokedTotal counts session revocations by cause.
// Label:
//   - reason: "logout" or "ban"
var SessionsRevokedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_revoked_total",
		Help:      "Total number of sessions revoked, labelled by reason.",
	},
	[]string{"reason"},
)

// GateRejectionsTotal counts requests turned away at the access-control gate.
// The caller always sees a uniform unauthorized response; the label carries
// the internal reason.
// Label:
//   - reason: "missing_token", "invalid_token", "session_not_found",
//     or "banned"
var GateRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_rejections_total",
		Help:      "Total number of requests rejected by the access-control gate.",
	},
	[]string{"reason"},
)

// PresenceTouchesDropped counts last-seen refreshes discarded because the
// recorder's queue was full.
var PresenceTouchesDropped = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "presence_touches_dropped_total",
		Help:      "Total number of presence updates dropped due to backpressure.",
	},
)
