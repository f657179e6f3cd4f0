// Package metrics defines and registers all custom Prometheus metrics for
// the identity API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at package init;
// expose them by mounting promhttp on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// LoginAttemptsTotal counts credential checks.
// Label:
//   - result: "success" or "failure"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// SessionsEvictedTotal counts sessions invalidated because the same
// principal logged in again.
var SessionsEvictedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_evicted_total",
		Help:      "Total number of sessions evicted by a newer login of the same principal.",
	},
)

// SessionsExpiredTotal counts sessions invalidated by the inactivity timeout.
var SessionsExpiredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_expired_total",
		Help:      "Total number of sessions expired after exceeding the inactivity timeout.",
	},
)

// RolesCreatedTotal counts lazily created roles.
// Label:
//   - role: the role name that was created
var RolesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "roles_created_total",
		Help:      "Total number of roles created lazily by the role registry.",
	},
	[]string{"role"},
)

// UsersCreatedTotal counts successfully registered users.
var UsersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of users created.",
	},
)

// AuthorizationDeniedTotal counts requests rejected by the access policy.
// Label:
//   - reason: "unauthenticated" or "forbidden"
var AuthorizationDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denied_total",
		Help:      "Total number of requests denied by the access policy.",
	},
	[]string{"reason"},
)
