// Package metrics defines the custom Prometheus metrics for the booking API.
// It is the single source of truth for metric names, labels, and help
// strings. Request-level metrics (latency, status codes) come from the
// echoprometheus middleware; these counters cover the booking domain.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "booking"

// AppointmentsCreatedTotal counts successfully booked appointments.
// Label:
//   - service_id: the catalog service booked against
var AppointmentsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "appointments_created_total",
		Help:      "Total number of appointments successfully created.",
	},
	[]string{"service_id"},
)

// BookingConflictsTotal counts create attempts rejected because the caller
// already held a non-cancelled appointment at that slot.
var BookingConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "conflicts_total",
		Help:      "Total number of double-booking attempts rejected.",
	},
)

// AuthFailuresTotal counts rejected callers.
// Label:
//   - reason: "unauthenticated" (missing/invalid token or credentials) or
//     "forbidden" (valid identity, insufficient role or not the owner)
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of rejected requests, by rejection reason.",
	},
	[]string{"reason"},
)

// ListingCacheTotal counts catalog listing cache decisions.
// Label:
//   - result: "hit" or "miss"
var ListingCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listing_cache_total",
		Help:      "Total number of service listing cache lookups, by result.",
	},
	[]string{"result"},
)
