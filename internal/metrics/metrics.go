// Package metrics exposes Prometheus counters for the bonus engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// BonusMetrics groups the engine's collectors. A nil *BonusMetrics is valid
// and records nothing.
type BonusMetrics struct {
	groupsCreated   *prometheus.CounterVec
	groupsRedeemed  prometheus.Counter
	redeemedCents   prometheus.Counter
	groupsDeleted   prometheus.Counter
	failures        *prometheus.CounterVec
	autosaves       *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

var (
	bonusOnce     sync.Once
	bonusRegistry *BonusMetrics
)

// Bonus returns the process-wide metrics, registering them on first use.
func Bonus() *BonusMetrics {
	bonusOnce.Do(func() {
		bonusRegistry = &BonusMetrics{
			groupsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "bonus_groups_created_total",
				Help: "Bonus groups created, by mode (manual, draft, auto).",
			}, []string{"mode"}),
			groupsRedeemed: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "bonus_groups_redeemed_total",
				Help: "Bonus groups redeemed by staff.",
			}),
			redeemedCents: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "bonus_redeemed_cents_total",
				Help: "Sum of discounts handed out, in cents.",
			}),
			groupsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "bonus_groups_deleted_total",
				Help: "Active bonus groups deleted.",
			}),
			failures: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "bonus_operation_failures_total",
				Help: "Failed engine operations by operation and error kind.",
			}, []string{"op", "kind"}),
			autosaves: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "bonus_draft_autosaves_total",
				Help: "Draft autosave attempts by outcome.",
			}, []string{"outcome"}),
			requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "bonus_http_request_duration_seconds",
				Help:    "REST request latency by route and status.",
				Buckets: prometheus.DefBuckets,
			}, []string{"route", "status"}),
		}
		prometheus.MustRegister(
			bonusRegistry.groupsCreated,
			bonusRegistry.groupsRedeemed,
			bonusRegistry.redeemedCents,
			bonusRegistry.groupsDeleted,
			bonusRegistry.failures,
			bonusRegistry.autosaves,
			bonusRegistry.requestDuration,
		)
	})
	return bonusRegistry
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func (m *BonusMetrics) ObserveGroupCreated(mode string) {
	if m == nil {
		return
	}
	m.groupsCreated.WithLabelValues(mode).Inc()
}

func (m *BonusMetrics) ObserveRedeemed(cents int64) {
	if m == nil {
		return
	}
	m.groupsRedeemed.Inc()
	if cents > 0 {
		m.redeemedCents.Add(float64(cents))
	}
}

func (m *BonusMetrics) ObserveDeleted() {
	if m == nil {
		return
	}
	m.groupsDeleted.Inc()
}

func (m *BonusMetrics) ObserveFailure(op, kind string) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	m.failures.WithLabelValues(op, kind).Inc()
}

func (m *BonusMetrics) ObserveAutosave(outcome string) {
	if m == nil {
		return
	}
	m.autosaves.WithLabelValues(outcome).Inc()
}

func (m *BonusMetrics) ObserveRequest(route, status string, seconds float64) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requestDuration.WithLabelValues(route, status).Observe(seconds)
}
