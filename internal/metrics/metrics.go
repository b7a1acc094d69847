// Package metrics exposes the Prometheus collectors vestd registers for its
// RPC surface and its vesting engine, following the lazily-initialised
// singleton-registry pattern of the teacher's observability package
// (metrics.go): one struct per concern, a sync.Once-guarded constructor, and
// nil-receiver-safe methods so call sites never need a presence check.
package metrics

import (
	"math"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	rpcOnce sync.Once
	rpcReg  *RPCMetrics

	engineOnce sync.Once
	engineReg  *EngineMetrics
)

// RPCMetrics tracks request volume, errors, latency, and throttling for the
// JSON-RPC surface.
type RPCMetrics struct {
	requests  *prometheus.CounterVec
	errors    *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	throttles *prometheus.CounterVec
}

// RPC returns the lazily-initialised RPC metrics registry.
func RPC() *RPCMetrics {
	rpcOnce.Do(func() {
		rpcReg = &RPCMetrics{
			requests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "vestd",
				Subsystem: "rpc",
				Name:      "requests_total",
				Help:      "Total RPC requests segmented by method and outcome.",
			}, []string{"method", "outcome"}),
			errors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "vestd",
				Subsystem: "rpc",
				Name:      "errors_total",
				Help:      "Total RPC errors segmented by method and status code.",
			}, []string{"method", "status"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "vestd",
				Subsystem: "rpc",
				Name:      "request_duration_seconds",
				Help:      "Latency distribution for RPC handlers.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"method"}),
			throttles: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "vestd",
				Subsystem: "rpc",
				Name:      "throttles_total",
				Help:      "Count of requests rejected by the claim endpoint's rate limiter.",
			}, []string{"method", "reason"}),
		}
		prometheus.MustRegister(rpcReg.requests, rpcReg.errors, rpcReg.latency, rpcReg.throttles)
	})
	return rpcReg
}

// Observe records the outcome of an RPC request.
func (m *RPCMetrics) Observe(method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	if method = strings.TrimSpace(method); method == "" {
		method = "unknown"
	}
	outcome := "success"
	if status >= 400 {
		outcome = "error"
		m.errors.WithLabelValues(method, statusLabel(status)).Inc()
	}
	m.requests.WithLabelValues(method, outcome).Inc()
	m.latency.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordThrottle increments the throttle counter for method/reason.
func (m *RPCMetrics) RecordThrottle(method, reason string) {
	if m == nil {
		return
	}
	if method = strings.TrimSpace(method); method == "" {
		method = "unknown"
	}
	if reason = strings.TrimSpace(reason); reason == "" {
		reason = "unspecified"
	}
	m.throttles.WithLabelValues(method, reason).Inc()
}

// EngineMetrics tracks vesting engine activity: releases, claims, revokes,
// committed-vs-available balances, and the pause guard.
type EngineMetrics struct {
	releases       *prometheus.CounterVec
	releaseAmount  *prometheus.HistogramVec
	claims         *prometheus.CounterVec
	revokes        prometheus.Counter
	committedTotal prometheus.Gauge
	withdrawable   prometheus.Gauge
	pauseEngaged   prometheus.Gauge
	errors         *prometheus.CounterVec
}

// Engine returns the lazily-initialised vesting engine metrics registry.
func Engine() *EngineMetrics {
	engineOnce.Do(func() {
		engineReg = &EngineMetrics{
			releases: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "vestd",
				Subsystem: "engine",
				Name:      "releases_total",
				Help:      "Count of successful token releases.",
			}, []string{"trigger"}),
			releaseAmount: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "vestd",
				Subsystem: "engine",
				Name:      "release_amount_tokens",
				Help:      "Distribution of released token amounts, in whole tokens.",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
			}, []string{"trigger"}),
			claims: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "vestd",
				Subsystem: "engine",
				Name:      "claims_total",
				Help:      "Count of self-claims segmented by whether a per-unit payment was required.",
			}, []string{"kind"}),
			revokes: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "vestd",
				Subsystem: "engine",
				Name:      "revokes_total",
				Help:      "Count of schedule revocations.",
			}),
			committedTotal: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "vestd",
				Subsystem: "engine",
				Name:      "committed_total_tokens",
				Help:      "Unreleased principal (AmountTotal minus Released) committed across all schedules, in whole tokens.",
			}),
			withdrawable: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "vestd",
				Subsystem: "engine",
				Name:      "withdrawable_tokens",
				Help:      "Tokens held in escrow that are not committed to any schedule, in whole tokens.",
			}),
			pauseEngaged: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "vestd",
				Subsystem: "engine",
				Name:      "pause_engaged",
				Help:      "Indicates whether the create/claim pause guard is active (1) or not (0).",
			}),
			errors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "vestd",
				Subsystem: "engine",
				Name:      "errors_total",
				Help:      "Count of engine operation failures segmented by operation and reason.",
			}, []string{"operation", "reason"}),
		}
		prometheus.MustRegister(
			engineReg.releases,
			engineReg.releaseAmount,
			engineReg.claims,
			engineReg.revokes,
			engineReg.committedTotal,
			engineReg.withdrawable,
			engineReg.pauseEngaged,
			engineReg.errors,
		)
	})
	return engineReg
}

// RecordRelease records a successful release, trigger being "beneficiary" or
// "release_all".
func (m *EngineMetrics) RecordRelease(trigger string, amount *big.Int) {
	if m == nil {
		return
	}
	m.releases.WithLabelValues(trigger).Inc()
	m.releaseAmount.WithLabelValues(trigger).Observe(tokensToFloat(amount))
}

// RecordClaim records a successful self-claim, kind being "free" or "paid".
func (m *EngineMetrics) RecordClaim(kind string) {
	if m == nil {
		return
	}
	m.claims.WithLabelValues(kind).Inc()
}

// RecordRevoke increments the revocation counter.
func (m *EngineMetrics) RecordRevoke() {
	if m == nil {
		return
	}
	m.revokes.Inc()
}

// SetCommittedTotal updates the committed-principal gauge.
func (m *EngineMetrics) SetCommittedTotal(total *big.Int) {
	if m == nil {
		return
	}
	m.committedTotal.Set(tokensToFloat(total))
}

// SetWithdrawable updates the free-balance gauge.
func (m *EngineMetrics) SetWithdrawable(amount *big.Int) {
	if m == nil {
		return
	}
	m.withdrawable.Set(tokensToFloat(amount))
}

// SetPause toggles the pause_engaged gauge.
func (m *EngineMetrics) SetPause(engaged bool) {
	if m == nil {
		return
	}
	if engaged {
		m.pauseEngaged.Set(1)
		return
	}
	m.pauseEngaged.Set(0)
}

// RecordError increments the error counter for operation/reason.
func (m *EngineMetrics) RecordError(operation string, reason error) {
	if m == nil {
		return
	}
	if operation = strings.TrimSpace(operation); operation == "" {
		operation = "unknown"
	}
	label := "unspecified"
	if reason != nil {
		if trimmed := strings.TrimSpace(reason.Error()); trimmed != "" {
			label = trimmed
		}
	}
	m.errors.WithLabelValues(operation, label).Inc()
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	default:
		return "2xx"
	}
}

// tokensToFloat renders an 18-decimal token amount as whole tokens for
// Prometheus gauges, which have no fixed-point representation.
func tokensToFloat(amount *big.Int) float64 {
	if amount == nil {
		return 0
	}
	scale := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
	whole := new(big.Float).Quo(new(big.Float).SetInt(amount), scale)
	f, acc := whole.Float64()
	if acc != big.Exact && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return 0
	}
	return f
}
