// Package metrics turns protocol events into Prometheus metrics.
//
// Collector implements log.Logger, so it can be set as (or combined into)
// sslconn.Config.ProtocolLogger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rpcssl/rpcssl-go/pkg/log"
)

const namespace = "rpcssl"

// summaryObjectives returns the quantiles tracked by duration summaries.
func summaryObjectives() map[float64]float64 {
	return map[float64]float64{
		0.5:  0.010,
		0.9:  0.010,
		0.99: 0.001,
	}
}

// Collector records connection events.
type Collector struct {
	handshakes        *prometheus.CounterVec
	handshakeDuration *prometheus.SummaryVec
	handshakePolls    prometheus.Histogram
	transitions       *prometheus.CounterVec
	connected         prometheus.Gauge
	bytes             *prometheus.CounterVec
	ioPolls           *prometheus.CounterVec
	verifications     *prometheus.CounterVec
	errors            *prometheus.CounterVec
}

// NewCollector registers the metrics with reg. A nil reg uses the default
// registerer.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Collector{
		handshakes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handshakes_total",
			Help:      "Handshake, renegotiation and close_notify exchanges by outcome",
		}, []string{"role", "kind", "outcome"}),

		handshakeDuration: f.NewSummaryVec(prometheus.SummaryOpts{
			Namespace:  namespace,
			Name:       "handshake_duration_seconds",
			Help:       "Time spent in completed handshakes",
			Objectives: summaryObjectives(),
		}, []string{"role", "kind"}),

		handshakePolls: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "handshake_polls",
			Help:      "Readiness waits per completed handshake",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32},
		}),

		transitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "phase_transitions_total",
			Help:      "Connection phase changes",
		}, []string{"from", "to"}),

		connected: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_connected",
			Help:      "Connections currently in the CONNECTED phase",
		}),

		bytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "application_bytes_total",
			Help:      "Application bytes transferred",
		}, []string{"direction"}),

		ioPolls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "io_polls_total",
			Help:      "Readiness waits during application reads and writes",
		}, []string{"direction"}),

		verifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verifications_total",
			Help:      "Certificate verifier verdicts",
		}, []string{"result"}),

		errors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Failed operations by error kind",
		}, []string{"op", "kind"}),
	}
}

// Log implements log.Logger.
func (c *Collector) Log(event log.Event) {
	role := event.Role.String()

	switch {
	case event.StateChange != nil:
		sc := event.StateChange
		c.transitions.WithLabelValues(sc.OldPhase, sc.NewPhase).Inc()
		if sc.NewPhase == "CONNECTED" {
			c.connected.Inc()
		} else if sc.OldPhase == "CONNECTED" {
			c.connected.Dec()
		}

	case event.Handshake != nil:
		hs := event.Handshake
		kind := hs.Kind.String()
		c.handshakes.WithLabelValues(role, kind, hs.Outcome.String()).Inc()
		if hs.Outcome == log.OutcomeCompleted && hs.Kind != log.HandshakeCloseNotify {
			c.handshakeDuration.WithLabelValues(role, kind).Observe(hs.Duration.Seconds())
			c.handshakePolls.Observe(float64(hs.Polls))
		}

	case event.IO != nil:
		dir := event.IO.Direction.String()
		c.bytes.WithLabelValues(dir).Add(float64(event.IO.Transferred))
		c.ioPolls.WithLabelValues(dir).Add(float64(event.IO.Polls))

	case event.Verify != nil:
		result := "rejected"
		if event.Verify.Accepted {
			result = "accepted"
		}
		c.verifications.WithLabelValues(result).Inc()

	case event.Error != nil:
		c.errors.WithLabelValues(event.Error.Op, event.Error.Kind).Inc()
	}
}

var _ log.Logger = (*Collector)(nil)
