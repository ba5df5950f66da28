package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Captures entering the pipeline, by origin channel and resulting type.
	CapturesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "captures_processed_total",
			Help: "Total number of captures ingested",
		},
		[]string{"source", "item_type"},
	)

	// Oracle call latency in milliseconds.
	OracleCallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "oracle_call_latency_ms",
			Help:    "Classification oracle call latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(100, 2, 10), // 100ms to ~100s
		},
		[]string{"endpoint", "status"},
	)

	// Times the processor had to fall back to a note.
	ClassificationFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "classification_fallback_total",
			Help: "Total number of oracle failures recovered via the note fallback",
		},
	)

	// Outbound notifications, by severity and delivery status.
	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of webhook notifications attempted",
		},
		[]string{"severity", "status"},
	)

	// Open decisions awaiting a human.
	PendingDecisions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pending_decisions",
			Help: "Number of decisions currently awaiting human resolution",
		},
	)

	// Persistence errors absorbed by the orchestrator.
	PersistenceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persistence_failures_total",
			Help: "Total number of store writes that failed and were logged",
		},
		[]string{"store"},
	)

	// MQ consume latency in milliseconds.
	MQConsumeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mq_consume_latency_ms",
			Help:    "MQ message consumption latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10), // 10ms to ~10s
		},
		[]string{"routing_key"},
	)
)
