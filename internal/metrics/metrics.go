package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Connection metrics
	ConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sentryline_receiver_connections_active",
			Help: "Number of currently open panel connections",
		},
	)

	ConnectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentryline_receiver_connections_total",
			Help: "Total number of accepted panel connections",
		},
	)

	// Message metrics
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentryline_receiver_messages_total",
			Help: "Total number of framed messages by protocol and outcome",
		},
		[]string{"protocol", "outcome"},
	)

	MessageBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentryline_receiver_message_bytes_total",
			Help: "Total bytes of framed message data received",
		},
	)

	FramingFaults = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentryline_receiver_framing_faults_total",
			Help: "Total number of oversized or unframeable messages",
		},
	)

	// Acknowledgment metrics
	AcksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentryline_receiver_acks_total",
			Help: "Total number of ACK bytes written to panels",
		},
	)

	AckFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentryline_receiver_ack_failures_total",
			Help: "Total number of failed ACK writes",
		},
	)

	// Storage metrics
	StoreDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentryline_receiver_store_duration_seconds",
			Help:    "Duration of event persistence in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	StoreErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentryline_receiver_store_errors_total",
			Help: "Total number of event persistence failures",
		},
	)

	// Broadcast metrics
	BroadcastSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sentryline_receiver_broadcast_subscribers",
			Help: "Number of live-monitor sessions currently subscribed",
		},
	)

	BroadcastDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentryline_receiver_broadcast_dropped_total",
			Help: "Total number of events dropped for slow or dead subscribers",
		},
	)

	// Rate limiting metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentryline_receiver_rate_limit_hits_total",
			Help: "Total number of messages rejected by the per-account rate limit",
		},
		[]string{"account"},
	)
)
