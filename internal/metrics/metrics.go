package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Mining Metrics
var (
	MiningAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameMiningAttempts,
			Help: HelpTextMiningAttempts,
		},
		[]string{LabelOutcome, LabelReason},
	)

	MiningTxDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameMiningTxDuration,
			Help:    HelpTextMiningTxDuration,
			Buckets: MiningLatencyBuckets,
		},
	)

	MiningReplays = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameMiningReplays,
			Help: HelpTextMiningReplays,
		},
	)

	ResourcesMined = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameResourcesMined,
			Help: HelpTextResourcesMined,
		},
		[]string{LabelResource},
	)

	FraudFlags = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameFraudFlags,
			Help: HelpTextFraudFlags,
		},
		[]string{LabelFlag},
	)

	AdmissionRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAdmissionRejections,
			Help: HelpTextAdmissionRejections,
		},
		[]string{LabelReason},
	)

	NodesRespawned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameNodesRespawned,
			Help: HelpTextNodesRespawned,
		},
	)
)

// Claim Metrics
var (
	ClaimsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameClaimsIssued,
			Help: HelpTextClaimsIssued,
		},
	)

	ClaimTokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameClaimTokensIssued,
			Help: HelpTextClaimTokensIssued,
		},
	)

	ClaimsConfirmed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameClaimsConfirmed,
			Help: HelpTextClaimsConfirmed,
		},
	)

	ClaimTokensSettled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameClaimTokensSettled,
			Help: HelpTextClaimTokensSettled,
		},
	)

	ClaimRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameClaimRejections,
			Help: HelpTextClaimRejections,
		},
		[]string{LabelReason},
	)
)

// Realtime Metrics
var (
	RealtimeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameRealtimeConnections,
			Help: HelpTextRealtimeConnections,
		},
	)

	RealtimeMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRealtimeMessages,
			Help: HelpTextRealtimeMessages,
		},
		[]string{LabelType},
	)
)
