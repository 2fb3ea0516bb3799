package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Mining metric names
const (
	MetricNameMiningAttempts      = "mining_attempts_total"
	MetricNameMiningTxDuration    = "mining_tx_duration_seconds"
	MetricNameMiningReplays       = "mining_replays_total"
	MetricNameResourcesMined      = "resources_mined_total"
	MetricNameFraudFlags          = "mining_fraud_flags_total"
	MetricNameAdmissionRejections = "admission_rejections_total"
	MetricNameNodesRespawned      = "nodes_respawned_total"
)

// Claim metric names
const (
	MetricNameClaimsIssued       = "claims_issued_total"
	MetricNameClaimTokensIssued  = "claim_tokens_issued_total"
	MetricNameClaimsConfirmed    = "claims_confirmed_total"
	MetricNameClaimTokensSettled = "claim_tokens_settled_total"
	MetricNameClaimRejections    = "claim_rejections_total"
)

// Realtime metric names
const (
	MetricNameRealtimeConnections = "realtime_connections"
	MetricNameRealtimeMessages    = "realtime_messages_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Mining metric help text
const (
	HelpTextMiningAttempts      = "Total number of mining attempts by outcome and reason"
	HelpTextMiningTxDuration    = "Mining transaction latency in seconds"
	HelpTextMiningReplays       = "Total number of mining attempts answered from the audit log"
	HelpTextResourcesMined      = "Total resource units credited by mining"
	HelpTextFraudFlags          = "Total number of fraud flags raised on mining attempts"
	HelpTextAdmissionRejections = "Total number of mining requests rejected before the transaction"
	HelpTextNodesRespawned      = "Total number of nodes returned to available by the sweep"
)

// Claim metric help text
const (
	HelpTextClaimsIssued       = "Total number of claim signatures issued"
	HelpTextClaimTokensIssued  = "Total token units covered by issued claims"
	HelpTextClaimsConfirmed    = "Total number of claims confirmed by settlement"
	HelpTextClaimTokensSettled = "Total token units settled on chain"
	HelpTextClaimRejections    = "Total number of claim requests rejected by reason"
)

// Realtime metric help text
const (
	HelpTextRealtimeConnections = "Current number of open realtime connections"
	HelpTextRealtimeMessages    = "Total number of inbound realtime messages by type"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod   = "method"
	LabelPath     = "path"
	LabelStatus   = "status"
	LabelType     = "type"
	LabelOutcome  = "outcome"
	LabelReason   = "reason"
	LabelResource = "resource"
	LabelFlag     = "flag"
)

// Outcome label values
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds. These buckets range from 1ms to 10s to capture various latency
// patterns: fast (1-10ms), normal (10-100ms), slow (100ms-1s), very slow (1-10s)
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// MiningLatencyBuckets covers row-lock transactions from 0.5ms to 1s
var MiningLatencyBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgPayloadDecodeFailed = "Failed to decode event payload for metrics"
	LogMsgMetricsRecorded     = "Metrics recorded for event"
)
