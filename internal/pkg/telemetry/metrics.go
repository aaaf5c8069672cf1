package telemetry

// SLI metric names used for instrumentation.
const (
	// Latency
	MetricAPILatencyP50 = "api.latency.p50"
	MetricAPILatencyP95 = "api.latency.p95"
	MetricAPILatencyP99 = "api.latency.p99"

	// Throughput
	MetricRequestsPerSec = "api.requests_per_second"

	// Data freshness
	MetricCorpusAge     = "corpus.data_age_seconds"
	MetricIngestLatency = "ingest.batch_latency"

	// Availability
	MetricUptime = "service.uptime_percentage"

	// Business
	MetricQueriesHandled   = "business.queries_handled"
	MetricProfilesIngested = "business.profiles_ingested"
)
