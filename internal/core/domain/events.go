package domain

import (
	"time"
)

// QueryExecutedEvent is published after each handled query; the WebSocket
// relay streams these to connected dashboards.
type QueryExecutedEvent struct {
	Query         string      `json:"query"`
	QueryTypes    []QueryType `json:"query_types,omitempty"`
	Region        string      `json:"region,omitempty"`
	Confidence    float64     `json:"confidence"`
	ProfileCount  int64       `json:"profile_count"`
	IntentApplied bool        `json:"intent_applied"`
	DurationMS    int64       `json:"duration_ms"`
	Time          time.Time   `json:"time"`
}

// ProfilesIngestedEvent is published when a batch of profiles lands in the
// store. Consumers use it to invalidate cached corpus statistics.
type ProfilesIngestedEvent struct {
	Count       int       `json:"count"`
	Source      string    `json:"source"`
	Institution string    `json:"institution,omitempty"`
	Time        time.Time `json:"time"`
}
