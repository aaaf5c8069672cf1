package domain

import (
	"time"
)

// QueryType classifies what a natural-language query is asking about.
type QueryType string

const (
	QueryTypeGeographic  QueryType = "geographic"
	QueryTypeTemporal    QueryType = "temporal"
	QueryTypeMeasurement QueryType = "measurement"
	QueryTypeStatistical QueryType = "statistical"
	// Comparative and Trend are declared for forward compatibility; no
	// extraction pass populates them yet.
	QueryTypeComparative QueryType = "comparative"
	QueryTypeTrend       QueryType = "trend"
)

// MeasurementCategory is one of the oceanographic variables a query can ask
// about.
type MeasurementCategory string

const (
	MeasurementTemperature MeasurementCategory = "temperature"
	MeasurementSalinity    MeasurementCategory = "salinity"
	MeasurementPressure    MeasurementCategory = "pressure"
	MeasurementDepth       MeasurementCategory = "depth"
	MeasurementDensity     MeasurementCategory = "density"
)

// GeographicBounds is a named ocean region with its bounding box.
type GeographicBounds struct {
	Name   string `json:"name"`
	Bounds Bounds `json:"bounds"`
}

// TemporalFilter restricts a query to a time window. If both StartDate and
// EndDate are set, StartDate <= EndDate. A month+year pair is always
// normalised to a full calendar-month range at extraction time.
type TemporalFilter struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Month     int        `json:"month,omitempty"` // 1..12, 0 = unset
	Year      int        `json:"year,omitempty"`  // 0 = unset
	Season    string     `json:"season,omitempty"`
}

// SingleDay reports whether the filter pins one calendar day exactly.
func (t *TemporalFilter) SingleDay() bool {
	return t.StartDate != nil && t.EndDate != nil && t.StartDate.Equal(*t.EndDate)
}

// QueryIntent is the structured interpretation of a free-text query. It is
// built once per query, immutable after construction, and owned by the call
// that produced it.
type QueryIntent struct {
	RawQuery              string                `json:"raw_query"`
	QueryTypes            []QueryType           `json:"query_types"`
	GeographicBounds      *GeographicBounds     `json:"geographic_bounds,omitempty"`
	TemporalFilter        *TemporalFilter       `json:"temporal_filter,omitempty"`
	MeasurementTypes      []MeasurementCategory `json:"measurement_types,omitempty"`
	StatisticalOperations []string              `json:"statistical_operations,omitempty"`
	Keywords              []string              `json:"keywords,omitempty"`
	Confidence            float64               `json:"confidence"`
}

// HasType reports whether the intent was tagged with the given query type.
func (q *QueryIntent) HasType(t QueryType) bool {
	for _, qt := range q.QueryTypes {
		if qt == t {
			return true
		}
	}
	return false
}
