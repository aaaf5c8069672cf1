package domain

import (
	"time"
)

// MeasurementStats are summary statistics for one measurement category,
// computed from a bounded sample of the matching profiles. They are sample
// estimates, not exact corpus aggregates.
type MeasurementStats struct {
	Average      float64 `json:"average"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	StdDeviation float64 `json:"std_deviation"` // 0 if fewer than 2 samples
	SampleCount  int     `json:"sample_count"`
	Unit         string  `json:"unit"`
}

// ResultDateRange is the date span of the matched profiles.
type ResultDateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// ResultBounds describes the spatial spread of the matched profiles.
type ResultBounds struct {
	LatRange [2]float64 `json:"latitude_range"`
	LonRange [2]float64 `json:"longitude_range"`
	Centroid GeoPoint   `json:"centroid"`
}

// ResultInstitutions lists the distinct contributing institutions.
type ResultInstitutions struct {
	Count int      `json:"count"`
	Names []string `json:"names"`
}

// AggregatedResult is the structured answer to a query: a corpus-level
// summary plus per-category measurement statistics over at most the sample
// cap of records. Built fresh per query, never persisted or shared.
type AggregatedResult struct {
	ProfileCount     int64                                    `json:"profile_count"`
	DateRange        ResultDateRange                          `json:"date_range"`
	GeographicBounds ResultBounds                             `json:"geographic_bounds"`
	Institutions     ResultInstitutions                       `json:"institutions"`
	Measurements     map[MeasurementCategory]MeasurementStats `json:"measurements"`
}
