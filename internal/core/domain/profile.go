package domain

import (
	"time"
)

// Profile is one oceanographic measurement record: a float surfacing at a
// location on a date, carrying a nested per-variable measurement payload.
// OceanData maps canonical variable keys (temp, psal, pres, ...) to either a
// scalar or a sequence of float samples, as stored in JSONB.
type Profile struct {
	ID             int64          `json:"profile_id"`
	Location       GeoPoint       `json:"location"`
	Date           time.Time      `json:"date"`
	Institution    string         `json:"institution"`
	PlatformNumber string         `json:"platform_number,omitempty"`
	PositionQC     int            `json:"position_qc"`
	OceanData      map[string]any `json:"ocean_data,omitempty"`
	FilePath       string         `json:"file_path,omitempty"`
	Distance       *float64       `json:"distance,omitempty"` // computed field
	CreatedAt      time.Time      `json:"created_at"`
}

// CorpusSummary is the server-side aggregate over all profiles matching a
// predicate set. It is computed in a single storage round trip, never by
// reducing rows client-side.
type CorpusSummary struct {
	ProfileCount     int64      `json:"profile_count"`
	DateMin          *time.Time `json:"date_min,omitempty"`
	DateMax          *time.Time `json:"date_max,omitempty"`
	LatMin           float64    `json:"lat_min"`
	LatMax           float64    `json:"lat_max"`
	LonMin           float64    `json:"lon_min"`
	LonMax           float64    `json:"lon_max"`
	LatAvg           float64    `json:"lat_avg"`
	LonAvg           float64    `json:"lon_avg"`
	InstitutionCount int        `json:"institution_count"`
	InstitutionNames []string   `json:"institution_names,omitempty"`
}
