package domain

import (
	"time"
)

// DateRange is a half-open-free date predicate: either an inclusive range or,
// when Equality is set, an exact match on a single calendar day (which lets
// the storage layer use an equality index path).
type DateRange struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Equality bool      `json:"equality"`
}

// PredicateSet is the backend-agnostic filter compiled from a QueryIntent.
// Absent fields simply produce fewer predicates.
type PredicateSet struct {
	BoundingBox         *GeographicBounds     `json:"bounding_box,omitempty"`
	DateRange           *DateRange            `json:"date_range,omitempty"`
	MeasurementPresence []MeasurementCategory `json:"measurement_presence,omitempty"`
}

// Empty reports whether the set constrains nothing.
func (p PredicateSet) Empty() bool {
	return p.BoundingBox == nil && p.DateRange == nil && len(p.MeasurementPresence) == 0
}
