package usecases

import (
	"github.com/oceanlab/argoscout/internal/core/domain"
)

// CompileFilters converts a parsed intent into a backend-agnostic predicate
// set. Pure function: no I/O, never fails — absent intent fields simply
// produce fewer predicates.
func CompileFilters(intent *domain.QueryIntent) domain.PredicateSet {
	var preds domain.PredicateSet
	if intent == nil {
		return preds
	}

	if intent.GeographicBounds != nil {
		box := *intent.GeographicBounds
		preds.BoundingBox = &box
	}

	if tf := intent.TemporalFilter; tf != nil && tf.StartDate != nil && tf.EndDate != nil {
		preds.DateRange = &domain.DateRange{
			Start: *tf.StartDate,
			End:   *tf.EndDate,
			// A single-day filter compiles to an equality predicate so the
			// store can use an equality index path.
			Equality: tf.SingleDay(),
		}
	}

	if len(intent.MeasurementTypes) > 0 {
		preds.MeasurementPresence = append(
			[]domain.MeasurementCategory(nil), intent.MeasurementTypes...,
		)
	}

	return preds
}
