package usecases_test

import (
	"testing"
	"time"

	"github.com/oceanlab/argoscout/internal/core/domain"
	"github.com/oceanlab/argoscout/internal/core/usecases"
)

func TestCompileFilters_TemporalOnly(t *testing.T) {
	start := time.Date(2004, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2004, 7, 31, 0, 0, 0, 0, time.UTC)
	intent := &domain.QueryIntent{
		TemporalFilter: &domain.TemporalFilter{StartDate: &start, EndDate: &end},
	}

	preds := usecases.CompileFilters(intent)

	if preds.BoundingBox != nil {
		t.Error("expected no bounding box")
	}
	if preds.DateRange == nil {
		t.Fatal("expected date range")
	}
	if !preds.DateRange.Start.Equal(start) || !preds.DateRange.End.Equal(end) {
		t.Errorf("range %s..%s does not match filter", preds.DateRange.Start, preds.DateRange.End)
	}
	if preds.DateRange.Equality {
		t.Error("multi-day range must not compile to an equality predicate")
	}
}

func TestCompileFilters_SingleDayEquality(t *testing.T) {
	day := time.Date(2010, 3, 14, 0, 0, 0, 0, time.UTC)
	intent := &domain.QueryIntent{
		TemporalFilter: &domain.TemporalFilter{StartDate: &day, EndDate: &day},
	}

	preds := usecases.CompileFilters(intent)
	if preds.DateRange == nil || !preds.DateRange.Equality {
		t.Fatalf("expected single-day equality predicate, got %+v", preds.DateRange)
	}
}

func TestCompileFilters_EmptyIntent(t *testing.T) {
	preds := usecases.CompileFilters(&domain.QueryIntent{RawQuery: "anything"})
	if !preds.Empty() {
		t.Errorf("expected empty predicate set, got %+v", preds)
	}
	if !usecases.CompileFilters(nil).Empty() {
		t.Error("nil intent must compile to an empty predicate set")
	}
}

func TestCompileFilters_CopiesBounds(t *testing.T) {
	intent := &domain.QueryIntent{
		GeographicBounds: &domain.GeographicBounds{
			Name:   "Red Sea",
			Bounds: domain.Bounds{MinLat: 12, MaxLat: 30, MinLon: 32, MaxLon: 43},
		},
		MeasurementTypes: []domain.MeasurementCategory{domain.MeasurementSalinity},
	}

	preds := usecases.CompileFilters(intent)
	if preds.BoundingBox == nil || preds.BoundingBox.Name != "Red Sea" {
		t.Fatalf("expected Red Sea bounding box, got %+v", preds.BoundingBox)
	}
	if preds.BoundingBox == intent.GeographicBounds {
		t.Error("predicate set must not alias the intent's bounds")
	}
	if len(preds.MeasurementPresence) != 1 || preds.MeasurementPresence[0] != domain.MeasurementSalinity {
		t.Errorf("expected salinity presence predicate, got %v", preds.MeasurementPresence)
	}
}
