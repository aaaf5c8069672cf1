package postgres

import (
	"strings"
	"testing"
	"time"

	"github.com/oceanlab/argoscout/internal/core/domain"
	"github.com/oceanlab/argoscout/internal/core/lexicon"
)

func newRepo() *ProfileRepo {
	return NewProfileRepo(nil, lexicon.New())
}

func TestBuildWhere_Empty(t *testing.T) {
	where, args := newRepo().buildWhere(domain.PredicateSet{}, nil)
	if where != "" || len(args) != 0 {
		t.Errorf("expected no clause, got %q with %v", where, args)
	}
}

func TestBuildWhere_BoxAndRange(t *testing.T) {
	start := time.Date(2004, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2004, 7, 31, 0, 0, 0, 0, time.UTC)
	preds := domain.PredicateSet{
		BoundingBox: &domain.GeographicBounds{
			Name:   "Indian Ocean",
			Bounds: domain.Bounds{MinLat: -60, MaxLat: 30, MinLon: 20, MaxLon: 147},
		},
		DateRange: &domain.DateRange{Start: start, End: end},
	}

	where, args := newRepo().buildWhere(preds, nil)
	if !strings.Contains(where, "latitude BETWEEN $1 AND $2") {
		t.Errorf("missing latitude clause: %q", where)
	}
	if !strings.Contains(where, "longitude BETWEEN $3 AND $4") {
		t.Errorf("missing longitude clause: %q", where)
	}
	if !strings.Contains(where, "date BETWEEN $5 AND $6") {
		t.Errorf("missing date clause: %q", where)
	}
	if len(args) != 6 {
		t.Errorf("expected 6 args, got %v", args)
	}
}

func TestBuildWhere_AntimeridianBox(t *testing.T) {
	// Pacific: minLon 120 > maxLon -70 wraps through 180°.
	preds := domain.PredicateSet{
		BoundingBox: &domain.GeographicBounds{
			Name:   "Pacific Ocean",
			Bounds: domain.Bounds{MinLat: -60, MaxLat: 60, MinLon: 120, MaxLon: -70},
		},
	}

	where, _ := newRepo().buildWhere(preds, nil)
	if !strings.Contains(where, "(longitude >= $3 OR longitude <= $4)") {
		t.Errorf("antimeridian box must compile to an OR clause: %q", where)
	}
	if strings.Contains(where, "longitude BETWEEN") {
		t.Errorf("antimeridian box must not use BETWEEN: %q", where)
	}
}

func TestBuildWhere_SingleDayEquality(t *testing.T) {
	day := time.Date(2010, 3, 14, 0, 0, 0, 0, time.UTC)
	preds := domain.PredicateSet{
		DateRange: &domain.DateRange{Start: day, End: day, Equality: true},
	}

	where, args := newRepo().buildWhere(preds, nil)
	if !strings.Contains(where, "date = $1") {
		t.Errorf("expected equality clause, got %q", where)
	}
	if len(args) != 1 {
		t.Errorf("expected 1 arg, got %v", args)
	}
}

func TestBuildWhere_PresenceDedup(t *testing.T) {
	// Depth and pressure share the pres key; only one predicate is emitted.
	preds := domain.PredicateSet{
		MeasurementPresence: []domain.MeasurementCategory{
			domain.MeasurementPressure,
			domain.MeasurementDepth,
			domain.MeasurementTemperature,
		},
	}

	where, args := newRepo().buildWhere(preds, nil)
	if strings.Count(where, "ocean_data ?") != 2 {
		t.Errorf("expected 2 presence predicates after dedup, got %q", where)
	}
	if len(args) != 2 || args[0] != "pres" || args[1] != "temp" {
		t.Errorf("expected [pres temp], got %v", args)
	}
}

func TestBuildWhere_ExtraConditions(t *testing.T) {
	where, _ := newRepo().buildWhere(domain.PredicateSet{},
		[]string{"ocean_data IS NOT NULL", "ocean_data != '{}'::jsonb"})
	if !strings.HasPrefix(where, " WHERE ") {
		t.Errorf("expected WHERE prefix, got %q", where)
	}
	if !strings.Contains(where, "ocean_data IS NOT NULL AND ocean_data != '{}'::jsonb") {
		t.Errorf("extra conditions not joined: %q", where)
	}
}
