package usecases

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/oceanlab/argoscout/internal/core/domain"
	"github.com/oceanlab/argoscout/internal/core/lexicon"
	"github.com/oceanlab/argoscout/internal/core/ports"
	"github.com/oceanlab/argoscout/internal/pkg/metrics"
)

// DefaultSampleCap bounds the number of records scanned for measurement
// statistics when the caller does not choose a cap.
const DefaultSampleCap = 1000

// AggregationService computes aggregate statistics over the profiles matching
// a predicate set.
//
// The corpus-level summary is a single server-side aggregate; measurement
// statistics are computed from a bounded sample of at most sampleCap records,
// so they are estimates, not exact corpus aggregates. Callers must present
// them as approximate.
type AggregationService struct {
	profiles ports.ProfileRepository
	lex      *lexicon.Lexicon
}

// NewAggregationService creates a new AggregationService.
func NewAggregationService(profiles ports.ProfileRepository, lex *lexicon.Lexicon) *AggregationService {
	return &AggregationService{profiles: profiles, lex: lex}
}

// Aggregate runs the summary query and, when measurement categories were
// requested, the bounded sample scan. The two reads are independent and are
// issued concurrently; both must succeed or the whole call fails. Storage
// failures surface wrapped in domain.ErrRetrievalUnavailable, never as an
// empty result.
func (s *AggregationService) Aggregate(ctx context.Context, preds domain.PredicateSet, sampleCap int) (*domain.AggregatedResult, error) {
	if sampleCap <= 0 {
		sampleCap = DefaultSampleCap
	}

	var (
		summary *domain.CorpusSummary
		sample  []domain.Profile
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.profiles.ScanSummary(gctx, preds)
		if err != nil {
			return fmt.Errorf("scan summary: %w", err)
		}
		return nil
	})
	if len(preds.MeasurementPresence) > 0 {
		g.Go(func() error {
			var err error
			sample, err = s.profiles.ScanSample(gctx, preds, sampleCap)
			if err != nil {
				return fmt.Errorf("scan sample: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(preds.MeasurementPresence) > 0 {
		metrics.QuerySampleSize.Observe(float64(len(sample)))
	}

	result := &domain.AggregatedResult{
		ProfileCount: summary.ProfileCount,
		DateRange: domain.ResultDateRange{
			Start: summary.DateMin,
			End:   summary.DateMax,
		},
		GeographicBounds: domain.ResultBounds{
			LatRange: [2]float64{summary.LatMin, summary.LatMax},
			LonRange: [2]float64{summary.LonMin, summary.LonMax},
			Centroid: domain.GeoPoint{Lat: summary.LatAvg, Lon: summary.LonAvg},
		},
		Institutions: domain.ResultInstitutions{
			Count: summary.InstitutionCount,
			Names: summary.InstitutionNames,
		},
		Measurements: make(map[domain.MeasurementCategory]domain.MeasurementStats),
	}

	for _, category := range preds.MeasurementPresence {
		info := s.lex.CategoryFor(category)
		if info == nil {
			continue
		}
		samples := flattenSamples(sample, info.CanonicalKey)
		if len(samples) == 0 {
			// A category with no valid samples is omitted entirely.
			continue
		}
		result.Measurements[category] = computeStats(samples, info.Unit)
	}

	return result, nil
}

// CountOnly is the degraded path used when no intent could be produced at
// all: a single unfiltered corpus summary.
func (s *AggregationService) CountOnly(ctx context.Context) (*domain.AggregatedResult, error) {
	summary, err := s.profiles.ScanSummary(ctx, domain.PredicateSet{})
	if err != nil {
		return nil, fmt.Errorf("scan summary: %w", err)
	}
	return &domain.AggregatedResult{
		ProfileCount: summary.ProfileCount,
		DateRange: domain.ResultDateRange{
			Start: summary.DateMin,
			End:   summary.DateMax,
		},
		Institutions: domain.ResultInstitutions{
			Count: summary.InstitutionCount,
			Names: summary.InstitutionNames,
		},
		Measurements: map[domain.MeasurementCategory]domain.MeasurementStats{},
	}, nil
}

// flattenSamples collects every numeric sample stored under key across the
// sampled profiles. Sequences are flattened, bare scalars are treated as
// singleton sequences, and null/NaN/non-numeric entries are dropped — a
// record contributing zero valid samples contributes nothing.
func flattenSamples(profiles []domain.Profile, key string) []float64 {
	var out []float64
	for i := range profiles {
		raw, ok := profiles[i].OceanData[key]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case []any:
			for _, item := range v {
				if f, ok := asFloat(item); ok {
					out = append(out, f)
				}
			}
		default:
			if f, ok := asFloat(v); ok {
				out = append(out, f)
			}
		}
	}
	return out
}

func asFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// computeStats returns mean/min/max/sample standard deviation over a
// non-empty slice. Standard deviation is 0 for fewer than 2 samples.
func computeStats(samples []float64, unit string) domain.MeasurementStats {
	minV, maxV := samples[0], samples[0]
	sum := 0.0
	for _, v := range samples {
		sum += v
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	mean := sum / float64(len(samples))

	stddev := 0.0
	if len(samples) > 1 {
		ss := 0.0
		for _, v := range samples {
			d := v - mean
			ss += d * d
		}
		stddev = math.Sqrt(ss / float64(len(samples)-1))
	}

	return domain.MeasurementStats{
		Average:      mean,
		Min:          minV,
		Max:          maxV,
		StdDeviation: stddev,
		SampleCount:  len(samples),
		Unit:         unit,
	}
}
