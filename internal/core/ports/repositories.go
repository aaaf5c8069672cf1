package ports

import (
	"context"

	"github.com/oceanlab/argoscout/internal/core/domain"
)

// ProfileRepository persists and retrieves oceanographic profiles.
//
// ScanSummary and ScanSample are the two retrieval primitives the aggregation
// engine builds on. Both accept a caller-supplied context and must abort
// promptly on cancellation; connectivity and timeout failures are reported
// wrapped in domain.ErrRetrievalUnavailable.
type ProfileRepository interface {
	Insert(ctx context.Context, p *domain.Profile) error
	InsertBatch(ctx context.Context, profiles []domain.Profile) error
	GetByID(ctx context.Context, id int64) (*domain.Profile, error)
	List(ctx context.Context, offset, limit int) ([]domain.Profile, int, error)
	FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.Profile, error)
	SearchText(ctx context.Context, query string, limit int) ([]domain.Profile, error)

	// ScanSummary computes the corpus-level aggregate for the predicate set
	// in a single server-side request.
	ScanSummary(ctx context.Context, preds domain.PredicateSet) (*domain.CorpusSummary, error)

	// ScanSample returns at most limit records matching the predicate set
	// whose measurement payload is non-empty. limit is a hard upper bound.
	ScanSample(ctx context.Context, preds domain.PredicateSet, limit int) ([]domain.Profile, error)
}
