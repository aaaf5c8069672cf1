package usecases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/oceanlab/argoscout/internal/core/domain"
	"github.com/oceanlab/argoscout/internal/core/ports"
)

// QueryResponse is the full answer handed to the presentation layer: the
// parsed intent plus the aggregated statistics. Approximate is always true
// when measurement statistics are present, since they are computed from a
// bounded sample.
type QueryResponse struct {
	Intent *domain.QueryIntent      `json:"intent,omitempty"`
	Result *domain.AggregatedResult `json:"result"`
	// IntentApplied is false only on the degraded path where the extractor
	// was unavailable and the result is an unfiltered corpus count.
	IntentApplied bool `json:"intent_applied"`
	Approximate   bool `json:"approximate"`
}

// QueryService runs the full parse → compile → aggregate flow for one query.
// Each call builds its own intent, predicates and result; nothing is shared
// across requests.
type QueryService struct {
	intents    *IntentService
	aggregator *AggregationService
	cache      ports.CacheService
	publisher  ports.EventPublisher
}

// NewQueryService creates a new QueryService. intents may be nil when the
// lexicon failed to initialise; queries then degrade to an unfiltered corpus
// count, loudly logged.
func NewQueryService(
	intents *IntentService,
	aggregator *AggregationService,
	cache ports.CacheService,
	publisher ports.EventPublisher,
) *QueryService {
	return &QueryService{
		intents:    intents,
		aggregator: aggregator,
		cache:      cache,
		publisher:  publisher,
	}
}

// Handle answers a natural-language query. Storage failures propagate as
// domain.ErrRetrievalUnavailable — partial statistics are never presented as
// complete.
func (s *QueryService) Handle(ctx context.Context, query string, sampleCap int) (*QueryResponse, error) {
	started := time.Now()

	if s.intents == nil {
		slog.Error("query lexicon unavailable, degrading to unfiltered corpus count",
			"error", domain.ErrLexiconUnavailable)
		result, err := s.aggregator.CountOnly(ctx)
		if err != nil {
			return nil, err
		}
		return &QueryResponse{Result: result, IntentApplied: false}, nil
	}

	// Try cache
	cacheKey := queryCacheKey(query, sampleCap)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var resp QueryResponse
			if err := json.Unmarshal(data, &resp); err == nil {
				return &resp, nil
			}
		}
	}

	intent := s.intents.Parse(query)
	preds := CompileFilters(intent)

	result, err := s.aggregator.Aggregate(ctx, preds, sampleCap)
	if err != nil {
		return nil, err
	}

	resp := &QueryResponse{
		Intent:        intent,
		Result:        result,
		IntentApplied: true,
		Approximate:   len(result.Measurements) > 0,
	}

	// Cache for 2 minutes; answers over a slowly-growing corpus tolerate
	// short staleness.
	if s.cache != nil {
		if data, err := json.Marshal(resp); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 120)
		}
	}

	if s.publisher != nil {
		event := &domain.QueryExecutedEvent{
			Query:         query,
			QueryTypes:    intent.QueryTypes,
			Confidence:    intent.Confidence,
			ProfileCount:  result.ProfileCount,
			IntentApplied: true,
			DurationMS:    time.Since(started).Milliseconds(),
			Time:          time.Now().UTC(),
		}
		if intent.GeographicBounds != nil {
			event.Region = intent.GeographicBounds.Name
		}
		_ = s.publisher.PublishQueryExecuted(ctx, event)
	}

	return resp, nil
}

// ParseOnly exposes bare intent extraction (UI preview, debugging).
func (s *QueryService) ParseOnly(query string) (*domain.QueryIntent, error) {
	if s.intents == nil {
		return nil, domain.ErrLexiconUnavailable
	}
	return s.intents.Parse(query), nil
}

func queryCacheKey(query string, sampleCap int) string {
	h := sha256.Sum256([]byte(query))
	return fmt.Sprintf("query:result:%s:%d", hex.EncodeToString(h[:8]), sampleCap)
}
