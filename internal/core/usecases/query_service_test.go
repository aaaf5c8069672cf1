package usecases_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/oceanlab/argoscout/internal/core/domain"
	"github.com/oceanlab/argoscout/internal/core/lexicon"
	"github.com/oceanlab/argoscout/internal/core/ports"
	"github.com/oceanlab/argoscout/internal/core/usecases"
)

type mockCache struct {
	store map[string][]byte
	gets  int
	sets  int
}

func newMockCache() *mockCache {
	return &mockCache{store: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.gets++
	if data, ok := m.store[key]; ok {
		return data, nil
	}
	return nil, errors.New("miss")
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.sets++
	m.store[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, pattern string) error {
	m.store = make(map[string][]byte)
	return nil
}

type mockPublisher struct {
	queryEvents  []*domain.QueryExecutedEvent
	ingestEvents []*domain.ProfilesIngestedEvent
}

func (m *mockPublisher) PublishQueryExecuted(ctx context.Context, e *domain.QueryExecutedEvent) error {
	m.queryEvents = append(m.queryEvents, e)
	return nil
}

func (m *mockPublisher) PublishProfilesIngested(ctx context.Context, e *domain.ProfilesIngestedEvent) error {
	m.ingestEvents = append(m.ingestEvents, e)
	return nil
}

func (m *mockPublisher) PublishBroadcast(ctx context.Context, data []byte) error {
	return nil
}

func newQueryService(repo *mockProfileRepo, cache *mockCache, pub *mockPublisher) *usecases.QueryService {
	lex := lexicon.New()
	intents := usecases.NewIntentService(lex, usecases.NewStopwordKeywordExtractor(lex))
	agg := usecases.NewAggregationService(repo, lex)

	// Avoid typed-nil interfaces: a nil *mockCache inside ports.CacheService
	// would not compare equal to nil in the service.
	var c ports.CacheService
	if cache != nil {
		c = cache
	}
	var p ports.EventPublisher
	if pub != nil {
		p = pub
	}
	return usecases.NewQueryService(intents, agg, c, p)
}

func TestHandle_AppliesIntent(t *testing.T) {
	var seen domain.PredicateSet
	repo := &mockProfileRepo{
		scanSummaryFn: func(ctx context.Context, preds domain.PredicateSet) (*domain.CorpusSummary, error) {
			seen = preds
			return &domain.CorpusSummary{ProfileCount: 42}, nil
		},
		scanSampleFn: func(ctx context.Context, preds domain.PredicateSet, limit int) ([]domain.Profile, error) {
			return []domain.Profile{{OceanData: map[string]any{"temp": []any{21.0}}}}, nil
		},
	}
	svc := newQueryService(repo, nil, nil)

	resp, err := svc.Handle(context.Background(), "average temperature in the Red Sea", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.IntentApplied {
		t.Error("expected intent to be applied")
	}
	if seen.BoundingBox == nil || seen.BoundingBox.Name != "Red Sea" {
		t.Errorf("expected Red Sea predicate, got %+v", seen.BoundingBox)
	}
	if resp.Result.ProfileCount != 42 {
		t.Errorf("expected count 42, got %d", resp.Result.ProfileCount)
	}
	if !resp.Approximate {
		t.Error("responses carrying sampled statistics must be marked approximate")
	}
}

func TestHandle_DegradesWithoutIntentService(t *testing.T) {
	repo := &mockProfileRepo{
		scanSummaryFn: func(ctx context.Context, preds domain.PredicateSet) (*domain.CorpusSummary, error) {
			return &domain.CorpusSummary{ProfileCount: 7}, nil
		},
	}
	agg := usecases.NewAggregationService(repo, lexicon.New())
	svc := usecases.NewQueryService(nil, agg, nil, nil)

	resp, err := svc.Handle(context.Background(), "temperature in the Arctic Ocean", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.IntentApplied {
		t.Error("degraded path must report intent_applied=false")
	}
	if resp.Intent != nil {
		t.Error("degraded path must not fabricate an intent")
	}
	if resp.Result.ProfileCount != 7 {
		t.Errorf("expected unfiltered count 7, got %d", resp.Result.ProfileCount)
	}
}

func TestHandle_PropagatesStorageFailure(t *testing.T) {
	repo := &mockProfileRepo{
		scanSummaryFn: func(ctx context.Context, preds domain.PredicateSet) (*domain.CorpusSummary, error) {
			return nil, domain.ErrRetrievalUnavailable
		},
	}
	svc := newQueryService(repo, nil, nil)

	_, err := svc.Handle(context.Background(), "profiles in 2012", 100)
	if !errors.Is(err, domain.ErrRetrievalUnavailable) {
		t.Fatalf("expected ErrRetrievalUnavailable, got %v", err)
	}
}

func TestHandle_CachesResponses(t *testing.T) {
	calls := 0
	repo := &mockProfileRepo{
		scanSummaryFn: func(ctx context.Context, preds domain.PredicateSet) (*domain.CorpusSummary, error) {
			calls++
			return &domain.CorpusSummary{ProfileCount: 9}, nil
		},
	}
	cache := newMockCache()
	svc := newQueryService(repo, cache, nil)

	if _, err := svc.Handle(context.Background(), "profiles in 2012", 100); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected one cache write, got %d", cache.sets)
	}

	resp, err := svc.Handle(context.Background(), "profiles in 2012", 100)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected the second call to be served from cache, storage hit %d times", calls)
	}
	if resp.Result.ProfileCount != 9 {
		t.Errorf("cached response lost the count, got %d", resp.Result.ProfileCount)
	}

	// Different sample cap must miss.
	if _, err := svc.Handle(context.Background(), "profiles in 2012", 500); err != nil {
		t.Fatalf("third call: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected a distinct cache key per sample cap, storage hit %d times", calls)
	}
}

func TestHandle_IgnoresCorruptCacheEntries(t *testing.T) {
	calls := 0
	repo := &mockProfileRepo{
		scanSummaryFn: func(ctx context.Context, preds domain.PredicateSet) (*domain.CorpusSummary, error) {
			calls++
			return &domain.CorpusSummary{ProfileCount: 3}, nil
		},
	}
	cache := newMockCache()
	svc := newQueryService(repo, cache, nil)

	if _, err := svc.Handle(context.Background(), "profiles in 2020", 100); err != nil {
		t.Fatalf("warm-up call: %v", err)
	}
	for key := range cache.store {
		cache.store[key] = []byte("{not json")
	}

	resp, err := svc.Handle(context.Background(), "profiles in 2020", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Error("corrupt cache entry must fall through to storage")
	}
	if resp.Result.ProfileCount != 3 {
		t.Errorf("expected count 3, got %d", resp.Result.ProfileCount)
	}
}

func TestHandle_PublishesQueryEvent(t *testing.T) {
	repo := &mockProfileRepo{
		scanSummaryFn: func(ctx context.Context, preds domain.PredicateSet) (*domain.CorpusSummary, error) {
			return &domain.CorpusSummary{ProfileCount: 11}, nil
		},
	}
	pub := &mockPublisher{}
	svc := newQueryService(repo, nil, pub)

	if _, err := svc.Handle(context.Background(), "salinity in the Mediterranean Sea", 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.queryEvents) != 1 {
		t.Fatalf("expected one query event, got %d", len(pub.queryEvents))
	}
	event := pub.queryEvents[0]
	if event.Region != "Mediterranean Sea" {
		t.Errorf("expected region Mediterranean Sea, got %q", event.Region)
	}
	if event.ProfileCount != 11 {
		t.Errorf("expected profile count 11, got %d", event.ProfileCount)
	}
	if !event.IntentApplied {
		t.Error("event must record that the intent was applied")
	}
}

func TestParseOnly(t *testing.T) {
	svc := newQueryService(&mockProfileRepo{}, nil, nil)

	intent, err := svc.ParseOnly("temperature near 10N, 50E")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intent.GeographicBounds == nil {
		t.Error("expected coordinate-derived bounds")
	}

	degraded := usecases.NewQueryService(nil, usecases.NewAggregationService(&mockProfileRepo{}, lexicon.New()), nil, nil)
	if _, err := degraded.ParseOnly("anything"); !errors.Is(err, domain.ErrLexiconUnavailable) {
		t.Errorf("expected ErrLexiconUnavailable, got %v", err)
	}
}

func TestQueryResponseJSONRoundTrip(t *testing.T) {
	resp := usecases.QueryResponse{
		Result:        &domain.AggregatedResult{ProfileCount: 5},
		IntentApplied: true,
	}
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back usecases.QueryResponse
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Result.ProfileCount != 5 || !back.IntentApplied {
		t.Errorf("round trip lost fields: %+v", back)
	}
}
