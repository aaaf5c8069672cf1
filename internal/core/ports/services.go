package ports

import (
	"context"

	"github.com/oceanlab/argoscout/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishQueryExecuted(ctx context.Context, event *domain.QueryExecutedEvent) error
	PublishProfilesIngested(ctx context.Context, event *domain.ProfilesIngestedEvent) error
	PublishBroadcast(ctx context.Context, data []byte) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeProfilesIngested(ctx context.Context, handler func(ctx context.Context, event *domain.ProfilesIngestedEvent) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// KeywordExtractor produces the free-text content words of a query. Two
// implementations exist: a part-of-speech-aware one and a stop-word filter;
// the variant is chosen at construction time, never probed at call time.
type KeywordExtractor interface {
	ExtractContentWords(text string) []string
}
