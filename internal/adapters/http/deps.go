package http

import (
	"github.com/nats-io/nats.go"
	"github.com/oceanlab/argoscout/internal/adapters/postgres"
	"github.com/oceanlab/argoscout/internal/adapters/valkey"
	"github.com/oceanlab/argoscout/internal/core/lexicon"
	"github.com/oceanlab/argoscout/internal/core/ports"
	"github.com/oceanlab/argoscout/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Query      *usecases.QueryService
	Aggregator *usecases.AggregationService
	Profiles   ports.ProfileRepository
	Lexicon    *lexicon.Lexicon
	SampleCap  int
	NATS       *nats.Conn
	DB         *postgres.DB
	Cache      *valkey.Cache
}
