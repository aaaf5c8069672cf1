package main

import (
	"context"
	"log"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/oceanlab/argoscout/internal/adapters/nats"
	"github.com/oceanlab/argoscout/internal/adapters/postgres"
	"github.com/oceanlab/argoscout/internal/adapters/valkey"
	"github.com/oceanlab/argoscout/internal/core/domain"
	"github.com/oceanlab/argoscout/internal/core/lexicon"
	"github.com/oceanlab/argoscout/internal/core/ports"
	"github.com/oceanlab/argoscout/internal/pkg/config"
	"github.com/oceanlab/argoscout/internal/pkg/logging"
	"github.com/oceanlab/argoscout/internal/workflows"
)

// queryCachePrefix matches the keys the query service writes.
const queryCachePrefix = "query:result:"

func main() {
	cfg, err := config.Load("argoscout-worker")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	logger := logging.Component("worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns))
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	var publisher ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		logger.Warn("nats unavailable, ingest events are dropped", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	// Cache invalidation: every finished ingest flushes cached query answers.
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		logger.Warn("valkey unavailable, skipping cache invalidation", "error", err)
	} else {
		defer cache.Close()
		sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
		if err != nil {
			logger.Warn("nats subscriber unavailable", "error", err)
		} else {
			defer sub.Close()
			err = sub.SubscribeProfilesIngested(ctx, func(ctx context.Context, event *domain.ProfilesIngestedEvent) error {
				logger.Info("profiles ingested, flushing cached answers",
					"count", event.Count, "institution", event.Institution)
				return cache.DeleteByPrefix(ctx, queryCachePrefix)
			})
			if err != nil {
				logger.Warn("subscribe ingest events", "error", err)
			}
		}
	}

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalf("temporal: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.IngestWorkflow)
	w.RegisterActivity(&workflows.IngestActivities{
		Profiles:  postgres.NewProfileRepo(db, lexicon.New()),
		Publisher: publisher,
	})

	logger.Info("worker starting", "task_queue", cfg.Temporal.TaskQueue)

	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
