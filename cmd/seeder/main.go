package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"go.temporal.io/sdk/client"

	"github.com/oceanlab/argoscout/internal/pkg/config"
	"github.com/oceanlab/argoscout/internal/workflows"
)

func main() {
	count := flag.Int("count", 10000, "number of profiles to generate")
	institution := flag.String("institution", "", "fix the institution (default random per profile)")
	minLat := flag.Float64("min-lat", 0, "southern bound")
	maxLat := flag.Float64("max-lat", 0, "northern bound")
	minLon := flag.Float64("min-lon", 0, "western bound")
	maxLon := flag.Float64("max-lon", 0, "eastern bound")
	dateStart := flag.String("date-start", "", "earliest profile date (YYYY-MM-DD)")
	dateEnd := flag.String("date-end", "", "latest profile date (YYYY-MM-DD)")
	batchSize := flag.Int("batch-size", 500, "profiles per workflow batch")
	wait := flag.Bool("wait", true, "block until the workflow completes")
	flag.Parse()

	cfg, err := config.Load("argoscout-seeder")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalf("temporal: %v", err)
	}
	defer c.Close()

	input := workflows.IngestInput{
		Count:       *count,
		Institution: *institution,
		MinLat:      *minLat,
		MaxLat:      *maxLat,
		MinLon:      *minLon,
		MaxLon:      *maxLon,
		DateStart:   *dateStart,
		DateEnd:     *dateEnd,
		BatchSize:   *batchSize,
	}

	ctx := context.Background()
	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        fmt.Sprintf("ingest-%d", time.Now().Unix()),
		TaskQueue: cfg.Temporal.TaskQueue,
	}, workflows.IngestWorkflow, input)
	if err != nil {
		log.Fatalf("start workflow: %v", err)
	}

	log.Printf("started ingest workflow id=%s run=%s count=%d", run.GetID(), run.GetRunID(), *count)

	if *wait {
		if err := run.Get(ctx, nil); err != nil {
			log.Fatalf("workflow failed: %v", err)
		}
		log.Printf("ingest complete: %d profiles", *count)
	}
}
