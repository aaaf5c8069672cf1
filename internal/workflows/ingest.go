package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// IngestInput is the input for the ingest workflow.
type IngestInput struct {
	Count       int
	Institution string // optional fixed institution, "" = random per profile
	MinLat      float64
	MaxLat      float64
	MinLon      float64
	MaxLon      float64
	DateStart   string // YYYY-MM-DD
	DateEnd     string // YYYY-MM-DD
	BatchSize   int
}

// IngestWorkflow generates synthetic profiles batch by batch, persists each
// batch, and announces the finished run so caches can be invalidated. Batches
// retry independently; a batch that keeps failing fails the run.
func IngestWorkflow(ctx workflow.Context, input IngestInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting ingest workflow", "count", input.Count)

	if input.BatchSize <= 0 {
		input.BatchSize = 500
	}

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	inserted := 0
	for inserted < input.Count {
		batch := input.BatchSize
		if remaining := input.Count - inserted; remaining < batch {
			batch = remaining
		}

		var n int
		err := workflow.ExecuteActivity(ctx, "GenerateAndStoreBatch", input, batch).Get(ctx, &n)
		if err != nil {
			logger.Error("ingest batch failed", "inserted", inserted, "error", err)
			return err
		}
		inserted += n
	}

	if err := workflow.ExecuteActivity(ctx, "AnnounceIngest", inserted, input.Institution).Get(ctx, nil); err != nil {
		// The profiles are stored; a lost announcement only delays cache expiry.
		logger.Warn("ingest announcement failed", "error", err)
	}

	logger.Info("Ingest workflow complete", "inserted", inserted)
	return nil
}
