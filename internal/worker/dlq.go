package worker

// dlq.go — dead letter queue for the reconcile pipeline.
// A reconcile job that keeps failing past MaxReconcileAttempts means some
// document's aggregates cannot be repaired automatically; the job is parked
// here with its failure reason so an operator can inspect the underlying
// invoice/LPO. The queue depth is surfaced by the health endpoint.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DLQReconcile is the Redis list holding exhausted reconcile jobs.
const DLQReconcile = "dlq:" + QueueReconcile

// DLQEntry wraps an exhausted job with enough context to debug the
// unreconcilable document.
type DLQEntry struct {
	JobType  string          `json:"job_type"`
	Payload  json.RawMessage `json:"payload"` // the ReconcilePayload as queued
	Reason   string          `json:"reason"`
	FailedAt string          `json:"failed_at"` // ISO 8601
	Attempts int             `json:"attempts"`
}

// SendToDLQ parks an exhausted reconcile job for manual inspection.
func SendToDLQ(ctx context.Context, rdb *redis.Client, job Job, reason string) {
	entry := DLQEntry{
		JobType:  job.Type,
		Payload:  job.Payload,
		Reason:   reason,
		FailedAt: time.Now().UTC().Format(time.RFC3339),
		Attempts: job.Attempts,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Msg("dlq: failed to marshal entry")
		return
	}

	if err := rdb.LPush(ctx, DLQReconcile, data).Err(); err != nil {
		log.Error().Err(err).Str("dlq_key", DLQReconcile).Msg("dlq: failed to push to DLQ")
		return
	}

	log.Warn().
		Str("job_type", job.Type).
		Str("reason", reason).
		Int("attempts", job.Attempts).
		Msg("dlq: reconcile job exhausted, parked for inspection")
}

// DLQLength returns the number of parked reconcile jobs (health reporting).
func DLQLength(ctx context.Context, rdb *redis.Client) (int64, error) {
	return rdb.LLen(ctx, DLQReconcile).Result()
}
