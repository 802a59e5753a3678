package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/scolaris/scolaris-backend/internal/config"
	"github.com/scolaris/scolaris-backend/internal/model"
	"github.com/scolaris/scolaris-backend/internal/repository"
)

const (
	BatchSize    = 50
	BatchTimeout = 2 * time.Second
	PollTimeout  = 1 * time.Second // Must be >= 1s to satisfy Redis
)

// AuditWorker drains the audit events queue into PostgreSQL in batches.
// Events carry a unique event_id, so a retried batch never double-writes.
type AuditWorker struct {
	repo *repository.AuditRepository
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewAuditWorker creates a new AuditWorker.
func NewAuditWorker(repo *repository.AuditRepository, rdb *redis.Client, log zerolog.Logger) *AuditWorker {
	return &AuditWorker{
		repo: repo,
		rdb:  rdb,
		log:  log.With().Str("component", "audit_worker").Logger(),
	}
}

// Start begins the worker loop. Call in a goroutine; cancel the context to
// stop, and the buffered events are flushed before exit.
func (w *AuditWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	buffer := make([]model.AuditEvent, 0, BatchSize)
	lastFlushTime := time.Now()

	for {
		if len(buffer) > 0 {
			if len(buffer) >= BatchSize || time.Since(lastFlushTime) >= BatchTimeout {
				w.flushSafe(ctx, buffer)
				buffer = buffer[:0]
				lastFlushTime = time.Now()
			}
		}

		select {
		case <-ctx.Done():
			w.shutdown(buffer)
			return
		default:
		}

		result, err := w.rdb.BLPop(ctx, PollTimeout, config.WorkerKey.AuditEventsQueue).Result()
		if err != nil {
			if err == redis.Nil {
				continue // Queue empty, loop back to check the flush timer
			}
			if ctx.Err() != nil {
				return
			}
			w.log.Error().Err(err).Msg("Redis connection error, sleeping 3s")
			time.Sleep(3 * time.Second)
			continue
		}

		if len(result) < 2 {
			continue
		}

		var event model.AuditEvent
		if err := json.Unmarshal([]byte(result[1]), &event); err != nil {
			// Malformed JSON cannot be retried. Log and discard.
			w.log.Error().Err(err).Str("data", result[1]).Msg("Discarding malformed audit event")
			continue
		}

		buffer = append(buffer, event)
	}
}

// flushSafe writes the batch; on failure the events go back to the queue so
// a storage outage loses nothing.
func (w *AuditWorker) flushSafe(ctx context.Context, batch []model.AuditEvent) {
	if err := w.repo.InsertBatch(ctx, batch); err != nil {
		w.log.Error().Err(err).Int("count", len(batch)).Msg("Batch insert failed, requeueing")
		w.requeue(ctx, batch)
		return
	}
	w.log.Debug().Int("count", len(batch)).Msg("Flushed audit events")
}

func (w *AuditWorker) requeue(ctx context.Context, events []model.AuditEvent) {
	pipe := w.rdb.Pipeline()
	for _, e := range events {
		data, _ := json.Marshal(e)
		pipe.RPush(ctx, config.WorkerKey.AuditEventsQueue, data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		w.log.Error().Err(err).Msg("CRITICAL: Failed to requeue audit events. Data loss occurred.")
		return
	}
	w.log.Info().Int("count", len(events)).Msg("Requeued audit events")
	// Back off so a hard-down database is not hammered.
	time.Sleep(2 * time.Second)
}

func (w *AuditWorker) shutdown(buffer []model.AuditEvent) {
	w.log.Info().Msg("Worker stopping, flushing remaining buffer...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if len(buffer) > 0 {
		w.flushSafe(shutdownCtx, buffer)
	}
	w.log.Info().Msg("Worker stopped")
}
