package worker

// retry_cron.go
// Background goroutine that periodically re-drives dead-lettered export
// jobs that failed because the catalog store was down. Uses the store's
// Circuit Breaker to avoid re-queuing work while the store is still out.

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/facussc24/2026-sub001/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10

	// MaxRedrives bounds how often one job leaves the DLQ.
	MaxRedrives = 3
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	RDB *redis.Client
	// CB is the catalog store breaker; nil means always attempt.
	CB    *infra.CircuitBreaker
	Queue string
}

// StartRetryCron launches a background goroutine that ticks every 30s and
// moves re-drivable DLQ entries back to their queue.
// It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	if cfg.Queue == "" {
		cfg.Queue = QueueExportacion
	}
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				if n := redriveDLQ(ctx, cfg); n > 0 {
					log.Info().Int("count", n).Msg("retry_cron: jobs re-driven")
				}
			}
		}
	}()
}

// shouldRedrive reports whether a dead-lettered job may run again.
func shouldRedrive(e DLQEntry) bool {
	return e.Transport && e.JobType != "" && e.Redrives < MaxRedrives
}

// redriveDLQ inspects at most retryBatchSize entries. Entries that are not
// re-drivable go back to the DLQ head so the list keeps cycling.
func redriveDLQ(ctx context.Context, cfg RetryCronConfig) int {
	// If CB is open, skip entirely: the store is still down
	if cfg.CB != nil && cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return 0
	}

	dlqKey := DLQPrefix + cfg.Queue
	size, err := cfg.RDB.LLen(ctx, dlqKey).Result()
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to read DLQ length")
		return 0
	}

	redriven := 0
	for i := int64(0); i < min(size, retryBatchSize); i++ {
		raw, err := cfg.RDB.RPop(ctx, dlqKey).Result()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			log.Error().Err(err).Msg("retry_cron: failed to pop DLQ entry")
			return redriven
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil || !shouldRedrive(entry) {
			_ = cfg.RDB.LPush(ctx, dlqKey, raw).Err()
			continue
		}

		job := Job{Type: entry.JobType, Payload: entry.Payload, Redrives: entry.Redrives + 1}
		data, _ := json.Marshal(job)
		if err := cfg.RDB.LPush(ctx, cfg.Queue, data).Err(); err != nil {
			log.Error().Err(err).Str("queue", cfg.Queue).Msg("retry_cron: failed to requeue, entry kept")
			_ = cfg.RDB.LPush(ctx, dlqKey, raw).Err()
			return redriven
		}
		redriven++
	}
	return redriven
}
