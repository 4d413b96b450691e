package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/facussc24/2026-sub001/internal/dto"
	"github.com/facussc24/2026-sub001/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueExportacion = "jobs:exportacion"
	JobExportacion   = "exportacion"

	// MaxAttempts is how many times a job runs before going to the DLQ.
	MaxAttempts = 3

	statusPrefix = "exportacion:"
	statusTTL    = 24 * time.Hour
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
	// Redrives counts how many times the retry cron moved the job back
	// from the dead letter queue.
	Redrives int `json:"redrives,omitempty"`
}

// Handler processes one job payload. A returned error schedules a retry.
type Handler interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists and tracks export status.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueExport records the job as pending and pushes it to the export queue.
func (d *Dispatcher) EnqueueExport(ctx context.Context, job dto.ExportJob) error {
	status := dto.ExportacionEstadoResponse{
		JobID:    job.JobID,
		Producto: job.Producto,
		Formato:  job.Formato,
		Estado:   dto.ExportPendiente,
	}
	if err := d.SetExportStatus(ctx, status); err != nil {
		return err
	}
	return d.enqueue(ctx, QueueExportacion, JobExportacion, job)
}

// ExportStatus reads the last recorded state of an export job.
func (d *Dispatcher) ExportStatus(ctx context.Context, jobID string) (*dto.ExportacionEstadoResponse, error) {
	raw, err := d.rdb.Get(ctx, statusPrefix+jobID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("exportacion %s: %w", jobID, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("exportacion %s: %w: %v", jobID, model.ErrTransport, err)
	}
	var st dto.ExportacionEstadoResponse
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// SetExportStatus stores the state of an export job for a day.
func (d *Dispatcher) SetExportStatus(ctx context.Context, st dto.ExportacionEstadoResponse) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return d.rdb.Set(ctx, statusPrefix+st.JobID, data, statusTTL).Err()
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]Handler
	queues   []string
}

// NewPool maps job types to handlers. Only QueueExportacion is consumed.
func NewPool(rdb *redis.Client, handlers map[string]Handler) *Pool {
	return &Pool{rdb: rdb, handlers: handlers, queues: []string{QueueExportacion}}
}

// Start launches numWorkers goroutines consuming the queues.
// Each goroutine blocks on BRPOP: zero CPU when idle.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go p.runWorker(ctx, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

// Backoff bounds for a worker whose BRPOP keeps failing (redis down).
const (
	minPollBackoff = 200 * time.Millisecond
	maxPollBackoff = 10 * time.Second
)

func (p *Pool) runWorker(ctx context.Context, id int) {
	var backoff time.Duration
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, p.queues...).Result()
			if err != nil {
				if !pollFailed(err) {
					backoff = 0
					continue // timeout or context cancelled
				}
				backoff = nextBackoff(backoff)
				log.Warn().Err(err).Int("worker", id).Dur("retry_in", backoff).Msg("worker: queue unreachable")
				sleepCtx(ctx, backoff)
				continue
			}
			backoff = 0
			if len(result) < 2 {
				continue
			}
			p.processJob(ctx, result[0], result[1])
		}
	}
}

// pollFailed reports whether a BRPOP error is a real failure rather than an
// empty timeout or shutdown.
func pollFailed(err error) bool {
	return !errors.Is(err, redis.Nil) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

// nextBackoff doubles d within [minPollBackoff, maxPollBackoff].
func nextBackoff(d time.Duration) time.Duration {
	if d < minPollBackoff {
		return minPollBackoff
	}
	if d *= 2; d > maxPollBackoff {
		return maxPollBackoff
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// processJob runs one job. Failures are re-queued until MaxAttempts, then
// moved to the dead letter queue.
func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, p.rdb, queue, Job{Payload: json.RawMessage(raw)}, "payload invalido: "+err.Error(), false)
		return
	}
	h, ok := p.handlers[job.Type]
	if !ok {
		SendToDLQ(ctx, p.rdb, queue, job, "tipo de job sin handler", false)
		return
	}

	job.Attempts++
	log.Info().Str("type", job.Type).Str("queue", queue).Int("attempt", job.Attempts).Msg("processing job")
	err := h.Process(ctx, job.Payload)
	if err == nil {
		return
	}

	if job.Attempts >= MaxAttempts || !retryable(err) {
		SendToDLQ(ctx, p.rdb, queue, job, err.Error(), model.CodeOf(err) == model.CodeTransport)
		return
	}
	encoded, mErr := json.Marshal(job)
	if mErr != nil {
		log.Error().Err(mErr).Msg("failed to re-encode job")
		return
	}
	if pErr := p.rdb.LPush(ctx, queue, encoded).Err(); pErr != nil {
		log.Error().Err(pErr).Str("queue", queue).Msg("failed to requeue job")
	}
}

// retryable reports whether another attempt could succeed. Missing
// products and invalid filters will fail the same way every time.
func retryable(err error) bool {
	switch model.CodeOf(err) {
	case model.CodeNotFound, model.CodeInvalidStructuralOp:
		return false
	}
	return true
}
