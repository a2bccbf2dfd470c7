// Package audit writes and reads the audit trail.
package audit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pdv/backend/internal/domain/audit"
	"github.com/pdv/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DefaultWriteTimeout bounds a single audit write
const DefaultWriteTimeout = 5 * time.Second

// Recorder persists audit entries off the request path. Every entry is
// written on its own goroutine with a timeout detached from the request
// context, so a slow or failing store never affects the response.
type Recorder struct {
	repo    audit.Repository
	timeout time.Duration
	metrics *telemetry.BusinessMetrics
	logger  *zap.Logger

	wg      sync.WaitGroup
	pending atomic.Int64
	closed  atomic.Bool
}

// NewRecorder creates a recorder. A non-positive timeout uses DefaultWriteTimeout.
func NewRecorder(repo audit.Repository, timeout time.Duration, metrics *telemetry.BusinessMetrics, logger *zap.Logger) *Recorder {
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}
	return &Recorder{
		repo:    repo,
		timeout: timeout,
		metrics: metrics,
		logger:  logger.Named("audit"),
	}
}

// Record schedules entry for persistence and returns immediately
func (r *Recorder) Record(ctx context.Context, entry audit.Entry) {
	if r.closed.Load() {
		r.logger.Warn("Audit recorder closed, dropping entry", zap.String("action", entry.Action.String()))
		return
	}

	log, err := audit.NewLog(entry)
	if err != nil {
		r.logger.Error("Invalid audit entry", zap.String("action", entry.Action.String()), zap.Error(err))
		r.metrics.RecordAuditWrite(ctx, entry.Action.String(), err)
		return
	}

	// keeps trace and logger values but not the request's cancellation
	detached := context.WithoutCancel(ctx)

	r.wg.Add(1)
	r.pending.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.pending.Add(-1)
		r.write(detached, log)
	}()
}

func (r *Recorder) write(ctx context.Context, log *audit.Log) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	action := log.Action.String()
	err := r.repo.Create(ctx, log)
	r.metrics.RecordAuditWrite(ctx, action, err)
	if err != nil {
		r.logger.Error("Failed to write audit log",
			zap.String("action", action),
			zap.String("entity_id", log.EntityID),
			zap.String("request_id", log.RequestID),
			zap.Error(err))
		return
	}
	r.logger.Debug("Audit log written", zap.String("action", action), zap.String("id", log.ID.String()))
}

// Pending returns the number of writes in flight
func (r *Recorder) Pending() int64 {
	return r.pending.Load()
}

// Wait blocks until all scheduled writes have finished
func (r *Recorder) Wait() {
	r.wg.Wait()
}

// Close stops accepting entries and drains pending writes until ctx is done
func (r *Recorder) Close(ctx context.Context) error {
	r.closed.Store(true)

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		r.logger.Warn("Audit drain interrupted", zap.Int64("pending", r.Pending()))
		return ctx.Err()
	}
}
