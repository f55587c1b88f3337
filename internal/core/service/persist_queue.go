package service

import (
	"context"
	"sync"
	"time"

	"github.com/rl1809/axion/internal/core/domain"
	"github.com/rl1809/axion/internal/port"
	logx "github.com/rl1809/axion/pkg/logger"
)

const defaultPersistTimeout = 5 * time.Second

type writeJob struct {
	seq      uint64
	products []domain.Product
	done     chan struct{}
}

// PersistQueue issues full-list writes one at a time in enqueue order. Each
// job carries the snapshot taken when it was enqueued; jobs are never
// coalesced.
type PersistQueue struct {
	repo      port.ProductRepository
	indicator *SyncIndicator
	metrics   Metrics
	timeout   time.Duration

	mu       sync.Mutex
	closed   bool
	seq      uint64
	last     chan struct{}
	jobs     chan writeJob
	finished chan struct{}
}

func NewPersistQueue(repo port.ProductRepository, indicator *SyncIndicator, queueSize int, timeout time.Duration, metrics Metrics) *PersistQueue {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if timeout <= 0 {
		timeout = defaultPersistTimeout
	}

	q := &PersistQueue{
		repo:      repo,
		indicator: indicator,
		metrics:   metrics,
		timeout:   timeout,
		jobs:      make(chan writeJob, queueSize),
		finished:  make(chan struct{}),
	}

	go q.workerLoop()

	return q
}

// Enqueue schedules a write of products. The returned channel is closed once
// that write has finished. After Close it returns an already-closed channel.
func (q *PersistQueue) Enqueue(products []domain.Product) <-chan struct{} {
	q.mu.Lock()
	defer q.mu.Unlock()

	done := make(chan struct{})
	if q.closed {
		close(done)
		return done
	}

	q.seq++
	q.indicator.Begin()
	q.jobs <- writeJob{seq: q.seq, products: products, done: done}
	q.last = done

	return done
}

// Flush waits until every write enqueued so far has finished.
func (q *PersistQueue) Flush(ctx context.Context) error {
	q.mu.Lock()
	last := q.last
	q.mu.Unlock()

	if last == nil {
		return nil
	}

	select {
	case <-last:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting writes and waits for queued ones to drain.
func (q *PersistQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.finished
		return
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	<-q.finished
}

func (q *PersistQueue) workerLoop() {
	defer close(q.finished)

	for job := range q.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), q.timeout)

		start := time.Now()
		err := q.repo.SaveProducts(ctx, job.products)
		elapsed := time.Since(start)

		q.metrics.ObserveWrite(elapsed, err)
		if err != nil {
			logx.Error().Err(err).Uint64("seq", job.seq).Int("products", len(job.products)).Msg("failed to persist product list")
		} else {
			logx.Debug().Uint64("seq", job.seq).Int("products", len(job.products)).Dur("took", elapsed).Msg("persisted product list")
		}

		q.indicator.End()
		close(job.done)
		cancel()
	}
}
