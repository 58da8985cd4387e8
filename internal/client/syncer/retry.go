package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// retryQueueCapacity bounds the queue; the oldest entry is dropped when a
// new one would exceed it.
const retryQueueCapacity = 32

// pendingOp is one failed best-effort mutation awaiting redelivery.
type pendingOp struct {
	name string
	do   func(ctx context.Context) error
	bo   backoff.BackOff
	next time.Time
}

// retryQueue holds failed best-effort mutations and retries them with
// exponential backoff on every flush. The optimistic local apply has
// already happened when an entry is queued; a retry that ultimately gives
// up leaves last-write-wins reconciliation to the next fetch.
type retryQueue struct {
	mu    sync.Mutex
	items []*pendingOp
	log   *zap.Logger
}

func newRetryQueue(log *zap.Logger) *retryQueue {
	return &retryQueue{log: log}
}

func (q *retryQueue) add(name string, do func(ctx context.Context) error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 5 * time.Second
	bo.MaxInterval = 2 * time.Minute
	bo.MaxElapsedTime = 30 * time.Minute

	item := &pendingOp{name: name, do: do, bo: bo, next: time.Now().Add(bo.NextBackOff())}

	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) >= retryQueueCapacity {
		dropped := q.items[0]
		q.items = q.items[1:]
		q.log.Warn("retry queue full, dropping oldest mutation", zap.String("op", dropped.name))
	}
	q.items = append(q.items, item)
	q.log.Info("queued mutation for retry", zap.String("op", name))
}

// flush attempts every due entry once. Runs outside the lock so a slow
// network call never blocks new enqueues.
func (q *retryQueue) flush(ctx context.Context) {
	q.mu.Lock()
	now := time.Now()
	due := make([]*pendingOp, 0, len(q.items))
	for _, it := range q.items {
		if !now.Before(it.next) {
			due = append(due, it)
		}
	}
	q.mu.Unlock()

	for _, it := range due {
		err := it.do(ctx)

		q.mu.Lock()
		if err == nil {
			q.removeLocked(it)
			q.log.Info("queued mutation delivered", zap.String("op", it.name))
		} else if d := it.bo.NextBackOff(); d == backoff.Stop {
			q.removeLocked(it)
			q.log.Warn("giving up on queued mutation", zap.String("op", it.name), zap.Error(err))
		} else {
			it.next = time.Now().Add(d)
		}
		q.mu.Unlock()
	}
}

func (q *retryQueue) clear() {
	q.mu.Lock()
	q.items = nil
	q.mu.Unlock()
}

func (q *retryQueue) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *retryQueue) removeLocked(target *pendingOp) {
	for i, it := range q.items {
		if it == target {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return
		}
	}
}
