package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"eventManager/internal/lib/logger/sl"
)

var (
	ErrQueueFull   = errors.New("notification queue is full")
	ErrQueueClosed = errors.New("notification queue is closed")
)

// Queue is an in-process task queue served by a fixed set of workers.
// Retries are re-enqueued after the dispatcher's delay.
type Queue struct {
	log        *slog.Logger
	dispatcher *Dispatcher
	tasks      chan Task

	mu      sync.RWMutex
	closed  bool
	pending sync.WaitGroup
	workers sync.WaitGroup
	timers  map[*time.Timer]struct{}
}

func NewQueue(log *slog.Logger, d *Dispatcher, size int) *Queue {
	return &Queue{
		log:        log.With(slog.String("component", "notify/queue")),
		dispatcher: d,
		tasks:      make(chan Task, size),
		timers:     make(map[*time.Timer]struct{}),
	}
}

// Enqueue never blocks: a full queue rejects the task.
func (q *Queue) Enqueue(_ context.Context, t Task) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.tasks <- t:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *Queue) Start(ctx context.Context, workers int) {
	if workers < 1 {
		workers = 1
	}

	for i := 0; i < workers; i++ {
		q.workers.Add(1)
		go func() {
			defer q.workers.Done()
			for t := range q.tasks {
				for _, retry := range q.dispatcher.Dispatch(ctx, t) {
					q.schedule(retry)
				}
			}
		}()
	}

	q.log.Info("notification workers started", slog.Int("workers", workers))
}

func (q *Queue) schedule(t Task) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		q.log.Warn("queue closed, retry dropped", slog.String("task_id", t.ID))
		return
	}

	q.pending.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(q.dispatcher.Delay(t), func() {
		defer q.pending.Done()

		q.mu.Lock()
		delete(q.timers, timer)
		q.mu.Unlock()

		if err := q.Enqueue(context.Background(), t); err != nil {
			q.log.Error("failed to re-enqueue notification", slog.String("task_id", t.ID), sl.Err(err))
		}
	})
	q.timers[timer] = struct{}{}
}

// Stop discards scheduled retries, lets the workers drain queued tasks and
// waits for them to exit.
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	for timer := range q.timers {
		if timer.Stop() {
			q.pending.Done()
		}
		delete(q.timers, timer)
	}
	q.mu.Unlock()

	q.pending.Wait()
	close(q.tasks)
	q.workers.Wait()

	q.log.Info("notification workers stopped")
}
