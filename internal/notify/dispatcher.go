package notify

import (
	"context"
	"log/slog"
	"time"

	"eventManager/internal/lib/logger/sl"
)

type Dispatcher struct {
	log         *slog.Logger
	deliverers  []Deliverer
	maxAttempts int
	backoff     time.Duration
}

func NewDispatcher(log *slog.Logger, maxAttempts int, backoff time.Duration, deliverers ...Deliverer) *Dispatcher {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Dispatcher{
		log:         log.With(slog.String("component", "notify/dispatcher")),
		deliverers:  deliverers,
		maxAttempts: maxAttempts,
		backoff:     backoff,
	}
}

// Delay is how long a retry task waits before it is delivered again.
func (d *Dispatcher) Delay(t Task) time.Duration {
	return d.backoff * time.Duration(t.Attempt-1)
}

// Dispatch runs the deliverers t targets. It returns one retry task for each
// deliverer that failed and still has attempts left.
func (d *Dispatcher) Dispatch(ctx context.Context, t Task) []Task {
	log := d.log.With(
		slog.String("task_id", t.ID),
		slog.String("kind", string(t.Kind)),
		slog.Int64("event_id", t.EventID),
		slog.Int("attempt", t.Attempt),
	)

	var retries []Task

	for _, dl := range d.deliverers {
		if t.Target != "" && t.Target != dl.Name() {
			continue
		}

		err := dl.Deliver(ctx, t)
		if err == nil {
			log.Debug("notification delivered", slog.String("deliverer", dl.Name()))
			continue
		}

		if t.Attempt >= d.maxAttempts {
			log.Error("notification dropped", slog.String("deliverer", dl.Name()), sl.Err(err))
			continue
		}

		log.Warn("notification failed, will retry", slog.String("deliverer", dl.Name()), sl.Err(err))

		retry := t
		retry.Target = dl.Name()
		retry.Attempt++
		retries = append(retries, retry)
	}

	return retries
}
