// Package viewtracker decides whether a visit to an event counts as a new view.
package viewtracker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type Tracker interface {
	// FirstView reports whether viewer has not seen the event within the TTL,
	// and records the visit.
	FirstView(ctx context.Context, eventID int64, viewer string) (bool, error)
}

func key(eventID int64, viewer string) string {
	return "event_view:" + strconv.FormatInt(eventID, 10) + ":" + viewer
}

type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) FirstView(ctx context.Context, eventID int64, viewer string) (bool, error) {
	ok, err := r.client.SetNX(ctx, key(eventID, viewer), 1, r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("lib.viewtracker.FirstView: %w", err)
	}
	return ok, nil
}

// Memory is the in-process tracker used when no Redis is configured.
type Memory struct {
	ttl time.Duration
	now func() time.Time

	mu   sync.Mutex
	seen map[string]time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now, seen: make(map[string]time.Time)}
}

func (m *Memory) FirstView(_ context.Context, eventID int64, viewer string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	k := key(eventID, viewer)

	if until, ok := m.seen[k]; ok && now.Before(until) {
		return false, nil
	}

	// prune expired entries
	if len(m.seen) > 10000 {
		for k, until := range m.seen {
			if !now.Before(until) {
				delete(m.seen, k)
			}
		}
	}

	m.seen[k] = now.Add(m.ttl)
	return true, nil
}
