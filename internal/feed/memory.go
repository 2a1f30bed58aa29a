package feed

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process change feed. It backs tests and single-box dev runs
// where neither Postgres notifications nor Kafka are available.
type Memory struct {
	mu   sync.Mutex
	subs map[uuid.UUID]*memorySub
}

func NewMemory() *Memory {
	return &Memory{subs: map[uuid.UUID]*memorySub{}}
}

func (m *Memory) Subscribe(_ context.Context, table string) (Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &memorySub{
		id:     uuid.New(),
		table:  table,
		events: make(chan Event, 16),
		feed:   m,
	}
	m.subs[s.id] = s
	return s, nil
}

// Publish fans an event out to every matching subscriber. Slow subscribers
// drop events rather than block the publisher; a dropped notification only
// costs one redundant re-fetch once the next event lands.
func (m *Memory) Publish(table string, op Op) {
	ev := Event{ID: uuid.New(), Table: table, Op: op, At: time.Now()}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.subs {
		if s.table != "" && s.table != table {
			continue
		}
		select {
		case s.events <- ev:
		default:
		}
	}
}

type memorySub struct {
	id     uuid.UUID
	table  string
	events chan Event
	feed   *Memory
	once   sync.Once
}

func (s *memorySub) Events() <-chan Event { return s.events }

func (s *memorySub) Close() error {
	s.once.Do(func() {
		s.feed.mu.Lock()
		delete(s.feed.subs, s.id)
		s.feed.mu.Unlock()
		close(s.events)
	})
	return nil
}
