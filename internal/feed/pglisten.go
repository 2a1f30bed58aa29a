package feed

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/owenkhalil/valetdash/libs/db"
)

// PGListener delivers change events over Postgres LISTEN/NOTIFY. A trigger
// on the watched table is expected to NOTIFY the configured channel
// with a JSON payload like {"table":"bookings","op":"UPDATE"}; payloads are
// parsed leniently and an unreadable payload still produces a wildcard event.
type PGListener struct {
	pool    *db.Pool
	logger  *slog.Logger
	channel string
}

func NewPGListener(pool *db.Pool, logger *slog.Logger, channel string) *PGListener {
	if channel == "" {
		channel = "bookings_changed"
	}
	return &PGListener{pool: pool, logger: logger, channel: channel}
}

// Subscribe pins one pool connection for the lifetime of the subscription.
// The connection is released on every exit path: Close, ctx cancellation, or
// a dead connection.
func (l *PGListener) Subscribe(ctx context.Context, table string) (Subscription, error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		conn.Release()
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	s := &pgSubscription{
		events: make(chan Event, 16),
		cancel: cancel,
	}
	go s.run(runCtx, conn, l.logger, table)
	return s, nil
}

type pgSubscription struct {
	events chan Event
	cancel context.CancelFunc
	once   sync.Once
}

func (s *pgSubscription) Events() <-chan Event { return s.events }

func (s *pgSubscription) Close() error {
	s.once.Do(s.cancel)
	return nil
}

func (s *pgSubscription) run(ctx context.Context, conn *pgxpool.Conn, logger *slog.Logger, table string) {
	defer close(s.events)
	defer conn.Release()

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("postgres notification wait failed", "err", err)
			return
		}

		ev := Event{ID: uuid.New(), Table: table, Op: OpAny, At: time.Now()}
		var payload struct {
			Table string `json:"table"`
			Op    string `json:"op"`
		}
		if err := json.Unmarshal([]byte(notification.Payload), &payload); err == nil {
			if payload.Table != "" {
				ev.Table = payload.Table
			}
			ev.Op = ParseOp(payload.Op)
		}
		if table != "" && ev.Table != table {
			continue
		}

		select {
		case s.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}
