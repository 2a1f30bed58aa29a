package datasync

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/owenkhalil/valetdash/internal/feed"
	"github.com/owenkhalil/valetdash/internal/model"
	"github.com/owenkhalil/valetdash/internal/notify"
	"github.com/owenkhalil/valetdash/internal/storage"
	"go.opentelemetry.io/otel"
)

// Controller owns the dashboard's in-memory booking list. It performs an
// initial bulk fetch, then re-fetches the whole table on every change
// notification. There is no incremental diffing: each fetch atomically
// replaces the previous list, so any interleaving of concurrent fetches
// converges on the backend state (last to apply wins).
type Controller struct {
	store  storage.BookingStore
	feed   feed.ChangeFeed
	notes  notify.Notifier
	logger *slog.Logger
	table  string

	inflight atomic.Int32

	mu       sync.RWMutex
	bookings []model.Booking
	syncedAt time.Time
}

func NewController(store storage.BookingStore, changeFeed feed.ChangeFeed, notifier notify.Notifier, logger *slog.Logger, table string) *Controller {
	if table == "" {
		table = "bookings"
	}
	return &Controller{
		store:  store,
		feed:   changeFeed,
		notes:  notifier,
		logger: logger,
		table:  table,
	}
}

// Refresh re-reads the full booking table and replaces the snapshot. On
// failure the prior list is left untouched (empty if nothing ever loaded), a
// user-visible notice is published, and no retry is scheduled: the next mount
// or change notification tries again.
func (c *Controller) Refresh(ctx context.Context) error {
	c.inflight.Add(1)
	defer c.inflight.Add(-1)

	ctx, span := otel.Tracer("datasync").Start(ctx, "bookings.refresh")
	defer span.End()

	bookings, err := c.store.ListBookings(ctx)
	if err != nil {
		span.RecordError(err)
		c.logger.Error("booking fetch failed", "err", err)
		c.notes.Publish(notify.LevelError, "Failed to load bookings")
		return err
	}

	c.mu.Lock()
	c.bookings = bookings
	c.syncedAt = time.Now()
	c.mu.Unlock()
	return nil
}

// Snapshot returns the current list in backend order (created_at descending).
func (c *Controller) Snapshot() []model.Booking {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Booking, len(c.bookings))
	copy(out, c.bookings)
	return out
}

// Loading reports whether any fetch is currently in flight.
func (c *Controller) Loading() bool {
	return c.inflight.Load() > 0
}

// SyncedAt is the apply time of the most recent successful fetch.
func (c *Controller) SyncedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.syncedAt
}

// Run loads the initial list, then holds a change subscription until ctx is
// canceled. Every event, whatever its op, triggers a full re-fetch in its own
// goroutine; overlapping fetches are accepted (idempotent full replace). The
// subscription is released on every exit path, and once Run returns no
// further re-fetches start, even if notifications keep arriving.
func (c *Controller) Run(ctx context.Context) {
	_ = c.Refresh(ctx)

	sub, err := c.feed.Subscribe(ctx, c.table)
	if err != nil {
		c.logger.Error("change subscription failed", "err", err, "table", c.table)
		c.notes.Publish(notify.LevelError, "Live updates unavailable")
		return
	}
	defer sub.Close()

	c.logger.Info("change subscription open", "table", c.table)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.Events():
			if !ok {
				c.logger.Warn("change feed closed", "table", c.table)
				return
			}
			c.logger.Info("change notification", "event_id", ev.ID, "op", string(ev.Op), "table", ev.Table)
			go func() { _ = c.Refresh(ctx) }()
		}
	}
}
