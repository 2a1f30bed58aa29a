package feed

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Op is the row-level mutation kind carried on a change event. Consumers do
// not differentiate: any op triggers the same full re-fetch. OpAny marks
// notifications whose payload did not identify the mutation.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	OpAny    Op = "*"
)

// Event is a backend-pushed signal that a row in the watched table changed.
// It carries no row payload; the authoritative state is always re-read.
type Event struct {
	ID    uuid.UUID
	Table string
	Op    Op
	At    time.Time
}

// Subscription is a live change-notification handle. Events() is closed when
// the subscription ends; Close releases the underlying channel resources and
// is safe to call on every exit path, repeatedly.
type Subscription interface {
	Events() <-chan Event
	Close() error
}

// ChangeFeed opens subscriptions scoped to a single table, all event types.
type ChangeFeed interface {
	Subscribe(ctx context.Context, table string) (Subscription, error)
}

// ParseOp normalizes a payload or header mutation label. Unrecognized input
// maps to OpAny rather than failing.
func ParseOp(raw string) Op {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "insert", "create", "created":
		return OpInsert
	case "update", "updated":
		return OpUpdate
	case "delete", "deleted":
		return OpDelete
	default:
		return OpAny
	}
}
