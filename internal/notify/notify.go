package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notice is one user-visible notification. Sync failures surface here rather
// than failing the dashboard; the list view simply keeps its prior contents.
type Notice struct {
	ID      uuid.UUID `json:"id"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

type Notifier interface {
	Publish(level Level, message string)
}

// Ring keeps the most recent notices in memory and mirrors each one to the
// structured log. It is the server-side stand-in for transient toast popups.
type Ring struct {
	logger *slog.Logger
	max    int

	mu      sync.Mutex
	notices []Notice
}

func NewRing(logger *slog.Logger, max int) *Ring {
	if max <= 0 {
		max = 50
	}
	return &Ring{logger: logger, max: max}
}

func (r *Ring) Publish(level Level, message string) {
	n := Notice{ID: uuid.New(), Level: level, Message: message, At: time.Now()}

	r.mu.Lock()
	r.notices = append(r.notices, n)
	if len(r.notices) > r.max {
		r.notices = r.notices[len(r.notices)-r.max:]
	}
	r.mu.Unlock()

	switch level {
	case LevelError:
		r.logger.Error("notice", "id", n.ID, "message", message)
	default:
		r.logger.Info("notice", "id", n.ID, "message", message)
	}
}

// Recent returns notices newest first.
func (r *Ring) Recent() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Notice, 0, len(r.notices))
	for i := len(r.notices) - 1; i >= 0; i-- {
		out = append(out, r.notices[i])
	}
	return out
}
