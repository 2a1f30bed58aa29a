package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/owenkhalil/valetdash/internal/datasync"
	"github.com/owenkhalil/valetdash/internal/notify"
	"github.com/owenkhalil/valetdash/internal/view"
)

// DashboardHandler serves the read-only booking views. All responses are
// derived from the sync controller's in-memory snapshot; no request ever
// touches the backing table directly.
type DashboardHandler struct {
	ctrl   *datasync.Controller
	ring   *notify.Ring
	cfg    view.Config
	logger *slog.Logger
}

func NewDashboardHandler(ctrl *datasync.Controller, ring *notify.Ring, cfg view.Config, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{ctrl: ctrl, ring: ring, cfg: cfg, logger: logger}
}

type dashboardResponse struct {
	Loading  bool       `json:"loading"`
	SyncedAt string     `json:"synced_at,omitempty"`
	Upcoming []view.Row `json:"upcoming"`
	Past     []view.Row `json:"past"`
}

type bookingsResponse struct {
	Loading  bool       `json:"loading"`
	Bookings []view.Row `json:"bookings"`
}

type noticesResponse struct {
	Notices []notify.Notice `json:"notices"`
}

// Dashboard returns the partitioned view: upcoming first, then past, both in
// the snapshot's created_at-descending order. Classification happens per
// request against the current wall clock with one shared now for the pass.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshot := h.ctrl.Snapshot()
	upcoming, past := view.Partition(snapshot, time.Now())

	resp := dashboardResponse{
		Loading:  h.ctrl.Loading(),
		Upcoming: view.ProjectRows(h.cfg, upcoming),
		Past:     view.ProjectRows(h.cfg, past),
	}
	if syncedAt := h.ctrl.SyncedAt(); !syncedAt.IsZero() {
		resp.SyncedAt = syncedAt.Format(time.RFC3339)
	}
	h.writeJSON(w, resp)
}

// Bookings returns the flat projected list without temporal partitioning.
func (h *DashboardHandler) Bookings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.writeJSON(w, bookingsResponse{
		Loading:  h.ctrl.Loading(),
		Bookings: view.ProjectRows(h.cfg, h.ctrl.Snapshot()),
	})
}

// Notices returns recent user-visible notifications, newest first.
func (h *DashboardHandler) Notices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	notices := h.ring.Recent()
	if notices == nil {
		notices = []notify.Notice{}
	}
	h.writeJSON(w, noticesResponse{Notices: notices})
}

func (h *DashboardHandler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("response encode failed", "err", err)
	}
}
