package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/owenkhalil/valetdash/internal/datasync"
	"github.com/owenkhalil/valetdash/internal/feed"
	"github.com/owenkhalil/valetdash/internal/model"
	"github.com/owenkhalil/valetdash/internal/notify"
	"github.com/owenkhalil/valetdash/internal/view"
)

type staticStore struct {
	bookings []model.Booking
}

func (s *staticStore) ListBookings(_ context.Context) ([]model.Booking, error) {
	return s.bookings, nil
}

func newTestHandler(t *testing.T, bookings []model.Booking) (*DashboardHandler, *notify.Ring) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ring := notify.NewRing(logger, 10)
	ctrl := datasync.NewController(&staticStore{bookings: bookings}, feed.NewMemory(), ring, logger, "bookings")
	if err := ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	return NewDashboardHandler(ctrl, ring, view.DefaultConfig(), logger), ring
}

func TestDashboard_PartitionsAndProjects(t *testing.T) {
	now := time.Now()
	future := now.Add(48 * time.Hour)
	past := now.Add(-48 * time.Hour)

	h, _ := newTestHandler(t, []model.Booking{
		{
			ID:           "up-1",
			CustomerName: "Sam Carter",
			VehicleReg:   "AB12 CDE",
			ServiceName:  "Full Valet",
			TotalPrice:   100,
			BookingDate:  future.Format("2006-01-02"),
			BookingTime:  future.Format("15:04:05"),
			CreatedAt:    now,
		},
		{
			ID:           "past-1",
			CustomerName: "Ria Patel",
			VehicleReg:   "XY65 FGH",
			ServiceName:  "Mini Valet",
			TotalPrice:   40,
			BookingDate:  past.Format("2006-01-02"),
			BookingTime:  past.Format("15:04:05"),
			CreatedAt:    now.Add(-time.Hour),
		},
	})

	rec := httptest.NewRecorder()
	h.Dashboard(rec, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Loading  bool       `json:"loading"`
		Upcoming []view.Row `json:"upcoming"`
		Past     []view.Row `json:"past"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Loading {
		t.Fatal("expected loading to be false after refresh")
	}
	if len(resp.Upcoming) != 1 || resp.Upcoming[0].ID != "up-1" {
		t.Fatalf("unexpected upcoming rows: %+v", resp.Upcoming)
	}
	if len(resp.Past) != 1 || resp.Past[0].ID != "past-1" {
		t.Fatalf("unexpected past rows: %+v", resp.Past)
	}
	if resp.Upcoming[0].Deposit != "£20.00" || resp.Upcoming[0].Remaining != "£80.00" {
		t.Fatalf("unexpected billing breakdown: %q / %q", resp.Upcoming[0].Deposit, resp.Upcoming[0].Remaining)
	}
}

func TestDashboard_MethodNotAllowed(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.Dashboard(rec, httptest.NewRequest(http.MethodPost, "/api/v1/dashboard", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestNotices_Empty(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.Notices(rec, httptest.NewRequest(http.MethodGet, "/api/v1/notices", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Notices []notify.Notice `json:"notices"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Notices == nil || len(resp.Notices) != 0 {
		t.Fatalf("expected empty notices array, got %v", resp.Notices)
	}
}

func TestNotices_SurfacesFetchFailures(t *testing.T) {
	h, ring := newTestHandler(t, nil)
	ring.Publish(notify.LevelError, "Failed to load bookings")

	rec := httptest.NewRecorder()
	h.Notices(rec, httptest.NewRequest(http.MethodGet, "/api/v1/notices", nil))

	var resp struct {
		Notices []notify.Notice `json:"notices"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Notices) != 1 || resp.Notices[0].Message != "Failed to load bookings" {
		t.Fatalf("unexpected notices: %+v", resp.Notices)
	}
}

func TestBookings_FlatList(t *testing.T) {
	h, _ := newTestHandler(t, []model.Booking{
		{ID: "b-2", ServiceName: "Full Valet", TotalPrice: 100, CreatedAt: time.Now()},
		{ID: "b-1", ServiceName: "Mini Valet", TotalPrice: 40, CreatedAt: time.Now().Add(-time.Hour)},
	})

	rec := httptest.NewRecorder()
	h.Bookings(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil))

	var resp struct {
		Bookings []view.Row `json:"bookings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Bookings) != 2 || resp.Bookings[0].ID != "b-2" || resp.Bookings[1].ID != "b-1" {
		t.Fatalf("expected snapshot order preserved, got %+v", resp.Bookings)
	}
}
