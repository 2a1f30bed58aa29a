package view

import (
	"testing"
	"time"

	"github.com/owenkhalil/valetdash/internal/model"
)

func TestDepositRemainingSplit(t *testing.T) {
	totals := []float64{0, 0.1, 54, 99.99, 120.50, 1234.56}
	for _, total := range totals {
		dep := Deposit(total)
		rem := Remaining(total)
		if dep+rem != total {
			t.Fatalf("split of %v does not sum back: %v + %v", total, dep, rem)
		}
		if dep < 0 || rem < 0 {
			t.Fatalf("negative share for total %v: %v / %v", total, dep, rem)
		}
	}
	if got := Deposit(100); got != 20 {
		t.Fatalf("expected 20%% deposit of 100 to be 20, got %v", got)
	}
	if got := Remaining(100); got != 80 {
		t.Fatalf("expected 80%% remainder of 100 to be 80, got %v", got)
	}
}

func TestFormatCurrency(t *testing.T) {
	gb := DefaultConfig()
	if got := FormatCurrency(gb, 54); got != "£54.00" {
		t.Fatalf("expected £54.00, got %q", got)
	}

	us, err := NewConfig("en-US", "USD", "count")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if got := FormatCurrency(us, 120); got != "$120.00" {
		t.Fatalf("expected $120.00, got %q", got)
	}
}

func TestFormatDate(t *testing.T) {
	gb := DefaultConfig()
	if got := FormatDate(gb, "2026-08-27"); got != "27/08/2026" {
		t.Fatalf("expected 27/08/2026, got %q", got)
	}

	us, err := NewConfig("en-US", "USD", "full")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if got := FormatDate(us, "2026-08-27"); got != "8/27/2026" {
		t.Fatalf("expected 8/27/2026, got %q", got)
	}

	if got := FormatDate(gb, "not-a-date"); got != "not-a-date" {
		t.Fatalf("expected passthrough for bad input, got %q", got)
	}
}

func TestFormatTime(t *testing.T) {
	if got := FormatTime("14:05:00"); got != "14:05" {
		t.Fatalf("expected 14:05, got %q", got)
	}
	if got := FormatTime("14:05"); got != "14:05" {
		t.Fatalf("expected 14:05, got %q", got)
	}
	if got := FormatTime(""); got != "" {
		t.Fatalf("expected empty passthrough, got %q", got)
	}
}

func TestSummarizeAddons(t *testing.T) {
	if got := SummarizeAddons(nil); got != "" {
		t.Fatalf("expected empty string for nil, got %q", got)
	}
	if got := SummarizeAddons(model.AddonList{}); got != "" {
		t.Fatalf("expected empty string for empty list, got %q", got)
	}
	addons := model.AddonList{{Name: "Wax"}, {Name: "Polish"}}
	if got := SummarizeAddons(addons); got != "Wax, Polish" {
		t.Fatalf("expected \"Wax, Polish\", got %q", got)
	}
}

func TestCountAddons(t *testing.T) {
	if got := CountAddons(nil); got != "" {
		t.Fatalf("expected empty string for nil, got %q", got)
	}
	if got := CountAddons(model.AddonList{{Name: "Wax"}}); got != "+1 addon" {
		t.Fatalf("expected +1 addon, got %q", got)
	}
	if got := CountAddons(model.AddonList{{Name: "Wax"}, {Name: "Polish"}}); got != "+2 addons" {
		t.Fatalf("expected +2 addons, got %q", got)
	}
}

func TestClassify(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)

	if got := Classify("2026-03-11", "09:00", now); got != Upcoming {
		t.Fatal("expected next-day booking to be upcoming")
	}
	if got := Classify("2026-03-09", "18:30:00", now); got != Past {
		t.Fatal("expected previous-day booking to be past")
	}
	// Boundary: exactly now is not strictly in the future.
	if got := Classify("2026-03-10", "12:00:00", now); got != Past {
		t.Fatal("expected booking at now to be past")
	}
	if got := Classify("garbage", "nope", now); got != Past {
		t.Fatal("expected unparseable booking to be past")
	}
}

func TestPartition(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)
	bookings := []model.Booking{
		{ID: "d", BookingDate: "2026-03-12", BookingTime: "10:00"},
		{ID: "c", BookingDate: "2026-03-08", BookingTime: "10:00"},
		{ID: "b", BookingDate: "2026-03-11", BookingTime: "09:30:00"},
		{ID: "a", BookingDate: "2026-03-01", BookingTime: "16:00"},
	}

	upcoming, past := Partition(bookings, now)

	if len(upcoming)+len(past) != len(bookings) {
		t.Fatalf("partition lost or duplicated records: %d + %d != %d", len(upcoming), len(past), len(bookings))
	}
	seen := map[string]bool{}
	for _, b := range append(append([]model.Booking{}, upcoming...), past...) {
		if seen[b.ID] {
			t.Fatalf("booking %s appears in both halves", b.ID)
		}
		seen[b.ID] = true
	}

	if len(upcoming) != 2 || len(past) != 2 {
		t.Fatalf("expected 2/2 split, got %d/%d", len(upcoming), len(past))
	}
	// Input order (created_at descending upstream) is preserved in each half.
	if upcoming[0].ID != "d" || upcoming[1].ID != "b" {
		t.Fatalf("unexpected upcoming order: %v", []string{upcoming[0].ID, upcoming[1].ID})
	}
	if past[0].ID != "c" || past[1].ID != "a" {
		t.Fatalf("unexpected past order: %v", []string{past[0].ID, past[1].ID})
	}
}

func TestProjectRow_Styles(t *testing.T) {
	paid := true
	booking := model.Booking{
		ID:               "bk-1",
		CustomerName:     "Sam Carter",
		CustomerEmail:    "sam@example.com",
		CustomerPhone:    "07700900001",
		VehicleReg:       "AB12 CDE",
		VehicleMake:      "Ford",
		VehicleModel:     "Focus",
		ServiceName:      "Full Valet",
		TotalPrice:       100,
		SelectedAddons:   model.AddonList{{Name: "Wax"}, {Name: "Polish"}},
		BookingDate:      "2026-08-27",
		BookingTime:      "14:05:00",
		PaymentConfirmed: &paid,
		CreatedAt:        time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	}

	full := ProjectRow(DefaultConfig(), booking)
	if full.Addons != "Wax, Polish" {
		t.Fatalf("expected joined addons, got %q", full.Addons)
	}
	if full.PaymentStatus != "confirmed" {
		t.Fatalf("expected confirmed payment status, got %q", full.PaymentStatus)
	}
	if full.Deposit != "£20.00" || full.Remaining != "£80.00" {
		t.Fatalf("unexpected billing breakdown: %q / %q", full.Deposit, full.Remaining)
	}
	if full.Vehicle != "Ford Focus" {
		t.Fatalf("unexpected vehicle descriptor: %q", full.Vehicle)
	}
	if full.Time != "14:05" {
		t.Fatalf("expected truncated time, got %q", full.Time)
	}

	compactCfg, err := NewConfig("en-US", "USD", "count")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	compact := ProjectRow(compactCfg, booking)
	if compact.Addons != "+2 addons" {
		t.Fatalf("expected addon count, got %q", compact.Addons)
	}
	if compact.PaymentStatus != "" || compact.Deposit != "" || compact.Remaining != "" {
		t.Fatal("compact rows should not carry payment or billing breakdown")
	}
	if compact.Total != "$100.00" {
		t.Fatalf("expected flat total, got %q", compact.Total)
	}
}
