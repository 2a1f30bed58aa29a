package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/owenkhalil/valetdash/internal/model"
	"golang.org/x/text/currency"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Deposit and remaining shares are a fixed 20%/80% split of the total price.
// Stored deposit/remaining columns are legacy and never consulted.
const depositRate = 0.20

// Deposit returns the up-front share of the total price.
func Deposit(total float64) float64 {
	return total * depositRate
}

// Remaining returns the balance due on completion. Derived as total minus the
// deposit so the pair always sums exactly to the total.
func Remaining(total float64) float64 {
	return total - Deposit(total)
}

// FormatCurrency renders an amount with the configured currency symbol and
// locale-appropriate digit grouping, always with two fraction digits.
func FormatCurrency(cfg Config, amount float64) string {
	p := message.NewPrinter(cfg.Locale)
	symbol := p.Sprint(currency.Symbol(cfg.Currency))
	return symbol + p.Sprint(number.Decimal(amount, number.Scale(2)))
}

// FormatDate renders a backend calendar date ("2006-01-02") in the configured
// locale's conventional order. Unparseable input passes through untouched.
func FormatDate(cfg Config, date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format(cfg.dateLayout)
}

// FormatTime truncates a zero-padded HH:MM[:SS] string to hour and minute.
func FormatTime(timeOfDay string) string {
	if len(timeOfDay) > 5 {
		return timeOfDay[:5]
	}
	return timeOfDay
}

// SummarizeAddons joins addon names with ", ". Nil or empty input yields "".
func SummarizeAddons(addons model.AddonList) string {
	if len(addons) == 0 {
		return ""
	}
	names := make([]string, 0, len(addons))
	for _, a := range addons {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// CountAddons renders the compact "+N addons" form. Empty input yields "".
func CountAddons(addons model.AddonList) string {
	if len(addons) == 0 {
		return ""
	}
	if len(addons) == 1 {
		return "+1 addon"
	}
	return fmt.Sprintf("+%d addons", len(addons))
}

// TemporalClass partitions bookings relative to the current wall clock.
type TemporalClass int

const (
	Past TemporalClass = iota
	Upcoming
)

// Classify combines a booking's date and time-of-day strings into one local
// timestamp and compares it against now. Strictly future is Upcoming. Both
// strings are interpreted in the local zone, matching how the backend's stored
// values have always been read; no zone normalization is applied. Unparseable
// input classifies as Past.
func Classify(date, timeOfDay string, now time.Time) TemporalClass {
	stamp := date + "T" + timeOfDay
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		t, err := time.ParseInLocation(layout, stamp, time.Local)
		if err != nil {
			continue
		}
		if t.After(now) {
			return Upcoming
		}
		return Past
	}
	return Past
}

// Partition splits bookings into upcoming and past using a single now snapshot
// for the whole pass, preserving the input (created_at descending) order in
// both halves. Every booking lands in exactly one half.
func Partition(bookings []model.Booking, now time.Time) (upcoming, past []model.Booking) {
	for _, b := range bookings {
		if Classify(b.BookingDate, b.BookingTime, now) == Upcoming {
			upcoming = append(upcoming, b)
		} else {
			past = append(past, b)
		}
	}
	return upcoming, past
}
