package view

import (
	"strings"
	"time"

	"github.com/owenkhalil/valetdash/internal/model"
)

// Row is one display-ready dashboard line. Monetary and temporal fields are
// derived at projection time; nothing here is read back from storage.
type Row struct {
	ID            string `json:"id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	VehicleReg    string `json:"vehicle_reg"`
	Vehicle       string `json:"vehicle,omitempty"`
	Service       string `json:"service"`
	Addons        string `json:"addons,omitempty"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	PaymentStatus string `json:"payment_status,omitempty"`
	Total         string `json:"total"`
	Deposit       string `json:"deposit,omitempty"`
	Remaining     string `json:"remaining,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// ProjectRow maps a raw booking to its display row under the given config.
// The count addon style also collapses the billing breakdown to the flat
// total, mirroring the compact dashboard variant.
func ProjectRow(cfg Config, b model.Booking) Row {
	row := Row{
		ID:            b.ID,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		CustomerPhone: b.CustomerPhone,
		VehicleReg:    b.VehicleReg,
		Vehicle:       vehicleDescriptor(b),
		Service:       b.ServiceName,
		Date:          FormatDate(cfg, b.BookingDate),
		Time:          FormatTime(b.BookingTime),
		Total:         FormatCurrency(cfg, b.TotalPrice),
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
	}

	switch cfg.AddonStyle {
	case AddonStyleCount:
		row.Addons = CountAddons(b.SelectedAddons)
	default:
		row.Addons = SummarizeAddons(b.SelectedAddons)
		row.PaymentStatus = paymentStatus(b.PaymentConfirmed)
		row.Deposit = FormatCurrency(cfg, Deposit(b.TotalPrice))
		row.Remaining = FormatCurrency(cfg, Remaining(b.TotalPrice))
	}

	return row
}

// ProjectRows maps a list preserving its order.
func ProjectRows(cfg Config, bookings []model.Booking) []Row {
	rows := make([]Row, 0, len(bookings))
	for _, b := range bookings {
		rows = append(rows, ProjectRow(cfg, b))
	}
	return rows
}

func vehicleDescriptor(b model.Booking) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{b.VehicleMake, b.VehicleModel, b.VehicleCategory} {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func paymentStatus(confirmed *bool) string {
	switch {
	case confirmed == nil:
		return "unknown"
	case *confirmed:
		return "confirmed"
	default:
		return "pending"
	}
}
