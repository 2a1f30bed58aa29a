package model

import "time"

// Booking is a scheduled vehicle-service appointment as stored by the backend.
// The dashboard never writes bookings; rows are created and mutated elsewhere.
type Booking struct {
	ID string

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	VehicleReg      string
	VehicleMake     string
	VehicleModel    string
	VehicleType     string
	VehicleCategory string

	ServiceName    string
	ServicePrice   float64
	TotalPrice     float64
	SelectedAddons AddonList

	BookingDate string // calendar date, e.g. "2026-08-27"
	BookingTime string // time of day, "HH:MM" or "HH:MM:SS"

	// PaymentConfirmed is tri-state: nil means the backend never recorded a value.
	PaymentConfirmed *bool

	// DepositAmount and RemainingAmount are legacy display-only columns. The
	// authoritative split is always recomputed from TotalPrice (see view.Deposit
	// and view.Remaining); these are scanned but never trusted.
	DepositAmount   *float64
	RemainingAmount *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}
