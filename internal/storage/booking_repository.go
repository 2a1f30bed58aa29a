package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/owenkhalil/valetdash/internal/model"
	"github.com/owenkhalil/valetdash/libs/db"
)

// BookingStore is the backend-access capability the sync controller depends
// on. Tests supply a fake; production wires the pgx-backed repository.
type BookingStore interface {
	ListBookings(ctx context.Context) ([]model.Booking, error)
}

type BookingRepository struct {
	pool *db.Pool
}

func NewBookingRepository(pool *db.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// ListBookings reads the whole bookings table ordered by created_at
// descending. There is deliberately no pagination or filtering: every sync
// pass replaces the dashboard's in-memory list wholesale, so the query always
// returns the full authoritative set.
func (r *BookingRepository) ListBookings(ctx context.Context) ([]model.Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text,
			customer_name, customer_email, customer_phone,
			vehicle_reg,
			COALESCE(vehicle_make, ''), COALESCE(vehicle_model, ''),
			COALESCE(vehicle_type, ''), COALESCE(vehicle_category, ''),
			service_name, service_price, total_price,
			COALESCE(selected_addons, 'null'::jsonb),
			booking_date::text, booking_time::text,
			payment_confirmed, deposit_amount, remaining_amount,
			created_at, updated_at
		FROM bookings
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		var b model.Booking
		var addonsRaw []byte
		if err := rows.Scan(
			&b.ID,
			&b.CustomerName,
			&b.CustomerEmail,
			&b.CustomerPhone,
			&b.VehicleReg,
			&b.VehicleMake,
			&b.VehicleModel,
			&b.VehicleType,
			&b.VehicleCategory,
			&b.ServiceName,
			&b.ServicePrice,
			&b.TotalPrice,
			&addonsRaw,
			&b.BookingDate,
			&b.BookingTime,
			&b.PaymentConfirmed,
			&b.DepositAmount,
			&b.RemainingAmount,
			&b.CreatedAt,
			&b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(addonsRaw, &b.SelectedAddons); err != nil {
			return nil, fmt.Errorf("booking %s: bad selected_addons: %w", b.ID, err)
		}
		bookings = append(bookings, b)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return bookings, nil
}
