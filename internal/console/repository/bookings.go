package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dispatch-console/internal/console/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingStore implements domain.Store[domain.Booking] over the rides
// table. Bookings are created by the ride service, so Create is not
// supported here, and deleting a booking cancels the ride.
type BookingStore struct {
	db *pgxpool.Pool
}

func NewBookingStore(db *pgxpool.Pool) *BookingStore {
	return &BookingStore{db: db}
}

// bookingHistory bounds how far back finished rides are listed. Rides that
// still need dispatch attention are listed however old they are.
const bookingHistory = 30 * 24 * time.Hour

const bookingColumns = `
	r.id, r.ride_number, r.passenger_id, COALESCE(p.name, p.email, ''),
	r.driver_id, COALESCE(d.name, ''),
	r.status, r.vehicle_type,
	COALESCE(pickup.address, 'N/A'),
	COALESCE(destination.address, 'N/A'),
	r.estimated_fare, r.requested_at`

const bookingJoins = `
	LEFT JOIN users p ON r.passenger_id = p.id
	LEFT JOIN drivers d ON r.driver_id = d.id
	LEFT JOIN coordinates pickup ON r.pickup_coordinate_id = pickup.id
	LEFT JOIN coordinates destination ON r.destination_coordinate_id = destination.id`

// bookingWindow returns the active statuses and the requested_at cutoff
// for finished rides.
func bookingWindow(now time.Time) ([]string, time.Time) {
	active := make([]string, len(domain.ActiveStatuses))
	for i, st := range domain.ActiveStatuses {
		active[i] = string(st)
	}
	return active, now.Add(-bookingHistory)
}

func scanBooking(row rowScanner) (domain.Booking, error) {
	var b domain.Booking
	var driverID sql.NullString
	if err := row.Scan(
		&b.ID, &b.RideNumber, &b.PassengerID, &b.PassengerName,
		&driverID, &b.DriverName,
		&b.Status, &b.VehicleClass,
		&b.PickupAddress, &b.DestinationAddress,
		&b.EstimatedFare, &b.RequestedAt,
	); err != nil {
		return domain.Booking{}, err
	}
	if driverID.Valid {
		b.DriverID = driverID.String
	}
	return b, nil
}

// List returns rides in every lifecycle state, newest first: all active
// rides plus completed and cancelled ones from the last bookingHistory.
func (s *BookingStore) List(ctx context.Context) ([]domain.Booking, error) {
	active, since := bookingWindow(time.Now())

	rows, err := s.db.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM rides AS r`+bookingJoins+`
		WHERE r.status = ANY($1) OR r.requested_at >= $2
		ORDER BY r.requested_at DESC
	`, active, since)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (s *BookingStore) Create(context.Context, domain.Booking) (domain.Booking, error) {
	return domain.Booking{}, fmt.Errorf("create booking: %w", domain.ErrUnsupported)
}

// Update changes the dispatch state of a ride, its status and driver, and
// returns the ride as stored. Other fields of b are ignored.
func (s *BookingStore) Update(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	if !b.Status.IsValid() {
		return domain.Booking{}, fmt.Errorf("update booking: invalid status %q", b.Status)
	}
	var driverID sql.NullString
	if b.DriverID != "" {
		driverID = sql.NullString{String: b.DriverID, Valid: true}
	}
	saved, err := scanBooking(s.db.QueryRow(ctx, `
		WITH r AS (
			UPDATE rides
			SET status = $1, driver_id = $2, updated_at = NOW()
			WHERE id = $3
			RETURNING *
		)
		SELECT `+bookingColumns+`
		FROM r`+bookingJoins,
		string(b.Status), driverID, b.ID,
	))
	if err != nil {
		return domain.Booking{}, writeErr("update booking", err)
	}
	return saved, nil
}

// Delete cancels the ride.
func (s *BookingStore) Delete(ctx context.Context, id string) error {
	return execOne(ctx, s.db, "cancel booking", `
		UPDATE rides
		SET status = $1, cancelled_at = NOW(), cancellation_reason = 'cancelled by dispatcher', updated_at = NOW()
		WHERE id = $2 AND status <> $3
	`, string(domain.StatusCancelled), id, string(domain.StatusCompleted))
}

func (s *BookingStore) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.db.Exec(ctx, `
		UPDATE rides
		SET status = $1, cancelled_at = NOW(), cancellation_reason = 'cancelled by dispatcher', updated_at = NOW()
		WHERE id = ANY($2) AND status <> $3
	`, string(domain.StatusCancelled), ids, string(domain.StatusCompleted))
	if err != nil {
		return fmt.Errorf("cancel bookings: %w", err)
	}
	return nil
}
