package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"zippyhand/internal/models"
)

// CreateBooking inserts a new booking. The store assigns ID and CreatedAt
// and writes them back to the passed record.
func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `
        INSERT INTO bookings (name, phone, service, brand, date, time_slot, address, landmark, status, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `

	now := time.Now().UTC()
	if booking.Status == "" {
		booking.Status = models.StatusPending
	}

	result, err := db.ExecContext(ctx, query,
		booking.Name,
		booking.Phone,
		booking.Service,
		booking.Brand,
		booking.Date,
		booking.TimeSlot,
		booking.Address,
		booking.Landmark,
		booking.Status,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	booking.ID = id
	booking.CreatedAt = now
	return nil
}

// GetBooking returns a booking by ID.
func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `
        SELECT id, name, phone, service, brand, date, time_slot, address, landmark, status, created_at
        FROM bookings WHERE id = ?
    `

	var booking models.Booking
	err := db.QueryRowContext(ctx, query, id).Scan(
		&booking.ID,
		&booking.Name,
		&booking.Phone,
		&booking.Service,
		&booking.Brand,
		&booking.Date,
		&booking.TimeSlot,
		&booking.Address,
		&booking.Landmark,
		&booking.Status,
		&booking.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return &booking, nil
}

// ListBookings returns the full collection, most recent first.
func (db *DB) ListBookings(ctx context.Context) ([]models.Booking, error) {
	query := `
        SELECT id, name, phone, service, brand, date, time_slot, address, landmark, status, created_at
        FROM bookings
        ORDER BY created_at DESC, id DESC
    `

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var booking models.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.Name,
			&booking.Phone,
			&booking.Service,
			&booking.Brand,
			&booking.Date,
			&booking.TimeSlot,
			&booking.Address,
			&booking.Landmark,
			&booking.Status,
			&booking.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}

// UpdateBookingStatus overwrites the status for the given ID. There is no
// transition guard and no version check; the last write wins.
func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE bookings SET status = ? WHERE id = ?`

	result, err := db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBooking removes a booking permanently.
func (db *DB) DeleteBooking(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountBookingsByStatus returns booking counts keyed by status.
func (db *DB) CountBookingsByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := db.QueryContext(ctx, `SELECT status, COUNT(*) FROM bookings GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
