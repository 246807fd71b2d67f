package database

import (
	"context"
	"fmt"
	"time"

	"zippyhand/internal/models"
)

// AppendStatusChange records one status transition in the append-only log.
func (db *DB) AppendStatusChange(ctx context.Context, change models.StatusChange) error {
	query := `INSERT INTO booking_status_log (booking_id, old_status, new_status, changed_at)
              VALUES (?, ?, ?, ?)`

	changedAt := change.ChangedAt
	if changedAt.IsZero() {
		changedAt = time.Now().UTC()
	}

	_, err := db.ExecContext(ctx, query, change.BookingID, change.OldStatus, change.NewStatus, changedAt)
	if err != nil {
		return fmt.Errorf("failed to append status change: %w", err)
	}
	return nil
}

// ListStatusChanges returns the status history for a booking, oldest first.
func (db *DB) ListStatusChanges(ctx context.Context, bookingID int64) ([]models.StatusChange, error) {
	query := `SELECT id, booking_id, old_status, new_status, changed_at
              FROM booking_status_log WHERE booking_id = ? ORDER BY id`

	rows, err := db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list status changes: %w", err)
	}
	defer rows.Close()

	var changes []models.StatusChange
	for rows.Next() {
		var change models.StatusChange
		if err := rows.Scan(&change.ID, &change.BookingID, &change.OldStatus, &change.NewStatus, &change.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status change: %w", err)
		}
		changes = append(changes, change)
	}
	return changes, rows.Err()
}
