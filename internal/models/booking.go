package models

import "time"

// Booking is one customer request for a repair visit. Date is a calendar
// date in YYYY-MM-DD form; the store assigns ID and CreatedAt.
type Booking struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Service   string    `json:"service"`
	Brand     string    `json:"brand,omitempty"`
	Date      string    `json:"date"`
	TimeSlot  string    `json:"time_slot"`
	Address   string    `json:"address"`
	Landmark  string    `json:"landmark,omitempty"`
	Status    string    `json:"status"` // pending, completed, cancelled
	CreatedAt time.Time `json:"created_at"`
}

// StatusChange is one row of the append-only booking status log.
type StatusChange struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"booking_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	ChangedAt time.Time `json:"changed_at"`
}
