package models

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// BookingStatuses lists every state the moderation surface may set. The
// transition relation is total: any state is reachable from any other.
var BookingStatuses = []string{StatusPending, StatusCompleted, StatusCancelled}

// ValidStatus reports whether s is a known booking status.
func ValidStatus(s string) bool {
	for _, known := range BookingStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// TimeSlots are the five daily service windows offered at submission.
var TimeSlots = []string{
	"9:00 AM - 11:00 AM",
	"11:00 AM - 1:00 PM",
	"2:00 PM - 4:00 PM",
	"4:00 PM - 6:00 PM",
	"6:00 PM - 8:00 PM",
}

// ValidTimeSlot reports whether slot is one of the offered windows.
func ValidTimeSlot(slot string) bool {
	for _, s := range TimeSlots {
		if slot == s {
			return true
		}
	}
	return false
}

// Brands is the appliance-brand list offered in the booking form. The field
// itself stays optional and free-form on the wire.
var Brands = []string{
	"LG",
	"Samsung",
	"Voltas",
	"Daikin",
	"Blue Star",
	"Hitachi",
	"Carrier",
	"Lloyd",
	"Whirlpool",
	"Godrej",
	"Panasonic",
	"IFB",
	"Bosch",
	"Haier",
	"Kent",
	"Aquaguard",
	"Other",
}

const (
	// BookingWindowDays is the number of selectable dates, starting tomorrow.
	BookingWindowDays = 7

	// DateLayout is the wire and storage format for booking dates.
	DateLayout = "2006-01-02"

	// DefaultIcon is assigned to catalog entries created without an icon.
	DefaultIcon = "Wrench"

	// DefaultSessionTTLHours is the admin session lifetime when unconfigured.
	DefaultSessionTTLHours = 12

	// WorkerQueueSize bounds the in-memory sheets sync queue.
	WorkerQueueSize = 128
)
