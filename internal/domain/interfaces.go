package domain

import (
	"context"

	"zippyhand/internal/models"
)

// Store is the persistence collaborator contract. It owns durability, ID
// assignment and creation timestamps for both collections.
type Store interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	ListBookings(ctx context.Context) ([]models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status string) error
	DeleteBooking(ctx context.Context, id int64) error
	CountBookingsByStatus(ctx context.Context) (map[string]int64, error)

	CreateService(ctx context.Context, service *models.Service) error
	GetService(ctx context.Context, id int64) (*models.Service, error)
	ListServices(ctx context.Context) ([]models.Service, error)
	UpdateService(ctx context.Context, service *models.Service) error
	DeleteService(ctx context.Context, id int64) error
	CountServices(ctx context.Context) (int64, error)

	AppendStatusChange(ctx context.Context, change models.StatusChange) error
	ListStatusChanges(ctx context.Context, bookingID int64) ([]models.StatusChange, error)
}

// SessionRepository stores admin sessions by token. Get returns (nil, nil)
// when the token is unknown or expired.
type SessionRepository interface {
	Get(ctx context.Context, token string) (*models.Session, error)
	Set(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, token string) error
}

// EventPublisher fans domain events out to in-process subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// SyncWorker schedules spreadsheet mirror tasks. Implementations must be
// safe to skip: callers treat a nil worker as "sync disabled".
type SyncWorker interface {
	EnqueueUpsert(ctx context.Context, booking *models.Booking) error
	EnqueueStatus(ctx context.Context, bookingID int64, status string) error
	EnqueueDelete(ctx context.Context, bookingID int64) error
}

// SessionService is the auth collaborator contract consumed by the admin
// surface. Validity is a boolean capability; there are no roles.
type SessionService interface {
	Login(ctx context.Context, username, password string) (*models.Session, error)
	Validate(ctx context.Context, token string) (*models.Session, error)
	Logout(ctx context.Context, token string) error
	OnSessionChange(fn func(token string, active bool))
}
