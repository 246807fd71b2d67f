package service

import (
	"context"
	"time"

	"zippyhand/internal/domain"
	"zippyhand/internal/events"
	"zippyhand/internal/metrics"
	"zippyhand/internal/models"

	"github.com/rs/zerolog"
)

// Stats summarizes the dashboard counters.
type Stats struct {
	TotalBookings     int64 `json:"total_bookings"`
	PendingBookings   int64 `json:"pending_bookings"`
	CompletedBookings int64 `json:"completed_bookings"`
	CancelledBookings int64 `json:"cancelled_bookings"`
	ActiveServices    int64 `json:"active_services"`
}

// AdminService is the moderation workflow: full booking visibility, the only
// status mutation path, and hard deletes. Session gating happens at the API
// layer; every valid session has full authority here.
type AdminService struct {
	store  domain.Store
	events domain.EventPublisher
	sync   domain.SyncWorker
	logger *zerolog.Logger
}

func NewAdminService(store domain.Store, eventBus domain.EventPublisher, syncWorker domain.SyncWorker, logger *zerolog.Logger) *AdminService {
	return &AdminService{
		store:  store,
		events: eventBus,
		sync:   syncWorker,
		logger: logger,
	}
}

// ListBookings returns every booking, most recent first.
func (s *AdminService) ListBookings(ctx context.Context) ([]models.Booking, error) {
	return s.store.ListBookings(ctx)
}

// SetBookingStatus unconditionally overwrites the status. Any state is
// reachable from any other; repeating the same status is a no-op overwrite.
func (s *AdminService) SetBookingStatus(ctx context.Context, id int64, status string) error {
	if !models.ValidStatus(status) {
		return invalid("status", "unknown booking status")
	}

	booking, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.UpdateBookingStatus(ctx, id, status); err != nil {
		return err
	}

	metrics.IncAdminAction("set_status")
	s.logger.Info().Int64("booking_id", id).Str("from", booking.Status).Str("to", status).Msg("booking status set")

	oldStatus := booking.Status
	booking.Status = status
	s.publish(events.EventBookingStatusChanged, booking, oldStatus)

	if s.sync != nil {
		if err := s.sync.EnqueueStatus(ctx, id, status); err != nil {
			s.logger.Error().Err(err).Int64("booking_id", id).Msg("sheets enqueue error")
		}
	}
	return nil
}

// DeleteBooking removes a booking permanently. The interactive confirmation
// lives in the presentation layer; this call is the irreversible step.
func (s *AdminService) DeleteBooking(ctx context.Context, id int64) error {
	booking, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteBooking(ctx, id); err != nil {
		return err
	}

	metrics.IncAdminAction("delete_booking")
	s.logger.Info().Int64("booking_id", id).Msg("booking deleted")
	s.publish(events.EventBookingDeleted, booking, "")

	if s.sync != nil {
		if err := s.sync.EnqueueDelete(ctx, id); err != nil {
			s.logger.Error().Err(err).Int64("booking_id", id).Msg("sheets enqueue error")
		}
	}
	return nil
}

// ListStatusChanges returns the append-only status history for a booking.
func (s *AdminService) ListStatusChanges(ctx context.Context, bookingID int64) ([]models.StatusChange, error) {
	if _, err := s.store.GetBooking(ctx, bookingID); err != nil {
		return nil, err
	}
	return s.store.ListStatusChanges(ctx, bookingID)
}

// GetStats collects the dashboard counters.
func (s *AdminService) GetStats(ctx context.Context) (*Stats, error) {
	counts, err := s.store.CountBookingsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	serviceCount, err := s.store.CountServices(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		PendingBookings:   counts[models.StatusPending],
		CompletedBookings: counts[models.StatusCompleted],
		CancelledBookings: counts[models.StatusCancelled],
		ActiveServices:    serviceCount,
	}
	for _, c := range counts {
		stats.TotalBookings += c
	}
	return stats, nil
}

func (s *AdminService) publish(eventType string, booking *models.Booking, oldStatus string) {
	if s.events == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		Name:      booking.Name,
		Phone:     booking.Phone,
		Service:   booking.Service,
		Brand:     booking.Brand,
		Date:      booking.Date,
		TimeSlot:  booking.TimeSlot,
		Address:   booking.Address,
		Landmark:  booking.Landmark,
		Status:    booking.Status,
		OldStatus: oldStatus,
	}

	if err := s.events.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}

// NewStatusAuditHandler returns an event handler that appends status
// transitions to the store's append-only log.
func NewStatusAuditHandler(store domain.Store, logger *zerolog.Logger) events.EventHandler {
	return func(event *events.Event) error {
		payload, err := events.DecodeBookingPayload(event.Payload)
		if err != nil {
			logger.Error().Err(err).Msg("decode status change event")
			return err
		}

		change := models.StatusChange{
			BookingID: payload.BookingID,
			OldStatus: payload.OldStatus,
			NewStatus: payload.Status,
			ChangedAt: time.Now().UTC(),
		}
		if err := store.AppendStatusChange(context.Background(), change); err != nil {
			logger.Error().Err(err).Int64("booking_id", payload.BookingID).Msg("append status change")
			return err
		}
		return nil
	}
}
