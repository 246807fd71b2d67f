package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"zippyhand/internal/domain"
	"zippyhand/internal/events"
	"zippyhand/internal/metrics"
	"zippyhand/internal/models"

	"github.com/rs/zerolog"
)

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// SubmitBookingInput carries an untrusted public submission.
type SubmitBookingInput struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Service  string `json:"service"`
	Brand    string `json:"brand"`
	Date     string `json:"date"`
	TimeSlot string `json:"time_slot"`
	Address  string `json:"address"`
	Landmark string `json:"landmark"`
}

// BookingService accepts public booking submissions: validates locally,
// creates exactly one record, and fans out to subscribers.
type BookingService struct {
	store  domain.Store
	events domain.EventPublisher
	sync   domain.SyncWorker
	logger *zerolog.Logger

	now func() time.Time
}

func NewBookingService(store domain.Store, eventBus domain.EventPublisher, syncWorker domain.SyncWorker, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		store:  store,
		events: eventBus,
		sync:   syncWorker,
		logger: logger,
		now:    time.Now,
	}
}

// OfferedDates returns the selectable calendar dates: tomorrow through
// BookingWindowDays out, computed from the current date.
func (s *BookingService) OfferedDates() []string {
	today := s.now()
	dates := make([]string, 0, models.BookingWindowDays)
	for i := 1; i <= models.BookingWindowDays; i++ {
		dates = append(dates, today.AddDate(0, 0, i).Format(models.DateLayout))
	}
	return dates
}

// SubmitBooking validates the input and creates one pending booking.
// Validation failures return a *ValidationError before any store call; store
// failures pass through verbatim. No retry is attempted.
func (s *BookingService) SubmitBooking(ctx context.Context, input SubmitBookingInput) (*models.Booking, error) {
	if err := s.validate(ctx, &input); err != nil {
		if verr, ok := err.(*ValidationError); ok {
			metrics.IncValidationRejection(verr.Field)
		}
		return nil, err
	}

	booking := &models.Booking{
		Name:     strings.TrimSpace(input.Name),
		Phone:    input.Phone,
		Service:  input.Service,
		Brand:    strings.TrimSpace(input.Brand),
		Date:     input.Date,
		TimeSlot: input.TimeSlot,
		Address:  strings.TrimSpace(input.Address),
		Landmark: strings.TrimSpace(input.Landmark),
		Status:   models.StatusPending,
	}

	if err := s.store.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	metrics.IncBookingSubmitted()
	s.logger.Info().
		Int64("booking_id", booking.ID).
		Str("service", booking.Service).
		Str("date", booking.Date).
		Str("time_slot", booking.TimeSlot).
		Msg("booking created")

	s.publish(events.EventBookingCreated, booking, "")
	s.enqueueUpsert(ctx, booking)

	return booking, nil
}

func (s *BookingService) validate(ctx context.Context, input *SubmitBookingInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return invalid("name", "name is required")
	}
	if !phonePattern.MatchString(input.Phone) {
		return invalid("phone", "phone must be exactly 10 digits")
	}
	if strings.TrimSpace(input.Address) == "" {
		return invalid("address", "address is required")
	}
	if !models.ValidTimeSlot(input.TimeSlot) {
		return invalid("time_slot", "time slot is not one of the offered windows")
	}
	if !s.dateOffered(input.Date) {
		return invalid("date", "date must be within the next 7 days, starting tomorrow")
	}
	if err := s.serviceOffered(ctx, input.Service); err != nil {
		return err
	}
	return nil
}

func (s *BookingService) dateOffered(date string) bool {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return false
	}
	for _, offered := range s.OfferedDates() {
		if date == offered {
			return true
		}
	}
	return false
}

func (s *BookingService) serviceOffered(ctx context.Context, title string) error {
	if strings.TrimSpace(title) == "" {
		return invalid("service", "service is required")
	}

	services, err := s.store.ListServices(ctx)
	if err != nil {
		return err
	}
	for _, svc := range services {
		if svc.Title == title {
			return nil
		}
	}
	return invalid("service", "service is not in the current catalog")
}

func (s *BookingService) publish(eventType string, booking *models.Booking, oldStatus string) {
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

func (s *BookingService) enqueueUpsert(ctx context.Context, booking *models.Booking) {
	if s.sync == nil {
		return
	}
	if err := s.sync.EnqueueUpsert(ctx, booking); err != nil {
		s.logger.Error().Err(err).Int64("booking_id", booking.ID).Msg("sheets enqueue error")
	}
}
