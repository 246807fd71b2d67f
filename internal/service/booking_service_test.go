package service

import (
	"context"
	"os"
	"testing"

	"zippyhand/internal/database"
	"zippyhand/internal/events"
	"zippyhand/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *database.DB {
	logger := zerolog.New(os.Stdout)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.CreateService(context.Background(), &models.Service{
		Title: "AC Service & Repair",
		Price: "₹499",
	}))
	return db
}

func newTestBookingService(t *testing.T, db *database.DB, bus *events.EventBus) *BookingService {
	logger := zerolog.New(os.Stdout)
	return NewBookingService(db, bus, nil, &logger)
}

func validInput(svc *BookingService) SubmitBookingInput {
	return SubmitBookingInput{
		Name:     "Ramesh Kumar",
		Phone:    "9876543210",
		Service:  "AC Service & Repair",
		Brand:    "Voltas",
		Date:     svc.OfferedDates()[0],
		TimeSlot: models.TimeSlots[1],
		Address:  "42, 4th Cross, Indiranagar, Bangalore",
		Landmark: "Near metro station",
	}
}

func TestOfferedDates_WindowStartsTomorrow(t *testing.T) {
	db := setupStore(t)
	svc := newTestBookingService(t, db, nil)

	dates := svc.OfferedDates()
	require.Len(t, dates, models.BookingWindowDays)

	seen := make(map[string]bool)
	for _, d := range dates {
		assert.False(t, seen[d], "dates must be distinct")
		seen[d] = true
	}
}

func TestSubmitBooking_Success(t *testing.T) {
	db := setupStore(t)
	svc := newTestBookingService(t, db, nil)
	ctx := context.Background()

	booking, err := svc.SubmitBooking(ctx, validInput(svc))
	require.NoError(t, err)
	assert.Greater(t, booking.ID, int64(0))
	assert.Equal(t, models.StatusPending, booking.Status)

	listed, err := db.ListBookings(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, booking.ID, listed[0].ID)
}

func TestSubmitBooking_TrimsWhitespace(t *testing.T) {
	db := setupStore(t)
	svc := newTestBookingService(t, db, nil)

	input := validInput(svc)
	input.Name = "  Ramesh Kumar  "
	input.Address = " 42, 4th Cross "

	booking, err := svc.SubmitBooking(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "Ramesh Kumar", booking.Name)
	assert.Equal(t, "42, 4th Cross", booking.Address)
}

func TestSubmitBooking_ValidationFailures(t *testing.T) {
	db := setupStore(t)
	svc := newTestBookingService(t, db, nil)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*SubmitBookingInput)
		field  string
	}{
		{"empty name", func(in *SubmitBookingInput) { in.Name = "   " }, "name"},
		{"short phone", func(in *SubmitBookingInput) { in.Phone = "98765" }, "phone"},
		{"alpha phone", func(in *SubmitBookingInput) { in.Phone = "98765abcde" }, "phone"},
		{"eleven digits", func(in *SubmitBookingInput) { in.Phone = "98765432100" }, "phone"},
		{"empty address", func(in *SubmitBookingInput) { in.Address = "" }, "address"},
		{"unknown slot", func(in *SubmitBookingInput) { in.TimeSlot = "8:00 PM - 10:00 PM" }, "time_slot"},
		{"malformed date", func(in *SubmitBookingInput) { in.Date = "05-09-2026" }, "date"},
		{"date too far", func(in *SubmitBookingInput) { in.Date = "2030-01-01" }, "date"},
		{"empty service", func(in *SubmitBookingInput) { in.Service = "" }, "service"},
		{"unknown service", func(in *SubmitBookingInput) { in.Service = "Sofa Cleaning" }, "service"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput(svc)
			tc.mutate(&input)

			_, err := svc.SubmitBooking(ctx, input)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}

	// No record may exist after any rejection
	listed, err := db.ListBookings(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestSubmitBooking_TodayRejected(t *testing.T) {
	db := setupStore(t)
	svc := newTestBookingService(t, db, nil)

	input := validInput(svc)
	input.Date = svc.now().Format(models.DateLayout)

	_, err := svc.SubmitBooking(context.Background(), input)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "date", verr.Field)
}

func TestSubmitBooking_PublishesEvent(t *testing.T) {
	db := setupStore(t)
	bus := events.NewEventBus()
	svc := newTestBookingService(t, db, bus)

	var got *events.BookingEventPayload
	bus.Subscribe(events.EventBookingCreated, func(ev *events.Event) error {
		payload, err := events.DecodeBookingPayload(ev.Payload)
		if err != nil {
			return err
		}
		got = payload
		return nil
	})

	booking, err := svc.SubmitBooking(context.Background(), validInput(svc))
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, booking.ID, got.BookingID)
	assert.Equal(t, models.StatusPending, got.Status)
}
