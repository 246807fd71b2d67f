package notify

import (
	"encoding/json"
	"testing"

	"zippyhand/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

func bookingEvent(t *testing.T) *events.Event {
	payload, err := json.Marshal(events.BookingEventPayload{
		BookingID: 5,
		Name:      "Ramesh Kumar",
		Phone:     "9876543210",
		Service:   "AC Service & Repair",
		Brand:     "Voltas",
		Date:      "2026-09-05",
		TimeSlot:  "9:00 AM - 11:00 AM",
		Address:   "Indiranagar, Bangalore",
		Status:    "pending",
	})
	require.NoError(t, err)
	return &events.Event{Type: events.EventBookingCreated, Payload: payload}
}

func TestHandleBookingCreated_SendsToAllChats(t *testing.T) {
	logger := zerolog.Nop()
	sender := &fakeSender{}
	notifier := NewTelegramNotifier(sender, []int64{100, 200}, &logger)

	err := notifier.HandleBookingCreated(bookingEvent(t))
	require.NoError(t, err)
	require.Len(t, sender.sent, 2)

	msg, ok := sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(100), msg.ChatID)
	assert.Contains(t, msg.Text, "New booking #5")
	assert.Contains(t, msg.Text, "Ramesh Kumar")
	assert.Contains(t, msg.Text, "9876543210")
	assert.Contains(t, msg.Text, "Voltas")
}

func TestHandleBookingCreated_SendFailureDoesNotAbort(t *testing.T) {
	logger := zerolog.Nop()
	sender := &fakeSender{err: assert.AnError}
	notifier := NewTelegramNotifier(sender, []int64{100, 200}, &logger)

	err := notifier.HandleBookingCreated(bookingEvent(t))
	require.NoError(t, err)
	assert.Len(t, sender.sent, 2)
}

func TestHandleBookingCreated_BadPayload(t *testing.T) {
	logger := zerolog.Nop()
	sender := &fakeSender{}
	notifier := NewTelegramNotifier(sender, []int64{100}, &logger)

	err := notifier.HandleBookingCreated(&events.Event{Type: events.EventBookingCreated, Payload: []byte("{")})
	assert.Error(t, err)
	assert.Empty(t, sender.sent)
}
