package notify

import (
	"fmt"
	"strings"

	"zippyhand/internal/config"
	"zippyhand/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Sender is the narrow slice of the bot API the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier pushes new-booking alerts to the manager chats. Delivery
// is best-effort: a send failure is logged and never blocks the submission.
type TelegramNotifier struct {
	bot     Sender
	chatIDs []int64
	logger  *zerolog.Logger
}

func NewTelegramNotifier(bot Sender, chatIDs []int64, logger *zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, chatIDs: chatIDs, logger: logger}
}

// NewBotAPI builds the underlying bot client from config.
func NewBotAPI(cfg config.TelegramConfig) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("error creating bot api: %v", err)
	}
	bot.Debug = cfg.Debug
	return bot, nil
}

// HandleBookingCreated is the event handler wired to booking_created.
func (n *TelegramNotifier) HandleBookingCreated(event *events.Event) error {
	payload, err := events.DecodeBookingPayload(event.Payload)
	if err != nil {
		n.logger.Error().Err(err).Msg("decode booking event")
		return err
	}

	text := formatBookingAlert(payload)
	for _, chatID := range n.chatIDs {
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ParseMode = "Markdown"
		if _, err := n.bot.Send(msg); err != nil {
			n.logger.Error().Err(err).Int64("chat_id", chatID).Int64("booking_id", payload.BookingID).Msg("send booking alert")
		}
	}
	return nil
}

func formatBookingAlert(p *events.BookingEventPayload) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔔 *New booking #%d*\n\n", p.BookingID))
	b.WriteString(fmt.Sprintf("👤 *Name:* %s\n", p.Name))
	b.WriteString(fmt.Sprintf("📱 *Phone:* %s\n", p.Phone))
	b.WriteString(fmt.Sprintf("🔧 *Service:* %s\n", p.Service))
	if p.Brand != "" {
		b.WriteString(fmt.Sprintf("🏷 *Brand:* %s\n", p.Brand))
	}
	b.WriteString(fmt.Sprintf("📅 *Date:* %s\n", p.Date))
	b.WriteString(fmt.Sprintf("🕐 *Time:* %s\n", p.TimeSlot))
	b.WriteString(fmt.Sprintf("📍 *Address:* %s\n", p.Address))
	if p.Landmark != "" {
		b.WriteString(fmt.Sprintf("🗺 *Landmark:* %s\n", p.Landmark))
	}
	return b.String()
}
