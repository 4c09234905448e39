package bot

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Reply is an outbound message before it is turned into a Telegram
// payload. Keyboard rows: nil keeps the user's current keyboard, an
// empty non-nil slice removes it.
type Reply struct {
	Text     string
	HTML     bool
	Keyboard [][]string
	OneTime  bool
}

type Sender interface {
	Send(ctx context.Context, chatID int64, reply Reply) error
}

// TelegramSender sends replies through the Bot API.
type TelegramSender struct {
	api    *tgbotapi.BotAPI
	logger *log.Logger
}

func NewTelegramSender(api *tgbotapi.BotAPI, logger *log.Logger) *TelegramSender {
	return &TelegramSender{api: api, logger: logger}
}

func (s *TelegramSender) Send(_ context.Context, chatID int64, reply Reply) error {
	msg := tgbotapi.NewMessage(chatID, reply.Text)
	if reply.HTML {
		msg.ParseMode = tgbotapi.ModeHTML
	}

	switch {
	case reply.Keyboard == nil:
	case len(reply.Keyboard) == 0:
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	default:
		rows := make([][]tgbotapi.KeyboardButton, 0, len(reply.Keyboard))
		for _, row := range reply.Keyboard {
			buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
			for _, label := range row {
				buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
			}
			rows = append(rows, buttons)
		}
		keyboard := tgbotapi.NewReplyKeyboard(rows...)
		keyboard.OneTimeKeyboard = reply.OneTime
		msg.ReplyMarkup = keyboard
	}

	if _, err := s.api.Send(msg); err != nil {
		s.logger.Printf("failed to send message to %d: %v", chatID, err)
		return err
	}
	return nil
}
