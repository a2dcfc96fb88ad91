package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/omarshaarawi/squadbot/internal/service"
)

// Telegram caps messages at 4096 UTF-16 units; a byte count never undercounts.
const maxMessageLength = 4096

var errNoChat = errors.New("chat ID not set")

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramBot struct {
	bot     *tgbotapi.BotAPI
	sender  sender
	handler *Handler
	chatID  int64
}

func NewTelegramBot(token string, chatID int64, squadService *service.SquadService) (*TelegramBot, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connecting to telegram: %w", err)
	}

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(botCommands()...)); err != nil {
		slog.Warn("Failed to register bot commands", "error", err)
	}

	return &TelegramBot{
		bot:     bot,
		sender:  bot,
		handler: NewHandler(squadService),
		chatID:  chatID,
	}, nil
}

// Start long-polls for commands until ctx is done.
func (t *TelegramBot) Start(ctx context.Context) error {
	slog.Info("Authorized on account", "username", t.bot.Self.UserName)
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message"}

	updates := t.bot.GetUpdatesChan(u)
	defer t.bot.StopReceivingUpdates()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			t.handleUpdate(ctx, update)
		case <-ctx.Done():
			return nil
		}
	}
}

func (t *TelegramBot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || !update.Message.IsCommand() {
		return
	}

	start := time.Now()
	msg := t.handler.HandleCommand(ctx, update)
	msg.ReplyToMessageID = update.Message.MessageID
	if err := t.send(msg); err != nil {
		slog.Error("Error replying to command", "command", update.Message.Command(), "error", err)
		return
	}
	slog.Info("Command handled", "command", update.Message.Command(),
		"chat", update.Message.Chat.ID, "duration", time.Since(start))
}

// SendMessage posts text to the configured group chat, split into as many
// messages as Telegram needs.
func (t *TelegramBot) SendMessage(text string) error {
	if t.chatID == 0 {
		return errNoChat
	}

	for _, part := range splitMessage(text, maxMessageLength) {
		msg := tgbotapi.NewMessage(t.chatID, part)
		msg.ParseMode = tgbotapi.ModeMarkdown
		if err := t.send(msg); err != nil {
			return err
		}
	}
	return nil
}

func (t *TelegramBot) send(msg tgbotapi.MessageConfig) error {
	if _, err := t.sender.Send(msg); err != nil {
		return fmt.Errorf("sending message to chat %d: %w", msg.ChatID, err)
	}
	return nil
}

// splitMessage cuts text into chunks of at most limit bytes, preferring line
// breaks so Markdown spans stay whole.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var parts []string
	var sb strings.Builder
	flush := func() {
		if sb.Len() > 0 {
			parts = append(parts, sb.String())
			sb.Reset()
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			cut := limit
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			flush()
			parts = append(parts, line[:cut])
			line = line[cut:]
		}
		if sb.Len()+len(line) > limit {
			flush()
		}
		sb.WriteString(line)
	}
	flush()
	return parts
}
