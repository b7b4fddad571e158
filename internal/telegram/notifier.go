package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/camuig/trader-analyst/internal/config"
	"github.com/camuig/trader-analyst/internal/logger"
)

// maxMessageLength is Telegram's limit for one text message, in characters.
const maxMessageLength = 4096

// Notifier owns the bot connection and sends operator notices to the
// configured chat. It is a no-op when telegram is disabled or unreachable.
type Notifier struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	enabled bool
	logger  *logger.Logger
}

func NewNotifier(cfg *config.Config, log *logger.Logger) *Notifier {
	if !cfg.Telegram.Enabled {
		return &Notifier{enabled: false, logger: log}
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		log.Error("failed to create telegram bot", "error", err)
		return &Notifier{enabled: false, logger: log}
	}

	log.Info("telegram bot connected", "username", bot.Self.UserName)

	return &Notifier{
		bot:     bot,
		chatID:  cfg.Telegram.ChatID,
		enabled: true,
		logger:  log,
	}
}

func (n *Notifier) Enabled() bool {
	return n.enabled
}

func (n *Notifier) NotifyStarted(traders int, mode string) {
	n.NotifyStatus(fmt.Sprintf("trader-analyst started\nTraders loaded: %d\nMode: %s", traders, mode))
}

func (n *Notifier) NotifyError(context string, err error) {
	n.NotifyStatus(fmt.Sprintf("Error [%s]\n%v", context, err))
}

func (n *Notifier) NotifyStatus(message string) {
	if n.chatID == 0 {
		return
	}
	n.send(n.chatID, 0, message)
}

func (n *Notifier) send(chatID int64, replyTo int, text string) {
	if !n.enabled {
		return
	}

	for _, part := range splitMessage(text, maxMessageLength) {
		// plain text: model answers are not valid Telegram markdown
		msg := tgbotapi.NewMessage(chatID, part)
		msg.ReplyToMessageID = replyTo

		if _, err := n.bot.Send(msg); err != nil {
			n.logger.Error("send telegram message", "chat_id", chatID, "error", err)
			return
		}
	}
}

// splitMessage cuts text into chunks of at most limit runes, preferring to
// break after a newline.
func splitMessage(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var parts []string
	for len(runes) > limit {
		cut := limit
		for i := limit - 1; i > limit/2; i-- {
			if runes[i] == '\n' {
				cut = i + 1
				break
			}
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
