package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/camuig/trader-analyst/internal/chatbot"
	"github.com/camuig/trader-analyst/internal/logger"
)

const helpText = `Ask about traders in plain language, for example:
- 승률 상위 3명
- T001 성과 알려줘
- 김민준과 이서연 비교해줘
- 아침에 활동하는 트레이더 패턴`

type Answerer interface {
	ProcessQuery(ctx context.Context, q string) string
}

// Frontend long-polls for messages and answers each one through the
// chatbot pipeline, replying to the original message.
type Frontend struct {
	notifier *Notifier
	answerer Answerer
	logger   *logger.Logger
}

func NewFrontend(n *Notifier, answerer Answerer, log *logger.Logger) *Frontend {
	return &Frontend{notifier: n, answerer: answerer, logger: log}
}

// Run blocks until ctx is cancelled.
func (f *Frontend) Run(ctx context.Context) {
	if !f.notifier.enabled {
		f.logger.Info("telegram frontend disabled")
		return
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := f.notifier.bot.GetUpdatesChan(u)

	f.logger.Info("telegram frontend listening", "chat_id", f.notifier.chatID)

	for {
		select {
		case <-ctx.Done():
			f.notifier.bot.StopReceivingUpdates()
			f.logger.Info("telegram frontend stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			reply, ok := f.respond(ctx, update.Message)
			if !ok {
				continue
			}
			f.notifier.send(update.Message.Chat.ID, update.Message.MessageID, reply)
		}
	}
}

// respond decides the reply for one message. ok is false when the message
// must be ignored.
func (f *Frontend) respond(ctx context.Context, msg *tgbotapi.Message) (string, bool) {
	if msg.Chat == nil {
		return "", false
	}
	if allowed := f.notifier.chatID; allowed != 0 && msg.Chat.ID != allowed {
		f.logger.Warn("ignoring message from unknown chat", "chat_id", msg.Chat.ID)
		return "", false
	}

	if msg.IsCommand() {
		switch msg.Command() {
		case "start", "help":
			return helpText, true
		default:
			return "Unknown command. " + helpText, true
		}
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return "", false
	}
	return f.answerer.ProcessQuery(chatbot.WithSource(ctx, "telegram"), text), true
}
