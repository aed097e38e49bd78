package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"kindly/internal/services"
)

const (
	callbackDone         = "done"
	callbackResetConfirm = "reset_confirm"
	callbackResetCancel  = "reset_cancel"
)

// botAPI часть tgbotapi.BotAPI, которой пользуются обработчики
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Bot struct {
	client   *tgbotapi.BotAPI
	api      botAPI
	username string
	chatID   int64
	services *services.ServiceManager
	handlers map[string]func(*tgbotapi.Message, string)
	now      func() time.Time
}

var _ services.NotificationSender = (*Bot)(nil)

func NewBot(token string, chatID int64, serviceManager *services.ServiceManager) (*Bot, error) {
	client, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания бота: %w", err)
	}

	bot := newBot(client, client.Self.UserName, chatID, serviceManager)
	bot.client = client
	log.Printf("🤖 Бот инициализирован: %s", client.Self.UserName)
	return bot, nil
}

func newBot(api botAPI, username string, chatID int64, serviceManager *services.ServiceManager) *Bot {
	bot := &Bot{
		api:      api,
		username: username,
		chatID:   chatID,
		services: serviceManager,
		handlers: make(map[string]func(*tgbotapi.Message, string)),
		now:      time.Now,
	}
	bot.registerHandlers()
	return bot
}

func (b *Bot) registerHandlers() {
	b.handlers["/start"] = b.handleHelp
	b.handlers["/help"] = b.handleHelp
	b.handlers["/today"] = b.handleToday
	b.handlers["/done"] = b.handleDone
	b.handlers["/streak"] = b.handleStreak
	b.handlers["/summary"] = b.handleSummary
	b.handlers["/regen"] = b.handleRegen
	b.handlers["/add"] = b.handleAdd
	b.handlers["/reset"] = b.handleReset
	b.handlers["/reminder"] = b.handleReminder
}

func (b *Bot) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}

// IsAuthorized бот может писать, только если задан чат
func (b *Bot) IsAuthorized() bool {
	return b.chatID != 0
}

func (b *Bot) sendWithKeyboard(text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("❌ Ошибка отправки сообщения: %v", err)
	}
}

func doneKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Done", callbackDone),
		),
	)
}

func resetKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🧹 Yes, reset", callbackResetConfirm),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", callbackResetCancel),
		),
	)
}

func (b *Bot) GetUsername() string {
	return b.username
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.client.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.client.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(update)
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallbackQuery(update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.Chat == nil {
		return
	}

	if update.Message.Chat.ID != b.chatID {
		log.Printf("⛔ Сообщение из чужого чата %d", update.Message.Chat.ID)
		if _, err := b.api.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "⛔ Access denied")); err != nil {
			log.Printf("❌ Ошибка отправки сообщения: %v", err)
		}
		return
	}

	b.handleMessage(update.Message)
}

// handleMessage разбирает "/команда аргументы"; имя бота после @ отбрасывается
func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	if !strings.HasPrefix(text, "/") {
		return
	}

	command, args, _ := strings.Cut(text, " ")
	command, _, _ = strings.Cut(command, "@")

	handler, exists := b.handlers[strings.ToLower(command)]
	if !exists {
		b.SendMessageOrLogError("❌ Unknown command. Send /help")
		return
	}
	handler(msg, strings.TrimSpace(args))
}

func (b *Bot) handleCallbackQuery(callback *tgbotapi.CallbackQuery) {
	defer func() {
		if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "✅")); err != nil {
			log.Printf("⚠️ Ошибка ответа на callback: %v", err)
		}
	}()

	if callback.Message == nil || callback.Message.Chat == nil || callback.Message.Chat.ID != b.chatID {
		return
	}

	log.Printf("Received callback: %s", callback.Data)

	switch callback.Data {
	case callbackDone:
		b.complete("")
	case callbackResetConfirm:
		b.reset()
	case callbackResetCancel:
		b.SendMessageOrLogError("👌 Nothing was reset.")
	}
}
