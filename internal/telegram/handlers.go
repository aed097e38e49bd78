package telegram

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"kindly/internal/kindness"
	"kindly/internal/utils"
)

// handlers.go - обработчики команд Telegram бота

const storageFailedText = "❌ Could not save your progress. Please try again later."

func (b *Bot) handleHelp(_ *tgbotapi.Message, _ string) {
	b.SendMessageOrLogError(RenderHelp())
}

func (b *Bot) handleToday(_ *tgbotapi.Message, _ string) {
	now := b.now()
	act, err := b.services.Today(now)
	if errors.Is(err, kindness.ErrNoActsAvailable) {
		b.SendMessageOrLogError(RenderPlaceholder())
		return
	}
	if err != nil {
		log.Printf("❌ Ошибка выбора акта дня: %v", err)
		b.SendMessageOrLogError(storageFailedText)
		return
	}

	day := b.services.Day(now)
	completed := b.services.IsCompleted(day)
	text := RenderToday(day, act, completed, b.services.Streak(now))
	if completed {
		b.SendMessageOrLogError(text)
		return
	}
	b.sendWithKeyboard(text, doneKeyboard())
}

func (b *Bot) handleDone(_ *tgbotapi.Message, args string) {
	b.complete(args)
}

func (b *Bot) complete(reflection string) {
	res, err := b.services.Complete(b.now(), reflection)
	if errors.Is(err, kindness.ErrNoActsAvailable) {
		b.SendMessageOrLogError(RenderPlaceholder())
		return
	}
	if err != nil {
		log.Printf("❌ Ошибка отметки выполнения: %v", err)
		b.SendMessageOrLogError(storageFailedText)
		return
	}
	b.SendMessageOrLogError(RenderCompletion(res))
}

func (b *Bot) handleStreak(_ *tgbotapi.Message, _ string) {
	b.SendMessageOrLogError(RenderStreak(b.services.Streak(b.now())))
}

func (b *Bot) handleSummary(_ *tgbotapi.Message, args string) {
	if args == "" {
		b.SendMessageOrLogError(RenderSummaryList(b.services.Summaries()))
		return
	}

	key, err := parseMonthArgs(args)
	if err != nil {
		b.SendMessageOrLogError("❌ Format: /summary MM YYYY")
		return
	}

	summary, ok := b.services.Summary(key)
	if !ok {
		b.SendMessageOrLogError(fmt.Sprintf("📭 No summary for %s yet. Send /regen %02d %d to build it.", key, int(key.Month), key.Year))
		return
	}
	b.SendMessageOrLogError(RenderSummary(summary))
}

func (b *Bot) handleRegen(_ *tgbotapi.Message, args string) {
	key, err := parseMonthArgs(args)
	if err != nil {
		b.SendMessageOrLogError("❌ Format: /regen MM YYYY")
		return
	}

	summary, err := b.services.RegenerateSummary(key, b.now())
	if errors.Is(err, kindness.ErrNoData) {
		b.SendMessageOrLogError(fmt.Sprintf("📭 No acts of kindness recorded in %s.", key))
		return
	}
	if err != nil {
		log.Printf("❌ Ошибка генерации сводки: %v", err)
		b.SendMessageOrLogError(storageFailedText)
		return
	}
	b.SendMessageOrLogError(RenderSummary(summary))
}

func (b *Bot) handleAdd(_ *tgbotapi.Message, args string) {
	title, description, _ := strings.Cut(args, "|")
	if strings.TrimSpace(title) == "" {
		b.SendMessageOrLogError("❌ Format: /add title | description")
		return
	}

	act, err := b.services.AddCustomAct(title, description)
	if err != nil {
		log.Printf("❌ Ошибка добавления акта: %v", err)
		b.SendMessageOrLogError(storageFailedText)
		return
	}
	b.SendMessageOrLogError(RenderAdded(act))
}

func (b *Bot) handleReset(_ *tgbotapi.Message, _ string) {
	b.sendWithKeyboard("⚠️ Reset all completions and your streak? Summaries and your own acts are kept.", resetKeyboard())
}

func (b *Bot) reset() {
	if err := b.services.Reset(b.now()); err != nil {
		log.Printf("❌ Ошибка сброса: %v", err)
		b.SendMessageOrLogError(storageFailedText)
		return
	}
	b.SendMessageOrLogError("🧹 Progress has been reset. Tomorrow is a fresh start!")
}

func (b *Bot) handleReminder(_ *tgbotapi.Message, args string) {
	ns := b.services.Notification
	if ns == nil {
		b.SendMessageOrLogError("⚠️ Reminders are not available.")
		return
	}

	if strings.EqualFold(args, "off") {
		ns.CancelAllReminders()
		b.SendMessageOrLogError("🔕 Daily reminder is off.")
		return
	}

	hour, minute, err := utils.ParseClock(args)
	if err != nil {
		b.SendMessageOrLogError("❌ Format: /reminder HH:MM or /reminder off")
		return
	}
	if err := ns.ScheduleDailyReminder(hour, minute); err != nil {
		log.Printf("❌ Ошибка настройки напоминания: %v", err)
		b.SendMessageOrLogError("❌ Could not schedule the reminder.")
		return
	}
	b.SendMessageOrLogError(fmt.Sprintf("⏰ Daily reminder set for %s (%s).", utils.FormatClock(hour, minute), b.services.Location()))
}

// parseMonthArgs разбирает "MM YYYY"
func parseMonthArgs(args string) (kindness.MonthKey, error) {
	parts := strings.Fields(args)
	if len(parts) != 2 {
		return kindness.MonthKey{}, errors.New("expected MM YYYY")
	}

	month, err := strconv.Atoi(parts[0])
	if err != nil {
		return kindness.MonthKey{}, fmt.Errorf("month: %w", err)
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return kindness.MonthKey{}, fmt.Errorf("year: %w", err)
	}

	key := kindness.MonthKey{Year: year, Month: time.Month(month)}
	if !key.Valid() {
		return kindness.MonthKey{}, fmt.Errorf("invalid month %s", key)
	}
	return key, nil
}
