package services

import (
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"kindly/internal/kindness"
	"kindly/internal/utils"
)

// DefaultReminderText текст напоминания, если акт дня недоступен
const DefaultReminderText = "Open Kindly to see your daily kindness task."

// NotificationSender интерфейс для отправки уведомлений
type NotificationSender interface {
	SendMessage(text string) error
	IsAuthorized() bool
}

// NotificationService ежедневные напоминания через cron.
// Ошибки отправки не фатальны и только логируются.
type NotificationService struct {
	sender   NotificationSender
	cron     *cron.Cron
	reminder func() string

	mu      sync.Mutex
	entries []cron.EntryID
}

var _ kindness.Notifier = (*NotificationService)(nil)

func NewNotificationService(sender NotificationSender, c *cron.Cron, reminder func() string) *NotificationService {
	if reminder == nil {
		reminder = func() string { return DefaultReminderText }
	}
	return &NotificationService{
		sender:   sender,
		cron:     c,
		reminder: reminder,
	}
}

// ScheduleDailyReminder заменяет прежние напоминания одним ежедневным
func (ns *NotificationService) ScheduleDailyReminder(hour, minute int) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("invalid reminder time %d:%d", hour, minute)
	}

	ns.CancelAllReminders()

	ns.mu.Lock()
	defer ns.mu.Unlock()

	id, err := ns.cron.AddFunc(utils.CronDaily(hour, minute), ns.sendReminder)
	if err != nil {
		return fmt.Errorf("schedule reminder: %w", err)
	}
	ns.entries = append(ns.entries, id)

	log.Printf("⏰ Напоминание запланировано на %s", utils.FormatClock(hour, minute))
	return nil
}

func (ns *NotificationService) CancelAllReminders() {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	for _, id := range ns.entries {
		ns.cron.Remove(id)
	}
	ns.entries = nil
}

func (ns *NotificationService) IsAuthorized() bool {
	return ns.sender != nil && ns.sender.IsAuthorized()
}

// HasReminders есть ли активные напоминания
func (ns *NotificationService) HasReminders() bool {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return len(ns.entries) > 0
}

func (ns *NotificationService) sendReminder() {
	ns.Notify(ns.reminder())
}

// Notify отправляет сообщение, если отправитель авторизован
func (ns *NotificationService) Notify(text string) {
	if !ns.IsAuthorized() {
		log.Printf("⚠️ Уведомление пропущено: нет авторизации")
		return
	}
	if err := ns.sender.SendMessage(text); err != nil {
		log.Printf("❌ Ошибка отправки уведомления: %v", err)
	}
}
