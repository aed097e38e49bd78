package services

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"kindly/internal/kindness"
)

// PlaceholderActTitle показывается, когда акта дня нет
const PlaceholderActTitle = "Be kind to someone today"

// EventKind тип изменения состояния
type EventKind string

const (
	EventSelectionChanged EventKind = "selection_changed"
	EventCompleted        EventKind = "completed"
	EventSummaryGenerated EventKind = "summary_generated"
	EventReset            EventKind = "reset"
)

// Event уведомление подписчикам; поля заполняются по типу события
type Event struct {
	Kind    EventKind
	Day     kindness.Day
	Act     kindness.Act
	Streak  kindness.StreakState
	Summary *kindness.MonthlySummary
}

// Glance снимок для внешнего виджета, только чтение
type Glance struct {
	ActTitle      string
	Completed     bool
	CurrentStreak int
}

// ServiceManager единственный владелец изменяемого состояния.
// Все изменения идут под одним мьютексом: бот и задачи cron работают
// в разных горутинах, но для ядра это один последовательный контекст.
type ServiceManager struct {
	mu        sync.Mutex
	loc       *time.Location
	acts      *ActService
	summaries *SummaryService

	Notification *NotificationService

	subMu       sync.Mutex
	subscribers []func(Event)
}

func NewServiceManager(store kindness.Store, builtin []kindness.Act, loc *time.Location, rng kindness.Rand) *ServiceManager {
	if loc == nil {
		loc = time.UTC
	}
	return &ServiceManager{
		loc:       loc,
		acts:      NewActService(store, builtin, rng),
		summaries: NewSummaryService(store, rng),
	}
}

// Load читает все состояние. Ошибка хранилища возвращается как есть.
func (sm *ServiceManager) Load() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if err := sm.acts.Load(); err != nil {
		return fmt.Errorf("load acts: %w", err)
	}
	if err := sm.summaries.Load(); err != nil {
		return fmt.Errorf("load summaries: %w", err)
	}
	return nil
}

func (sm *ServiceManager) SetNotificationSender(sender NotificationSender, c *cron.Cron) {
	sm.Notification = NewNotificationService(sender, c, sm.reminderText)
}

func (sm *ServiceManager) Location() *time.Location {
	return sm.loc
}

// Day календарный день момента now в зоне менеджера
func (sm *ServiceManager) Day(now time.Time) kindness.Day {
	return kindness.DayOf(now.In(sm.loc))
}

func (sm *ServiceManager) Subscribe(fn func(Event)) {
	sm.subMu.Lock()
	defer sm.subMu.Unlock()
	sm.subscribers = append(sm.subscribers, fn)
}

// emit вызывается вне sm.mu, поэтому подписчик может обращаться к менеджеру
func (sm *ServiceManager) emit(e Event) {
	sm.subMu.Lock()
	subs := append([]func(Event){}, sm.subscribers...)
	sm.subMu.Unlock()

	for _, fn := range subs {
		fn(e)
	}
}

func (sm *ServiceManager) Today(now time.Time) (kindness.Act, error) {
	day := sm.Day(now)

	sm.mu.Lock()
	act, changed, err := sm.acts.Today(day)
	sm.mu.Unlock()

	if err != nil {
		return kindness.Act{}, err
	}
	if changed {
		sm.emit(Event{Kind: EventSelectionChanged, Day: day, Act: act})
	}
	return act, nil
}

func (sm *ServiceManager) Complete(now time.Time, reflection string) (CompletionResult, error) {
	day := sm.Day(now)

	sm.mu.Lock()
	res, err := sm.acts.Complete(day, reflection)
	sm.mu.Unlock()

	if err != nil {
		return CompletionResult{}, err
	}
	if res.Added {
		act := kindness.Act{ID: res.Record.ActID, Title: res.Record.ActTitle}
		sm.emit(Event{Kind: EventCompleted, Day: day, Act: act, Streak: res.Streak})
	}
	return res, nil
}

func (sm *ServiceManager) AddCustomAct(title, description string) (kindness.Act, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.acts.AddCustomAct(title, description)
}

func (sm *ServiceManager) Streak(now time.Time) kindness.StreakState {
	day := sm.Day(now)

	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.acts.Streak(day)
}

func (sm *ServiceManager) IsCompleted(day kindness.Day) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.acts.IsCompleted(day)
}

// CompletedDays дни с выполнением за месяц, для календаря
func (sm *ServiceManager) CompletedDays(key kindness.MonthKey) []kindness.Day {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	var days []kindness.Day
	for _, r := range sm.acts.Ledger().InMonth(key.Month, key.Year) {
		days = append(days, r.Day)
	}
	return days
}

func (sm *ServiceManager) Catalog() kindness.Catalog {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.acts.Catalog()
}

// CheckRollover автоматическая сводка за прошлый месяц при первом дне нового месяца
func (sm *ServiceManager) CheckRollover(now time.Time) (*kindness.MonthlySummary, error) {
	sm.mu.Lock()
	summary, err := sm.summaries.CheckRollover(sm.acts.Ledger(), sm.acts.Longest(), sm.Day(now), now)
	sm.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if summary != nil {
		sm.emit(Event{Kind: EventSummaryGenerated, Day: sm.Day(now), Summary: summary})
	}
	return summary, nil
}

// RegenerateSummary ручная генерация, маркер перехода не учитывается
func (sm *ServiceManager) RegenerateSummary(key kindness.MonthKey, now time.Time) (kindness.MonthlySummary, error) {
	sm.mu.Lock()
	summary, err := sm.summaries.Regenerate(sm.acts.Ledger(), key, sm.acts.Longest(), now)
	sm.mu.Unlock()

	if err != nil {
		return kindness.MonthlySummary{}, err
	}
	sm.emit(Event{Kind: EventSummaryGenerated, Day: sm.Day(now), Summary: &summary})
	return summary, nil
}

func (sm *ServiceManager) Summary(key kindness.MonthKey) (kindness.MonthlySummary, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.summaries.Get(key)
}

func (sm *ServiceManager) Summaries() []kindness.MonthlySummary {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.summaries.All()
}

func (sm *ServiceManager) Reset(now time.Time) error {
	sm.mu.Lock()
	err := sm.acts.Reset()
	sm.mu.Unlock()

	if err != nil {
		return err
	}
	log.Println("🧹 Прогресс сброшен")
	sm.emit(Event{Kind: EventReset, Day: sm.Day(now)})
	return nil
}

// StartDay начало дня: выбрать акт и проверить переход месяца.
// Вызывается cron в полночь и один раз при старте, чтобы пропущенная
// полночь не потеряла первый наблюдаемый день месяца.
func (sm *ServiceManager) StartDay(now time.Time) (*kindness.MonthlySummary, error) {
	if _, err := sm.Today(now); err != nil && !errors.Is(err, kindness.ErrNoActsAvailable) {
		return nil, err
	}
	return sm.CheckRollover(now)
}

// Glance не пересчитывает выбор и ничего не пишет
func (sm *ServiceManager) Glance(now time.Time) Glance {
	day := sm.Day(now)

	sm.mu.Lock()
	defer sm.mu.Unlock()

	title := PlaceholderActTitle
	if act, ok := sm.acts.Selected(day); ok {
		title = act.Title
	}
	return Glance{
		ActTitle:      title,
		Completed:     sm.acts.IsCompleted(day),
		CurrentStreak: sm.acts.Streak(day).Current,
	}
}

func (sm *ServiceManager) reminderText() string {
	act, err := sm.Today(time.Now())
	if err != nil {
		log.Printf("⚠️ Акт дня для напоминания недоступен: %v", err)
		return DefaultReminderText
	}
	return fmt.Sprintf("💝 Today's act of kindness: %s", act.Title)
}
