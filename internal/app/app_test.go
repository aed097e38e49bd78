package app

import (
	"math/rand/v2"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kindly/internal/config"
	"kindly/internal/database"
	"kindly/internal/kindness"
	"kindly/internal/services"
)

// fakeSender заменяет бота
type fakeSender struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeSender) SendMessage(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeSender) IsAuthorized() bool { return true }

func (f *fakeSender) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

// newTestApp собирает приложение без бота; cron не запускается
func newTestApp(t *testing.T, reminders bool, reminderTime string) (*Application, *fakeSender) {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "kindly.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	builtin, err := kindness.LoadBuiltin()
	require.NoError(t, err)

	sm := services.NewServiceManager(database.NewRepository(db), builtin, time.UTC, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, sm.Load())

	cfg := &config.Config{}
	cfg.Reminders.Enabled = reminders
	cfg.Reminders.Time = reminderTime

	c := cron.New(cron.WithLocation(time.UTC))
	sender := &fakeSender{}
	sm.SetNotificationSender(sender, c)

	a := &Application{
		config:   cfg,
		db:       db,
		services: sm,
		cron:     c,
		now:      time.Now,
	}
	a.subscribe()
	return a, sender
}

func TestSetupCronJobs(t *testing.T) {
	t.Run("day start and reminder", func(t *testing.T) {
		a, _ := newTestApp(t, true, "10:00")
		require.NoError(t, a.setupCronJobs())
		assert.Len(t, a.cron.Entries(), 2)
		assert.True(t, a.services.Notification.HasReminders())
	})

	t.Run("reminders disabled", func(t *testing.T) {
		a, _ := newTestApp(t, false, "10:00")
		require.NoError(t, a.setupCronJobs())
		assert.Len(t, a.cron.Entries(), 1)
		assert.False(t, a.services.Notification.HasReminders())
	})

	t.Run("bad reminder time is not fatal", func(t *testing.T) {
		a, _ := newTestApp(t, true, "25:00")
		require.NoError(t, a.setupCronJobs())
		assert.Len(t, a.cron.Entries(), 1, "day start is still scheduled")
		assert.False(t, a.services.Notification.HasReminders())
	})
}

func TestStartDay_SendsSummaryOnNewMonth(t *testing.T) {
	a, sender := newTestApp(t, true, "10:00")
	_, err := a.services.Complete(time.Date(2025, time.January, 31, 20, 0, 0, 0, time.UTC), "carried groceries")
	require.NoError(t, err)

	a.now = func() time.Time { return time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC) }
	a.startDay()

	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "January 2025")
	assert.Contains(t, msgs[0], "carried groceries")

	a.now = func() time.Time { return time.Date(2025, time.February, 2, 0, 0, 0, 0, time.UTC) }
	a.startDay()
	assert.Len(t, sender.messages(), 1, "a month is summarized once")

	_, ok := a.services.Summary(kindness.MonthKey{Year: 2025, Month: time.January})
	assert.True(t, ok)
}

func TestStartDay_SelectsActWithoutSummary(t *testing.T) {
	a, sender := newTestApp(t, true, "10:00")
	now := time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return now }

	a.startDay()
	assert.Empty(t, sender.messages())
	assert.NotEqual(t, services.PlaceholderActTitle, a.services.Glance(now).ActTitle, "today's act is picked")
}
