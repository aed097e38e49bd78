package telegram

import (
	"math/rand/v2"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kindly/internal/database"
	"kindly/internal/kindness"
	"kindly/internal/services"
)

const testChatID int64 = 42

// fakeAPI запоминает все, что бот отправил
type fakeAPI struct {
	sent     []tgbotapi.MessageConfig
	requests []tgbotapi.Chattable
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) last(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

func newTestBot(t *testing.T, acts []kindness.Act) (*Bot, *fakeAPI, *services.ServiceManager) {
	t.Helper()
	db, err := database.New(t.TempDir() + "/kindly.db")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sm := services.NewServiceManager(database.NewRepository(db), acts, time.UTC, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, sm.Load())

	api := &fakeAPI{}
	bot := newBot(api, "kindly_bot", testChatID, sm)
	bot.now = func() time.Time { return time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC) }
	sm.SetNotificationSender(bot, cron.New())
	return bot, api, sm
}

func command(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: chatID},
	}}
}

func callback(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-1",
		Data:    data,
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: testChatID}},
	}}
}

var testActs = []kindness.Act{
	{ID: "hold-the-door", Title: "Hold the door for someone"},
}

func TestIsAuthorized(t *testing.T) {
	bot, _, _ := newTestBot(t, testActs)
	assert.True(t, bot.IsAuthorized())

	bot.chatID = 0
	assert.False(t, bot.IsAuthorized())
}

func TestHandleUpdate_ForeignChatIsDenied(t *testing.T) {
	bot, api, sm := newTestBot(t, testActs)

	bot.handleUpdate(command(7, "/done"))
	msg := api.last(t)
	assert.Equal(t, int64(7), msg.ChatID)
	assert.Contains(t, msg.Text, "Access denied")
	assert.False(t, sm.IsCompleted(sm.Day(bot.now())))
}

func TestHandleToday(t *testing.T) {
	bot, api, _ := newTestBot(t, testActs)

	bot.handleUpdate(command(testChatID, "/today"))
	msg := api.last(t)
	assert.Equal(t, testChatID, msg.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
	assert.Contains(t, msg.Text, "Hold the door for someone")
	assert.IsType(t, tgbotapi.InlineKeyboardMarkup{}, msg.ReplyMarkup)
}

func TestHandleToday_EmptyCatalog(t *testing.T) {
	bot, api, _ := newTestBot(t, nil)

	bot.handleUpdate(command(testChatID, "/today"))
	assert.Equal(t, RenderPlaceholder(), api.last(t).Text)
}

func TestHandleDone(t *testing.T) {
	bot, api, sm := newTestBot(t, testActs)

	bot.handleUpdate(command(testChatID, "/done@kindly_bot  held it for a stroller "))
	assert.Contains(t, api.last(t).Text, "<i>held it for a stroller</i>")
	assert.True(t, sm.IsCompleted(sm.Day(bot.now())))

	bot.handleUpdate(command(testChatID, "/done again"))
	assert.Contains(t, api.last(t).Text, "already done")
}

func TestDoneButton(t *testing.T) {
	bot, api, sm := newTestBot(t, testActs)

	bot.handleUpdate(callback(callbackDone))
	assert.True(t, sm.IsCompleted(sm.Day(bot.now())))
	assert.Contains(t, api.last(t).Text, "Done!")
	assert.Len(t, api.requests, 1, "callback is answered")
}

func TestResetFlow(t *testing.T) {
	bot, api, sm := newTestBot(t, testActs)
	bot.handleUpdate(command(testChatID, "/done"))

	bot.handleUpdate(command(testChatID, "/reset"))
	assert.True(t, sm.IsCompleted(sm.Day(bot.now())), "reset waits for confirmation")
	assert.IsType(t, tgbotapi.InlineKeyboardMarkup{}, api.last(t).ReplyMarkup)

	bot.handleUpdate(callback(callbackResetCancel))
	assert.True(t, sm.IsCompleted(sm.Day(bot.now())))

	bot.handleUpdate(callback(callbackResetConfirm))
	assert.False(t, sm.IsCompleted(sm.Day(bot.now())))
	assert.Equal(t, kindness.StreakState{}, sm.Streak(bot.now()))
}

func TestHandleAdd(t *testing.T) {
	bot, api, sm := newTestBot(t, testActs)

	bot.handleUpdate(command(testChatID, "/add Call grandma | just to say hi"))
	assert.Equal(t, "➕ Added <b>Call grandma</b> to your acts.", api.last(t).Text)

	custom := sm.Catalog().Custom()
	require.Len(t, custom, 1)
	assert.Equal(t, "just to say hi", custom[0].Description)

	bot.handleUpdate(command(testChatID, "/add  | only description"))
	assert.Contains(t, api.last(t).Text, "Format")
	assert.Len(t, sm.Catalog().Custom(), 1)
}

func TestHandleSummaryAndRegen(t *testing.T) {
	bot, api, _ := newTestBot(t, testActs)

	bot.handleUpdate(command(testChatID, "/summary"))
	assert.Equal(t, RenderSummaryList(nil), api.last(t).Text)

	bot.handleUpdate(command(testChatID, "/regen 03 2025"))
	assert.Contains(t, api.last(t).Text, "No acts of kindness recorded in 2025-03")

	bot.handleUpdate(command(testChatID, "/done"))
	bot.handleUpdate(command(testChatID, "/regen 3 2025"))
	assert.Contains(t, api.last(t).Text, "📊 <b>March 2025</b>")

	bot.handleUpdate(command(testChatID, "/summary 03 2025"))
	assert.Contains(t, api.last(t).Text, "Acts of kindness: 1")

	bot.handleUpdate(command(testChatID, "/summary 13 2025"))
	assert.Contains(t, api.last(t).Text, "Format")
}

func TestHandleReminder(t *testing.T) {
	bot, api, sm := newTestBot(t, testActs)

	bot.handleUpdate(command(testChatID, "/reminder 21:30"))
	assert.Contains(t, api.last(t).Text, "21:30")
	assert.True(t, sm.Notification.HasReminders())

	bot.handleUpdate(command(testChatID, "/reminder 25:00"))
	assert.Contains(t, api.last(t).Text, "Format")

	bot.handleUpdate(command(testChatID, "/reminder off"))
	assert.False(t, sm.Notification.HasReminders())
}

func TestUnknownCommand(t *testing.T) {
	bot, api, _ := newTestBot(t, testActs)

	bot.handleUpdate(command(testChatID, "/feelings"))
	assert.Contains(t, api.last(t).Text, "Unknown command")

	n := len(api.sent)
	bot.handleUpdate(command(testChatID, "just chatting"))
	assert.Len(t, api.sent, n, "plain text is ignored")
}

func TestParseMonthArgs(t *testing.T) {
	key, err := parseMonthArgs("03 2025")
	require.NoError(t, err)
	assert.Equal(t, kindness.MonthKey{Year: 2025, Month: time.March}, key)

	for _, bad := range []string{"", "03", "0 2025", "13 2025", "march 2025", "03 2025 x"} {
		_, err := parseMonthArgs(bad)
		assert.Error(t, err, bad)
	}
}
