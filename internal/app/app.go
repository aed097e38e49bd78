package app

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/robfig/cron/v3"

	"kindly/internal/config"
	"kindly/internal/database"
	"kindly/internal/kindness"
	"kindly/internal/services"
	"kindly/internal/telegram"
	"kindly/internal/utils"
)

// dayStartSpec полночь в зоне приложения
const dayStartSpec = "0 0 * * *"

type Application struct {
	config     *config.Config
	db         *database.Database
	bot        *telegram.Bot
	services   *services.ServiceManager
	cron       *cron.Cron
	cancelFunc context.CancelFunc
	ctx        context.Context
	now        func() time.Time
}

// NewServices открывает БД и загружает состояние. Используется и ботом, и CLI.
func NewServices(cfg *config.Config) (*services.ServiceManager, *database.Database, error) {
	db, err := database.New(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}

	builtin, err := kindness.LoadBuiltin()
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("load builtin acts: %w", err)
	}

	seed := uint64(time.Now().UnixNano())
	rng := rand.New(rand.NewPCG(seed, seed>>1))
	loc := utils.LoadLocation(cfg.Timezone)

	serviceManager := services.NewServiceManager(database.NewRepository(db), builtin, loc, rng)
	if err := serviceManager.Load(); err != nil {
		db.Close()
		return nil, nil, err
	}
	return serviceManager, db, nil
}

func New(cfg *config.Config) (*Application, error) {
	if err := cfg.ValidateBot(); err != nil {
		return nil, err
	}

	serviceManager, db, err := NewServices(cfg)
	if err != nil {
		return nil, err
	}

	bot, err := telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.ChatID, serviceManager)
	if err != nil {
		db.Close()
		return nil, err
	}

	c := cron.New(cron.WithLocation(serviceManager.Location()))
	serviceManager.SetNotificationSender(bot, c)
	ctx, cancel := context.WithCancel(context.Background())

	app := &Application{
		config:     cfg,
		db:         db,
		bot:        bot,
		services:   serviceManager,
		cron:       c,
		cancelFunc: cancel,
		ctx:        ctx,
		now:        time.Now,
	}

	if err := app.setupCronJobs(); err != nil {
		cancel()
		db.Close()
		return nil, err
	}
	app.subscribe()

	return app, nil
}

func (a *Application) Start() error {
	log.Println("🚀 Запуск приложения...")

	go a.bot.Start(a.ctx)
	a.cron.Start()

	// Полночь могла пройти, пока процесс не работал
	log.Println("🔍 Проверка начала дня...")
	a.startDay()

	log.Printf("✅ Приложение запущено. Бот: @%s", a.bot.GetUsername())
	log.Println(utils.GetTimezoneInfo(a.now(), a.services.Location()))

	return nil
}

func (a *Application) Stop() error {
	log.Println("🛑 Остановка приложения...")

	a.cancelFunc()
	<-a.cron.Stop().Done()

	if err := a.db.Close(); err != nil {
		log.Printf("⚠️ Ошибка закрытия БД: %v", err)
	}

	log.Println("✅ Приложение остановлено")
	return nil
}

func (a *Application) setupCronJobs() error {
	if _, err := a.cron.AddFunc(dayStartSpec, a.startDay); err != nil {
		return fmt.Errorf("schedule day start: %w", err)
	}

	if !a.config.Reminders.Enabled {
		log.Println("🔕 Напоминания отключены")
		return nil
	}

	// Без напоминания бот все равно работает
	hour, minute, err := a.config.ReminderClock()
	if err != nil {
		log.Printf("⚠️ Напоминание не запланировано: %v", err)
		return nil
	}
	if err := a.services.Notification.ScheduleDailyReminder(hour, minute); err != nil {
		log.Printf("⚠️ Напоминание не запланировано: %v", err)
	}
	return nil
}

// startDay выбирает акт дня и при смене месяца отправляет сводку в чат
func (a *Application) startDay() {
	summary, err := a.services.StartDay(a.now())
	if err != nil {
		log.Printf("⚠️ Ошибка начала дня: %v", err)
		return
	}
	if summary != nil {
		a.services.Notification.Notify(telegram.RenderSummary(*summary))
	}
}

func (a *Application) subscribe() {
	a.services.Subscribe(func(e services.Event) {
		switch e.Kind {
		case services.EventSelectionChanged:
			log.Printf("💝 Акт на %s: %s", e.Day, e.Act.Title)
		case services.EventCompleted:
			log.Printf("✅ Выполнено %s: %s (серия %d)", e.Day, e.Act.Title, e.Streak.Current)
		case services.EventSummaryGenerated:
			log.Printf("📊 Сводка за %s обновлена", e.Summary.Key())
		}
	})
}
