package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"

	"kindly/internal/utils"
)

type Config struct {
	Telegram struct {
		Token  string `env:"TG_TOKEN"`
		ChatID int64  `env:"TG_CHAT_ID"`
	}
	Database struct {
		Path string `env:"DB_PATH" envDefault:"kindly.db"`
	}
	Timezone  string `env:"TIMEZONE" envDefault:"UTC"`
	Reminders struct {
		Enabled bool   `env:"REMINDERS_ENABLED" envDefault:"true"`
		Time    string `env:"REMINDER_TIME" envDefault:"10:00"`
	}
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if _, _, err := utils.ParseClock(cfg.Reminders.Time); err != nil {
		return nil, fmt.Errorf("❌ Неверный REMINDER_TIME: %w", err)
	}

	log.Printf("✅ Конфигурация загружена: БД=%s, зона=%s", cfg.Database.Path, cfg.Timezone)

	return cfg, nil
}

// ValidateBot нужен только для запуска бота; локальным командам токен не требуется
func (c *Config) ValidateBot() error {
	if c.Telegram.Token == "" {
		return errors.New("❌ TG_TOKEN не установлен. Установите переменную окружения или создайте .env файл")
	}
	if c.Telegram.ChatID == 0 {
		return errors.New("❌ TG_CHAT_ID не установлен")
	}
	return nil
}

// ReminderClock час и минута напоминания
func (c *Config) ReminderClock() (int, int, error) {
	return utils.ParseClock(c.Reminders.Time)
}
