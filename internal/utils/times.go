package utils

import (
	"fmt"
	"time"
)

// LoadLocation часовой пояс, в котором считаются календарные дни.
// Если зону не удалось загрузить, используется UTC.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ParseClock разбирает время напоминания в формате HH:MM
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("время должно быть в формате HH:MM: %q", s)
	}
	return t.Hour(), t.Minute(), nil
}

// FormatClock обратное к ParseClock
func FormatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// CronDaily выражение cron для ежедневного запуска в hour:minute
func CronDaily(hour, minute int) string {
	return fmt.Sprintf("%d %d * * *", minute, hour)
}

// GetTimezoneInfo строка о текущем времени в зоне loc
func GetTimezoneInfo(now time.Time, loc *time.Location) string {
	local := now.In(loc)
	_, offset := local.Zone()
	return fmt.Sprintf("🕐 %s %s (UTC%+d)", local.Format("2006-01-02 15:04"), loc.String(), offset/3600)
}
