package database

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"kindly/internal/kindness"
)

// Ключи таблицы settings
const (
	settingSelection      = "selection"
	settingLongestStreak  = "longest_streak"
	settingRolloverMarker = "rollover_marker"
)

func formatMonthKey(k kindness.MonthKey) string {
	return k.String()
}

func parseMonthKey(s string) (kindness.MonthKey, error) {
	year, month, ok := strings.Cut(s, "-")
	if !ok {
		return kindness.MonthKey{}, fmt.Errorf("invalid month key %q", s)
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return kindness.MonthKey{}, fmt.Errorf("invalid month key %q: %w", s, err)
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return kindness.MonthKey{}, fmt.Errorf("invalid month key %q: %w", s, err)
	}
	k := kindness.MonthKey{Year: y, Month: time.Month(m)}
	if !k.Valid() {
		return kindness.MonthKey{}, fmt.Errorf("invalid month key %q", s)
	}
	return k, nil
}
