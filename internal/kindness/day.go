package kindness

import (
	"fmt"
	"time"
)

// DayLayout формат хранения календарного дня
const DayLayout = "2006-01-02"

// Day календарный день без времени суток
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf отбрасывает время суток в часовом поясе t
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// ParseDay разбирает день в формате 2006-01-02
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return DayOf(t), nil
}

func (d Day) date() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays сдвигает день, переходы через границы месяца и года нормализуются
func (d Day) AddDays(n int) Day {
	return DayOf(d.date().AddDate(0, 0, n))
}

func (d Day) Equal(other Day) bool {
	return d == other
}

func (d Day) Before(other Day) bool {
	return d.date().Before(other.date())
}

func (d Day) IsZero() bool {
	return d == Day{}
}

// Key месяц, в который попадает день
func (d Day) Key() MonthKey {
	return MonthKey{Year: d.Year, Month: d.Month}
}

func (d Day) String() string {
	return d.date().Format(DayLayout)
}

func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Day) UnmarshalText(text []byte) error {
	parsed, err := ParseDay(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MonthKey ключ кэша сводок и маркера перехода месяца
type MonthKey struct {
	Year  int
	Month time.Month
}

// Previous предыдущий календарный месяц
func (k MonthKey) Previous() MonthKey {
	if k.Month == time.January {
		return MonthKey{Year: k.Year - 1, Month: time.December}
	}
	return MonthKey{Year: k.Year, Month: k.Month - 1}
}

func (k MonthKey) IsZero() bool {
	return k == MonthKey{}
}

func (k MonthKey) Valid() bool {
	return k.Month >= time.January && k.Month <= time.December
}

func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}
