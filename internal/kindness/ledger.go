package kindness

import "time"

// CompletionRecord одна запись о выполнении, не больше одной на день
type CompletionRecord struct {
	ActID      string `json:"act_id"`
	ActTitle   string `json:"act_title"`
	Day        Day    `json:"day"`
	Reflection string `json:"reflection,omitempty"`
}

// Ledger журнал выполнений, только дописывается
type Ledger []CompletionRecord

// Record дописывает запись за day. Если за этот день запись уже есть,
// журнал возвращается без изменений и added=false: побеждает первая запись.
func (l Ledger) Record(act Act, day Day, reflection string) (Ledger, bool) {
	if l.IsCompleted(day) {
		return l, false
	}
	out := make(Ledger, len(l), len(l)+1)
	copy(out, l)
	out = append(out, CompletionRecord{
		ActID:      act.ID,
		ActTitle:   act.Title,
		Day:        day,
		Reflection: reflection,
	})
	return out, true
}

func (l Ledger) IsCompleted(day Day) bool {
	_, ok := l.On(day)
	return ok
}

// On запись за конкретный день
func (l Ledger) On(day Day) (CompletionRecord, bool) {
	for _, r := range l {
		if r.Day.Equal(day) {
			return r, true
		}
	}
	return CompletionRecord{}, false
}

func (l Ledger) InMonth(month time.Month, year int) []CompletionRecord {
	var out []CompletionRecord
	for _, r := range l {
		if r.Day.Month == month && r.Day.Year == year {
			out = append(out, r)
		}
	}
	return out
}

// CompletedDays множество дней с выполнением, для календаря
func (l Ledger) CompletedDays() map[Day]bool {
	days := make(map[Day]bool, len(l))
	for _, r := range l {
		days[r.Day] = true
	}
	return days
}
