package kindness

import "time"

// MaxHighlights сколько актов попадает в сводку месяца
const MaxHighlights = 5

// Highlight выделенный акт в сводке
type Highlight struct {
	Title      string `json:"title"`
	Day        Day    `json:"day"`
	Reflection string `json:"reflection,omitempty"`
}

// MonthlySummary неизменяемая сводка за месяц, ключ (Month, Year)
type MonthlySummary struct {
	Month           time.Month  `json:"month"`
	Year            int         `json:"year"`
	TotalActs       int         `json:"total_acts"`
	LongestStreak   int         `json:"longest_streak"`
	HighlightedActs []Highlight `json:"highlighted_acts"`
	GrowthMessage   string      `json:"growth_message"`
	GeneratedAt     time.Time   `json:"generated_at"`
}

func (s MonthlySummary) Key() MonthKey {
	return MonthKey{Year: s.Year, Month: s.Month}
}

func (s MonthlySummary) MonthName() string {
	return s.Month.String()
}

var growthMessages = [...]string{
	"Every small act of kindness you shared made a big difference 🌸",
	"Your kind actions have started to create ripples of positivity 🌊",
	"You steadily planted seeds of kindness all month 🌱",
	"Your kindness garden is growing beautifully this month 🌿",
	"Your kindness bloomed and touched countless hearts 🌷✨",
}

// GrowthTier уровень 1..5 по порогам 0-4, 5-9, 10-14, 15-19, 20+
func GrowthTier(totalActs int) int {
	tier := totalActs/5 + 1
	return min(max(tier, 1), len(growthMessages))
}

func GrowthMessage(totalActs int) string {
	return growthMessages[GrowthTier(totalActs)-1]
}

// GenerateSummary собирает сводку за месяц.
//
// Выборка выделенных актов случайна и не обязана совпадать между повторными
// генерациями одного месяца. Итоги и сообщение от выборки не зависят.
func GenerateSummary(ledger Ledger, key MonthKey, longestSnapshot int, rng Rand, now time.Time) (MonthlySummary, error) {
	records := ledger.InMonth(key.Month, key.Year)
	if len(records) == 0 {
		return MonthlySummary{}, ErrNoData
	}

	picked := sampleRecords(records, MaxHighlights, rng)
	highlights := make([]Highlight, len(picked))
	for i, r := range picked {
		highlights[i] = Highlight{Title: r.ActTitle, Day: r.Day, Reflection: r.Reflection}
	}

	return MonthlySummary{
		Month:           key.Month,
		Year:            key.Year,
		TotalActs:       len(records),
		LongestStreak:   longestSnapshot,
		HighlightedActs: highlights,
		GrowthMessage:   GrowthMessage(len(records)),
		GeneratedAt:     now,
	}, nil
}

// sampleRecords выборка без возвращения, частичный Фишер-Йетс
func sampleRecords(records []CompletionRecord, n int, rng Rand) []CompletionRecord {
	if len(records) <= n {
		return records
	}
	pool := make([]CompletionRecord, len(records))
	copy(pool, records)
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}

// RolloverDue целевой месяц для автоматической сводки — предыдущий относительно today.
// Маркер хранит последний обобщенный месяц, поэтому пока он не сдвинут,
// переход остается к выполнению.
func RolloverDue(today Day, marker MonthKey) (MonthKey, bool) {
	target := today.Key().Previous()
	return target, marker != target
}
