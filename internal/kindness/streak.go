package kindness

// StreakState производное состояние: Current всегда пересчитывается из журнала,
// Longest хранится как монотонная отметка
type StreakState struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// CurrentStreak считает серию дней подряд, заканчивающуюся сегодня или вчера.
// Сегодня идет в зачет только если выполнено, а обход назад всегда начинается
// со вчера, поэтому невыполненное сегодня не обрывает серию.
func CurrentStreak(ledger Ledger, today Day) int {
	days := ledger.CompletedDays()

	streak := 0
	if days[today] {
		streak++
	}
	for d := today.AddDays(-1); days[d]; d = d.AddDays(-1) {
		streak++
	}
	return streak
}

// UpdateLongest отметка только растет
func UpdateLongest(longest, current int) int {
	return max(longest, current)
}
