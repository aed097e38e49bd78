package kindness

// Rand источник случайности. *rand.Rand из math/rand/v2 подходит.
type Rand interface {
	IntN(n int) int
}

// DailySelection акт, назначенный на день
type DailySelection struct {
	ActID string `json:"act_id"`
	Day   Day    `json:"day"`
}

// SelectForToday выбирает акт дня.
//
// В пределах одного дня выбор стабилен, пока акт есть в каталоге.
// Новый акт берется равновероятно из каталога без вчерашнего, кроме случая,
// когда в каталоге всего один акт.
func SelectForToday(catalog Catalog, previous *DailySelection, today Day, rng Rand) (DailySelection, error) {
	if catalog.Len() == 0 {
		return DailySelection{}, ErrNoActsAvailable
	}

	if previous != nil && previous.Day.Equal(today) {
		if _, ok := catalog.Find(previous.ActID); ok {
			return *previous, nil
		}
	}

	candidates := catalog.acts
	if previous != nil {
		filtered := make([]Act, 0, len(candidates))
		for _, a := range candidates {
			if a.ID != previous.ActID {
				filtered = append(filtered, a)
			}
		}
		if len(filtered) > 0 {
			candidates = filtered
		}
	}

	act := candidates[rng.IntN(len(candidates))]
	return DailySelection{ActID: act.ID, Day: today}, nil
}
