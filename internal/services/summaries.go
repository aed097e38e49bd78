package services

import (
	"errors"
	"log"
	"maps"
	"slices"
	"time"

	"kindly/internal/kindness"
)

// SummaryService кэш месячных сводок и маркер перехода месяца
type SummaryService struct {
	store  kindness.Store
	rng    kindness.Rand
	cache  map[kindness.MonthKey]kindness.MonthlySummary
	marker kindness.MonthKey
}

func NewSummaryService(store kindness.Store, rng kindness.Rand) *SummaryService {
	return &SummaryService{
		store: store,
		rng:   rng,
		cache: make(map[kindness.MonthKey]kindness.MonthlySummary),
	}
}

func (ss *SummaryService) Load() error {
	cache, err := ss.store.LoadSummaryCache()
	if err != nil {
		return err
	}
	marker, err := ss.store.LoadRolloverMarker()
	if err != nil {
		return err
	}
	ss.cache = cache
	ss.marker = marker
	return nil
}

// CheckRollover генерирует сводку за прошлый месяц, если она еще не делалась
// автоматически. Пустой месяц возвращает nil и ничего не меняет.
func (ss *SummaryService) CheckRollover(ledger kindness.Ledger, longest int, today kindness.Day, now time.Time) (*kindness.MonthlySummary, error) {
	target, due := kindness.RolloverDue(today, ss.marker)
	if !due {
		return nil, nil
	}

	summary, err := ss.generate(ledger, target, longest, now)
	if errors.Is(err, kindness.ErrNoData) {
		log.Printf("📭 За %s нет выполненных актов, сводка не создана", target)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := ss.store.SaveRolloverMarker(target); err != nil {
		return nil, err
	}
	ss.marker = target

	log.Printf("📊 Сводка за %s создана: %d актов", target, summary.TotalActs)
	return &summary, nil
}

// Regenerate генерация по запросу, маркер не учитывается и не сдвигается.
// Запись кэша за этот месяц перезаписывается.
func (ss *SummaryService) Regenerate(ledger kindness.Ledger, key kindness.MonthKey, longest int, now time.Time) (kindness.MonthlySummary, error) {
	return ss.generate(ledger, key, longest, now)
}

func (ss *SummaryService) generate(ledger kindness.Ledger, key kindness.MonthKey, longest int, now time.Time) (kindness.MonthlySummary, error) {
	summary, err := kindness.GenerateSummary(ledger, key, longest, ss.rng, now)
	if err != nil {
		return kindness.MonthlySummary{}, err
	}

	cache := maps.Clone(ss.cache)
	if cache == nil {
		cache = make(map[kindness.MonthKey]kindness.MonthlySummary)
	}
	cache[key] = summary
	if err := ss.store.SaveSummaryCache(cache); err != nil {
		return kindness.MonthlySummary{}, err
	}
	ss.cache = cache
	return summary, nil
}

func (ss *SummaryService) Get(key kindness.MonthKey) (kindness.MonthlySummary, bool) {
	s, ok := ss.cache[key]
	return s, ok
}

// All сводки от новых к старым
func (ss *SummaryService) All() []kindness.MonthlySummary {
	out := slices.Collect(maps.Values(ss.cache))
	slices.SortFunc(out, func(a, b kindness.MonthlySummary) int {
		if a.Year != b.Year {
			return b.Year - a.Year
		}
		return int(b.Month) - int(a.Month)
	})
	return out
}

func (ss *SummaryService) Marker() kindness.MonthKey {
	return ss.marker
}
