package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"kindly/internal/kindness"
)

// ActService каталог, акт дня, журнал выполнений и отметка самой длинной серии
type ActService struct {
	store     kindness.Store
	rng       kindness.Rand
	builtin   []kindness.Act
	catalog   kindness.Catalog
	ledger    kindness.Ledger
	selection *kindness.DailySelection
	longest   int

	// longestUnsaved отметка поднята в памяти, но не записана
	longestUnsaved bool
}

// CompletionResult итог отметки о выполнении
type CompletionResult struct {
	Record kindness.CompletionRecord
	Added  bool
	Streak kindness.StreakState
}

func NewActService(store kindness.Store, builtin []kindness.Act, rng kindness.Rand) *ActService {
	return &ActService{
		store:   store,
		rng:     rng,
		builtin: builtin,
	}
}

// Load читает состояние из хранилища. При ошибке текущее состояние в памяти
// не трогается, чтобы сбой хранилища не выглядел как сброс истории.
func (as *ActService) Load() error {
	custom, err := as.store.LoadCatalogExtras()
	if err != nil {
		return err
	}
	catalog, err := kindness.NewCatalog(as.builtin, custom)
	if err != nil {
		return fmt.Errorf("build catalog: %w", err)
	}
	ledger, err := as.store.LoadLedger()
	if err != nil {
		return err
	}
	selection, err := as.store.LoadSelection()
	if err != nil {
		return err
	}
	longest, err := as.store.LoadLongestStreak()
	if err != nil {
		return err
	}

	as.catalog = catalog
	as.ledger = ledger
	as.selection = selection
	as.longest = longest
	return nil
}

// Today акт на день; changed=true, если выбор пересчитан и сохранен
func (as *ActService) Today(today kindness.Day) (kindness.Act, bool, error) {
	sel, err := kindness.SelectForToday(as.catalog, as.selection, today, as.rng)
	if err != nil {
		return kindness.Act{}, false, err
	}

	changed := as.selection == nil || *as.selection != sel
	if changed {
		if err := as.store.SaveSelection(sel); err != nil {
			return kindness.Act{}, false, err
		}
		as.selection = &sel
	}

	act, _ := as.catalog.Find(sel.ActID)
	return act, changed, nil
}

// Complete отмечает акт дня выполненным. Журнал сохраняется до возврата.
// Повторная отметка за тот же день журнал не пишет и возвращает Added=false.
func (as *ActService) Complete(today kindness.Day, reflection string) (CompletionResult, error) {
	act, _, err := as.Today(today)
	if err != nil {
		return CompletionResult{}, err
	}

	ledger, added := as.ledger.Record(act, today, strings.TrimSpace(reflection))
	if added {
		if err := as.store.SaveLedger(ledger); err != nil {
			return CompletionResult{}, err
		}
		as.ledger = ledger
	}

	// Выполнение уже записано, поэтому сбой отметки не отменяет результат
	as.raiseLongest(kindness.CurrentStreak(as.ledger, today))

	rec, _ := as.ledger.On(today)
	return CompletionResult{
		Record: rec,
		Added:  added,
		Streak: as.Streak(today),
	}, nil
}

// raiseLongest поднимает отметку до current. Незаписанная отметка
// дописывается при следующем вызове.
func (as *ActService) raiseLongest(current int) {
	longest := kindness.UpdateLongest(as.longest, current)
	if longest == as.longest && !as.longestUnsaved {
		return
	}
	as.longest = longest

	if err := as.store.SaveLongestStreak(longest); err != nil {
		as.longestUnsaved = true
		log.Printf("⚠️ Отметка серии %d не сохранена: %v", longest, err)
		return
	}
	as.longestUnsaved = false
}

// AddCustomAct добавляет пользовательский акт в конец каталога
func (as *ActService) AddCustomAct(title, description string) (kindness.Act, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return kindness.Act{}, errors.New("title is required")
	}

	act := kindness.Act{
		ID:          uuid.Must(uuid.NewV7()).String(),
		Title:       title,
		Description: strings.TrimSpace(description),
		IsCustom:    true,
	}
	catalog, err := as.catalog.WithCustom(act)
	if err != nil {
		return kindness.Act{}, err
	}
	if err := as.store.SaveCatalogExtras(catalog.Custom()); err != nil {
		return kindness.Act{}, err
	}
	as.catalog = catalog
	return act, nil
}

// Streak текущая серия всегда пересчитывается из журнала
func (as *ActService) Streak(today kindness.Day) kindness.StreakState {
	current := kindness.CurrentStreak(as.ledger, today)
	return kindness.StreakState{
		Current: current,
		Longest: kindness.UpdateLongest(as.longest, current),
	}
}

func (as *ActService) IsCompleted(day kindness.Day) bool {
	return as.ledger.IsCompleted(day)
}

// Selected сохраненный выбор, если он сделан на day; ничего не пересчитывает
func (as *ActService) Selected(day kindness.Day) (kindness.Act, bool) {
	if as.selection == nil || !as.selection.Day.Equal(day) {
		return kindness.Act{}, false
	}
	return as.catalog.Find(as.selection.ActID)
}

func (as *ActService) Ledger() kindness.Ledger {
	return as.ledger
}

func (as *ActService) Longest() int {
	return as.longest
}

func (as *ActService) Catalog() kindness.Catalog {
	return as.catalog
}

// Reset очищает журнал, выбор дня и отметку серии одной транзакцией.
// Каталог и сводки остаются. При ошибке состояние в памяти не меняется.
func (as *ActService) Reset() error {
	if err := as.store.ResetProgress(); err != nil {
		return err
	}
	as.ledger = nil
	as.selection = nil
	as.longest = 0
	as.longestUnsaved = false
	return nil
}
