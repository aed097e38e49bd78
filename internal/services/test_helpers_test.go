package services

import (
	"errors"
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kindly/internal/kindness"
)

// memStore хранилище в памяти; failOn задает операции, которые падают
type memStore struct {
	extras    []kindness.Act
	ledger    kindness.Ledger
	selection *kindness.DailySelection
	longest   int
	cache     map[kindness.MonthKey]kindness.MonthlySummary
	marker    kindness.MonthKey

	failOn map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		cache:  map[kindness.MonthKey]kindness.MonthlySummary{},
		failOn: map[string]bool{},
	}
}

func (m *memStore) check(op string) error {
	if m.failOn[op] {
		return fmt.Errorf("%w: %s: %w", kindness.ErrStorageUnavailable, op, errors.New("disk gone"))
	}
	return nil
}

func (m *memStore) LoadCatalogExtras() ([]kindness.Act, error) {
	return slices.Clone(m.extras), m.check("LoadCatalogExtras")
}

func (m *memStore) SaveCatalogExtras(acts []kindness.Act) error {
	if err := m.check("SaveCatalogExtras"); err != nil {
		return err
	}
	m.extras = slices.Clone(acts)
	return nil
}

func (m *memStore) LoadLedger() (kindness.Ledger, error) {
	if err := m.check("LoadLedger"); err != nil {
		return nil, err
	}
	return slices.Clone(m.ledger), nil
}

func (m *memStore) SaveLedger(l kindness.Ledger) error {
	if err := m.check("SaveLedger"); err != nil {
		return err
	}
	m.ledger = slices.Clone(l)
	return nil
}

func (m *memStore) LoadSelection() (*kindness.DailySelection, error) {
	if err := m.check("LoadSelection"); err != nil || m.selection == nil {
		return nil, err
	}
	sel := *m.selection
	return &sel, nil
}

func (m *memStore) SaveSelection(sel kindness.DailySelection) error {
	if err := m.check("SaveSelection"); err != nil {
		return err
	}
	m.selection = &sel
	return nil
}

func (m *memStore) ClearSelection() error {
	if err := m.check("ClearSelection"); err != nil {
		return err
	}
	m.selection = nil
	return nil
}

func (m *memStore) LoadLongestStreak() (int, error) {
	return m.longest, m.check("LoadLongestStreak")
}

func (m *memStore) SaveLongestStreak(n int) error {
	if err := m.check("SaveLongestStreak"); err != nil {
		return err
	}
	m.longest = n
	return nil
}

func (m *memStore) LoadSummaryCache() (map[kindness.MonthKey]kindness.MonthlySummary, error) {
	if err := m.check("LoadSummaryCache"); err != nil {
		return nil, err
	}
	return maps.Clone(m.cache), nil
}

func (m *memStore) SaveSummaryCache(c map[kindness.MonthKey]kindness.MonthlySummary) error {
	if err := m.check("SaveSummaryCache"); err != nil {
		return err
	}
	m.cache = maps.Clone(c)
	return nil
}

func (m *memStore) LoadRolloverMarker() (kindness.MonthKey, error) {
	return m.marker, m.check("LoadRolloverMarker")
}

func (m *memStore) SaveRolloverMarker(k kindness.MonthKey) error {
	if err := m.check("SaveRolloverMarker"); err != nil {
		return err
	}
	m.marker = k
	return nil
}

func (m *memStore) ResetProgress() error {
	if err := m.check("ResetProgress"); err != nil {
		return err
	}
	m.ledger = nil
	m.selection = nil
	m.longest = 0
	return nil
}

var testActs = []kindness.Act{
	{ID: "a", Title: "Act A"},
	{ID: "b", Title: "Act B"},
}

func newTestManager(t *testing.T, store kindness.Store, builtin []kindness.Act) *ServiceManager {
	t.Helper()
	sm := NewServiceManager(store, builtin, time.UTC, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, sm.Load())
	return sm
}

func at(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 0, 0, 0, time.UTC)
}

// fakeSender записывает отправленные сообщения
type fakeSender struct {
	mu         sync.Mutex
	authorized bool
	err        error
	sent       []string
}

func (f *fakeSender) SendMessage(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeSender) IsAuthorized() bool {
	return f.authorized
}

func (f *fakeSender) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.sent)
}
