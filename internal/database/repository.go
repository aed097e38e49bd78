package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"kindly/internal/kindness"
)

// Repository реализует kindness.Store поверх SQLite
type Repository struct {
	Db *Database
}

var _ kindness.Store = (*Repository)(nil)

func NewRepository(db *Database) *Repository {
	return &Repository{Db: db}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", kindness.ErrStorageUnavailable, op, err)
}

// Custom acts

func (r *Repository) LoadCatalogExtras() ([]kindness.Act, error) {
	rows, err := r.Db.db.Query(`
		SELECT id, title, description
		FROM custom_acts
		ORDER BY position
	`)
	if err != nil {
		return nil, unavailable("load custom acts", err)
	}
	defer rows.Close()

	var acts []kindness.Act
	for rows.Next() {
		a := kindness.Act{IsCustom: true}
		if err := rows.Scan(&a.ID, &a.Title, &a.Description); err != nil {
			return nil, unavailable("load custom acts", err)
		}
		acts = append(acts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("load custom acts", err)
	}
	return acts, nil
}

func (r *Repository) SaveCatalogExtras(acts []kindness.Act) error {
	err := r.Db.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM custom_acts`); err != nil {
			return err
		}
		for i, a := range acts {
			if _, err := tx.Exec(`
				INSERT INTO custom_acts (id, title, description, position)
				VALUES (?, ?, ?, ?)
			`, a.ID, a.Title, a.Description, i); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return unavailable("save custom acts", err)
	}
	return nil
}

// Completion ledger

func (r *Repository) LoadLedger() (kindness.Ledger, error) {
	rows, err := r.Db.db.Query(`
		SELECT act_id, act_title, day, reflection
		FROM completions
		ORDER BY day, id
	`)
	if err != nil {
		return nil, unavailable("load ledger", err)
	}
	defer rows.Close()

	var ledger kindness.Ledger
	for rows.Next() {
		var (
			rec kindness.CompletionRecord
			day string
		)
		if err := rows.Scan(&rec.ActID, &rec.ActTitle, &day, &rec.Reflection); err != nil {
			return nil, unavailable("load ledger", err)
		}
		if rec.Day, err = kindness.ParseDay(day); err != nil {
			return nil, unavailable("load ledger", err)
		}
		ledger = append(ledger, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("load ledger", err)
	}
	return ledger, nil
}

// SaveLedger полностью заменяет журнал; UNIQUE(day) страхует инвариант «одна запись в день»
func (r *Repository) SaveLedger(ledger kindness.Ledger) error {
	err := r.Db.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM completions`); err != nil {
			return err
		}
		for _, rec := range ledger {
			if _, err := tx.Exec(`
				INSERT INTO completions (act_id, act_title, day, reflection)
				VALUES (?, ?, ?, ?)
			`, rec.ActID, rec.ActTitle, rec.Day.String(), rec.Reflection); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return unavailable("save ledger", err)
	}
	return nil
}

// Settings

// getSetting ok=false означает первый запуск, а не ошибку
func (r *Repository) getSetting(key string) (string, bool, error) {
	var value string
	err := r.Db.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *Repository) setSetting(key, value string) error {
	_, err := r.Db.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func (r *Repository) LoadSelection() (*kindness.DailySelection, error) {
	value, ok, err := r.getSetting(settingSelection)
	if err != nil {
		return nil, unavailable("load selection", err)
	}
	if !ok {
		return nil, nil
	}
	var sel kindness.DailySelection
	if err := json.Unmarshal([]byte(value), &sel); err != nil {
		return nil, unavailable("load selection", err)
	}
	return &sel, nil
}

func (r *Repository) SaveSelection(sel kindness.DailySelection) error {
	data, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("save selection: %w", err)
	}
	if err := r.setSetting(settingSelection, string(data)); err != nil {
		return unavailable("save selection", err)
	}
	return nil
}

func (r *Repository) ClearSelection() error {
	if _, err := r.Db.db.Exec(`DELETE FROM settings WHERE key = ?`, settingSelection); err != nil {
		return unavailable("clear selection", err)
	}
	return nil
}

func (r *Repository) LoadLongestStreak() (int, error) {
	value, ok, err := r.getSetting(settingLongestStreak)
	if err != nil {
		return 0, unavailable("load longest streak", err)
	}
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, unavailable("load longest streak", err)
	}
	return n, nil
}

func (r *Repository) SaveLongestStreak(n int) error {
	if err := r.setSetting(settingLongestStreak, strconv.Itoa(n)); err != nil {
		return unavailable("save longest streak", err)
	}
	return nil
}

func (r *Repository) LoadRolloverMarker() (kindness.MonthKey, error) {
	value, ok, err := r.getSetting(settingRolloverMarker)
	if err != nil {
		return kindness.MonthKey{}, unavailable("load rollover marker", err)
	}
	if !ok {
		return kindness.MonthKey{}, nil
	}
	key, err := parseMonthKey(value)
	if err != nil {
		return kindness.MonthKey{}, unavailable("load rollover marker", err)
	}
	return key, nil
}

func (r *Repository) SaveRolloverMarker(key kindness.MonthKey) error {
	if err := r.setSetting(settingRolloverMarker, formatMonthKey(key)); err != nil {
		return unavailable("save rollover marker", err)
	}
	return nil
}

func (r *Repository) ResetProgress() error {
	err := r.Db.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM completions`); err != nil {
			return err
		}
		_, err := tx.Exec(`DELETE FROM settings WHERE key IN (?, ?)`, settingSelection, settingLongestStreak)
		return err
	})
	if err != nil {
		return unavailable("reset progress", err)
	}
	return nil
}

// Monthly summaries

func (r *Repository) LoadSummaryCache() (map[kindness.MonthKey]kindness.MonthlySummary, error) {
	rows, err := r.Db.db.Query(`SELECT year, month, payload FROM summaries`)
	if err != nil {
		return nil, unavailable("load summaries", err)
	}
	defer rows.Close()

	cache := make(map[kindness.MonthKey]kindness.MonthlySummary)
	for rows.Next() {
		var (
			year, month int
			payload     string
		)
		if err := rows.Scan(&year, &month, &payload); err != nil {
			return nil, unavailable("load summaries", err)
		}
		var s kindness.MonthlySummary
		if err := json.Unmarshal([]byte(payload), &s); err != nil {
			return nil, unavailable("load summaries", err)
		}
		cache[kindness.MonthKey{Year: year, Month: time.Month(month)}] = s
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("load summaries", err)
	}
	return cache, nil
}

func (r *Repository) SaveSummaryCache(cache map[kindness.MonthKey]kindness.MonthlySummary) error {
	err := r.Db.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM summaries`); err != nil {
			return err
		}
		for key, s := range cache {
			payload, err := json.Marshal(s)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(`
				INSERT INTO summaries (year, month, payload, generated_at)
				VALUES (?, ?, ?, ?)
			`, key.Year, int(key.Month), string(payload), s.GeneratedAt.UTC()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return unavailable("save summaries", err)
	}
	return nil
}
