package kindness

// Store порт хранения, которым пользуются все компоненты с состоянием.
//
// Любая ошибка доступа к хранилищу оборачивает ErrStorageUnavailable.
// Первый запуск отдает пустые значения без ошибки. Сбой после первого
// запуска не должен выглядеть как пустое состояние.
type Store interface {
	LoadCatalogExtras() ([]Act, error)
	SaveCatalogExtras(acts []Act) error

	LoadLedger() (Ledger, error)
	SaveLedger(ledger Ledger) error

	LoadSelection() (*DailySelection, error)
	SaveSelection(sel DailySelection) error
	ClearSelection() error

	LoadLongestStreak() (int, error)
	SaveLongestStreak(n int) error

	LoadSummaryCache() (map[MonthKey]MonthlySummary, error)
	SaveSummaryCache(cache map[MonthKey]MonthlySummary) error

	LoadRolloverMarker() (MonthKey, error)
	SaveRolloverMarker(key MonthKey) error

	// ResetProgress одной транзакцией очищает журнал, выбор дня и отметку
	// самой длинной серии. Каталог, сводки и маркер перехода остаются.
	ResetProgress() error
}

// Notifier внешняя возможность напоминаний. Ядро вызывает ее по случаю,
// ошибки не фатальны и только логируются.
type Notifier interface {
	ScheduleDailyReminder(hour, minute int) error
	CancelAllReminders()
	IsAuthorized() bool
}
