package kindness

import "errors"

var (
	// ErrNoActsAvailable каталог пуст на момент выбора акта дня.
	// Вызывающий показывает заглушку, а не падает.
	ErrNoActsAvailable = errors.New("no acts available")

	// ErrStorageUnavailable хранилище недоступно. Нельзя трактовать как пустое состояние.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrNoData за месяц нет выполненных актов. Это не ошибка, а пустой результат.
	ErrNoData = errors.New("no data for month")
)
