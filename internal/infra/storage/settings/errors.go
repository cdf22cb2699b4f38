package settings

import "errors"

var (
	// ErrSettingsNotFound возвращается, когда настройки не найдены ни на одном уровне
	ErrSettingsNotFound = errors.New("settings.repository: settings not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("settings.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("settings.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("settings.repository: failed to scan row")
)
