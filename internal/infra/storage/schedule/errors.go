package schedule

import "errors"

var (
	// ErrConstraintNotFound возвращается, когда ограничение на дату не найдено
	ErrConstraintNotFound = errors.New("schedule.repository: date constraint not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
