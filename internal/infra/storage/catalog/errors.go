package catalog

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("catalog.repository: service not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("catalog.repository: failed to build query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("catalog.repository: failed to scan row")
)
