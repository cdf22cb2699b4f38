package get_day_availability

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или отключена
	ErrServiceNotFound = errors.New("service not found")

	// ErrInvalidDate возвращается, если горизонт начинается в прошлом
	ErrInvalidDate = errors.New("invalid start date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
