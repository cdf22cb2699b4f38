package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или отключена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrInvalidDate возвращается при некорректной дате бронирования
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrBarberNotWorking возвращается, когда у мастера нет рабочих окон в эту дату
	ErrBarberNotWorking = errors.New("create_booking: barber does not work on this date")

	// ErrSlotNotAvailable возвращается, когда выбранное время не входит в доступные слоты
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrTooLateToBook возвращается, когда бронирование нарушает minBookingNoticeMinutes
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
