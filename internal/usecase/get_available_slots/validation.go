package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BarberID != nil && *req.BarberID <= 0 {
		return fmt.Errorf("%w: barberID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что дата подходит для бронирования
func validateDate(requestDate time.Time, now time.Time, advanceBookingDays int) error {
	// Проверяем, что дата не в прошлом
	if isDateInPast(requestDate, now) {
		return ErrInvalidDate
	}

	// Если advanceBookingDays = 0, нет ограничений на дату
	if advanceBookingDays == 0 {
		return nil
	}

	maxDate := domain.DateOnly(now).AddDate(0, 0, advanceBookingDays)
	requestDateOnly := time.Date(requestDate.Year(), requestDate.Month(), requestDate.Day(), 0, 0, 0, 0, now.Location())

	if requestDateOnly.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}

	return nil
}

// isDateInPast проверяет, что дата раньше сегодняшнего дня
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(domain.DateOnly(now))
}
