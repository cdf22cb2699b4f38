package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

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

	if !req.StartTime.IsValid() {
		return fmt.Errorf("%w: invalid startTime %d", ErrInvalidInput, int(req.StartTime))
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateDate проверяет, что дата подходит для бронирования
func validateDate(bookingDate time.Time, now time.Time, advanceBookingDays int) error {
	// Проверяем, что дата не в прошлом
	if isDateInPast(bookingDate, now) {
		return ErrInvalidDate
	}

	// Если advanceBookingDays = 0, нет ограничений на дату
	if advanceBookingDays == 0 {
		return nil
	}

	maxDate := domain.DateOnly(now).AddDate(0, 0, advanceBookingDays)
	bookingDateOnly := time.Date(bookingDate.Year(), bookingDate.Month(), bookingDate.Day(), 0, 0, 0, 0, now.Location())

	if bookingDateOnly.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}

	return nil
}

// validateBookingTime проверяет, что бронирование не нарушает minBookingNoticeMinutes
func validateBookingTime(bookingDate time.Time, startTime types.TimeOfDay, now time.Time, minBookingNoticeMinutes int) error {
	earliest := now.Add(time.Duration(minBookingNoticeMinutes) * time.Minute)
	if startTime.On(bookingDate, now.Location()).Before(earliest) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, minBookingNoticeMinutes)
	}
	return nil
}

// containsStart проверяет, что время начала входит в рассчитанные слоты
func containsStart(slots []types.TimeOfDay, start types.TimeOfDay) bool {
	for _, s := range slots {
		if s == start {
			return true
		}
	}
	return false
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(domain.DateOnly(now))
}
