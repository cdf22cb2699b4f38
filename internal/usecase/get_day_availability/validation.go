package get_day_availability

import (
	"fmt"
	"math"
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

	if req.From.IsZero() {
		return fmt.Errorf("%w: from is required", ErrInvalidInput)
	}

	if req.Days < 0 {
		return fmt.Errorf("%w: days must not be negative", ErrInvalidInput)
	}

	return nil
}

// horizonDays количество дней горизонта с учетом конфигурации и ограничения advanceBookingDays.
// Дни за пределами ограничения не считаются вовсе.
func horizonDays(requested int, from, now time.Time, opts Options, advanceBookingDays int) int {
	days := requested
	if days == 0 {
		days = opts.DefaultHorizonDays
	}
	if opts.MaxHorizonDays > 0 && days > opts.MaxHorizonDays {
		days = opts.MaxHorizonDays
	}

	if advanceBookingDays > 0 {
		lastDate := domain.DateOnly(now).AddDate(0, 0, advanceBookingDays)
		start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, now.Location())
		allowed := int(math.Round(lastDate.Sub(start).Hours()/24)) + 1
		if allowed < 0 {
			allowed = 0
		}
		if days > allowed {
			days = allowed
		}
	}

	return days
}

// isDateInPast проверяет, что дата раньше сегодняшнего дня
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(domain.DateOnly(now))
}
