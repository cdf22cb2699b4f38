package schedule

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// validateRule проверяет часы работы и перерывы правила
func validateRule(rule *domain.OperatingHoursRule) error {
	if rule.DayOfWeek < time.Sunday || rule.DayOfWeek > time.Saturday {
		return fmt.Errorf("%w: dayOfWeek must be between 0 and 6", ErrInvalidInput)
	}

	if err := validateRange("hours", rule.OpenTime, rule.CloseTime); err != nil {
		return err
	}

	if rule.SlotDurationMinutes != 0 &&
		(rule.SlotDurationMinutes < domain.MinSlotDurationMinutes || rule.SlotDurationMinutes > domain.MaxSlotDurationMinutes) {
		return fmt.Errorf("%w: slotDurationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}

	for _, b := range rule.Breaks {
		if err := validateRange("break", b.StartTime, b.EndTime); err != nil {
			return err
		}
	}

	return nil
}

// validateConstraint проверяет ограничение на дату
func validateConstraint(c *domain.DateConstraint) error {
	if c.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := validateRange("constraint", c.StartTime, c.EndTime); err != nil {
		return err
	}

	if c.Reason != nil && len(*c.Reason) > domain.MaxReasonLength {
		return fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	return nil
}

// validateSettings проверяет границы настроек бронирования
func validateSettings(s *domain.BookingSettings) error {
	if s.BufferMinutes < 0 || s.BufferMinutes > domain.MaxBufferMinutes {
		return fmt.Errorf("%w: bufferMinutes must be between 0 and %d", ErrInvalidInput, domain.MaxBufferMinutes)
	}

	if s.AdvanceBookingDays < domain.MinAdvanceBookingDays || s.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}

	if s.MinBookingNoticeMinutes < domain.MinBookingNoticeMinutes || s.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: minBookingNoticeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBookingNoticeMinutes, domain.MaxBookingNoticeMinutes)
	}

	return nil
}

func validateRange(name string, start, end types.TimeOfDay) error {
	if !start.IsValid() || !end.IsValid() {
		return fmt.Errorf("%w: %s time out of range", ErrInvalidInput, name)
	}
	if start >= end {
		return fmt.Errorf("%w: %s start %s must be before end %s", ErrInvalidInput, name, start, end)
	}
	return nil
}
