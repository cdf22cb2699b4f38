package domain

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// OperatingHoursRule weekly working hours of a barber (or of the shop when BarberID is nil)
// for one day of the week. Several active rules for the same day are unioned.
type OperatingHoursRule struct {
	ID                  int64
	BarberID            *int64 // NULL = shared/default rule
	DayOfWeek           time.Weekday
	OpenTime            types.TimeOfDay
	CloseTime           types.TimeOfDay
	Breaks              []Break
	SlotDurationMinutes int // default service slot duration for this day
	IsActive            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsShared returns true for the shop-wide default rule
func (r *OperatingHoursRule) IsShared() bool {
	return r.BarberID == nil
}

// AppliesTo returns true if the rule is active and configured for this barber and weekday.
// A nil barberID only matches shared rules.
func (r *OperatingHoursRule) AppliesTo(barberID *int64, day time.Weekday) bool {
	return r.IsActive && r.DayOfWeek == day && SameBarber(r.BarberID, barberID)
}

// Break recurring pause inside an operating hours rule (lunch etc.)
type Break struct {
	ID        int64
	RuleID    int64
	StartTime types.TimeOfDay
	EndTime   types.TimeOfDay
}

// DateConstraint one-off blackout on a specific date.
// BarberID nil means the constraint closes the time for every barber.
type DateConstraint struct {
	ID        int64
	BarberID  *int64
	Date      time.Time
	StartTime types.TimeOfDay
	EndTime   types.TimeOfDay
	Reason    *string
	CreatedAt time.Time
}

// IsGlobal returns true if the constraint applies to all barbers
func (c *DateConstraint) IsGlobal() bool {
	return c.BarberID == nil
}

// AppliesTo returns true if the constraint is on date and scoped to barberID or to everyone
func (c *DateConstraint) AppliesTo(barberID *int64, date time.Time) bool {
	if !SameDay(c.Date, date) {
		return false
	}
	if c.IsGlobal() {
		return true
	}
	return barberID != nil && *c.BarberID == *barberID
}

// SameBarber compares nullable barber IDs; nil equals nil
func SameBarber(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// SameDay compares calendar dates ignoring time and location
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DateOnly truncates t to midnight in its own location
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
