package availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Query input of one availability computation.
// All slices are read-only snapshots; the engine keeps no state between calls.
type Query struct {
	BarberID        *int64 // nil = shared/default resource
	Date            time.Time
	DurationMinutes int // 0 = default slot duration of the matching rule
	BufferMinutes   int
	Now             time.Time // zero = no past-time filtering; past dates yield no slots
	Scope           ScopeMode
	Rules           []*domain.OperatingHoursRule
	Constraints     []*domain.DateConstraint
	Bookings        []*domain.Booking
}

// ResolvedDay open windows of a barber on a date together with the rule's default duration.
// This is what callers may cache per (barber, date).
type ResolvedDay struct {
	Windows                []Interval `json:"windows"`
	DefaultDurationMinutes int        `json:"defaultDurationMinutes"`
}

// IsClosed returns true if nothing is open that day
func (d ResolvedDay) IsClosed() bool {
	return len(d.Windows) == 0
}

// ResolveDay selects the rules of the day and erodes them by breaks and constraints
func ResolveDay(
	barberID *int64,
	date time.Time,
	rules []*domain.OperatingHoursRule,
	constraints []*domain.DateConstraint,
) ResolvedDay {
	selected := SelectRules(barberID, date, rules)

	day := ResolvedDay{Windows: resolveWithRules(barberID, date, selected, constraints)}
	for _, r := range selected {
		if r.SlotDurationMinutes > 0 {
			day.DefaultDurationMinutes = r.SlotDurationMinutes
			break
		}
	}

	return day
}

// ComputeAvailableSlots returns the bookable start times for the query, ascending
func ComputeAvailableSlots(q Query) ([]types.TimeOfDay, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}

	day := ResolveDay(q.BarberID, q.Date, q.Rules, q.Constraints)
	return slotsForDay(day, q), nil
}

// SlotsForDay computes slots from already resolved windows (e.g. taken from a cache).
// Rules and Constraints of q are ignored.
func SlotsForDay(day ResolvedDay, q Query) ([]types.TimeOfDay, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}
	return slotsForDay(day, q), nil
}

// EffectiveDuration the duration the generator steps with
func EffectiveDuration(requested int, day ResolvedDay) int {
	switch {
	case requested > 0:
		return requested
	case day.DefaultDurationMinutes > 0:
		return day.DefaultDurationMinutes
	default:
		return domain.DefaultSlotDurationMinutes
	}
}

func slotsForDay(day ResolvedDay, q Query) []types.TimeOfDay {
	if day.IsClosed() {
		return make([]types.TimeOfDay, 0)
	}

	busy := CollectBusy(q.BarberID, q.Date, q.Bookings, q.Scope)

	return GenerateSlots(day.Windows, busy, Params{
		Date:            q.Date,
		DurationMinutes: EffectiveDuration(q.DurationMinutes, day),
		BufferMinutes:   q.BufferMinutes,
		Now:             q.Now,
	})
}

func validateQuery(q Query) error {
	if q.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidQuery)
	}
	return validateParams(q.DurationMinutes, q.BufferMinutes, q.Scope)
}

func validateParams(duration, buffer int, scope ScopeMode) error {
	if duration < 0 {
		return fmt.Errorf("%w: duration must not be negative, got %d", ErrInvalidQuery, duration)
	}
	if buffer < 0 {
		return fmt.Errorf("%w: buffer must not be negative, got %d", ErrInvalidQuery, buffer)
	}
	if scope != ScopeStrict && scope != ScopeWithShared {
		return fmt.Errorf("%w: unknown scope mode %d", ErrInvalidQuery, scope)
	}
	return nil
}
