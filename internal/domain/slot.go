package domain

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// AvailableSlot represents a start time available for booking
type AvailableSlot struct {
	StartTime       types.TimeOfDay
	DurationMinutes int
}

// EndTime returns the end of the slot
func (s *AvailableSlot) EndTime() types.TimeOfDay {
	return s.StartTime + types.TimeOfDay(s.DurationMinutes)
}

// DayAvailability number of open slots on a date
type DayAvailability struct {
	Date            time.Time
	AvailableSlots  int
	DurationMinutes int // длительность, с которой считались слоты этого дня
}

// IsFullyBooked returns true if no slot is left on that date
func (d *DayAvailability) IsFullyBooked() bool {
	return d.AvailableSlots == 0
}
