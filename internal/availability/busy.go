package availability

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// ScopeMode decides which bookings occupy a barber's time
type ScopeMode int

const (
	// ScopeStrict only bookings of the same barber (nil matches nil)
	ScopeStrict ScopeMode = iota
	// ScopeWithShared bookings of the barber plus bookings without a barber
	ScopeWithShared
)

func (m ScopeMode) String() string {
	switch m {
	case ScopeStrict:
		return "strict"
	case ScopeWithShared:
		return "with_shared"
	default:
		return "unknown"
	}
}

// ScopeFromSettings maps booking settings to a scoping mode
func ScopeFromSettings(settings *domain.BookingSettings) ScopeMode {
	if settings != nil && settings.IncludeSharedBookings {
		return ScopeWithShared
	}
	return ScopeStrict
}

// CollectBusy turns active bookings of the barber on date into busy intervals
// sorted by start (ties by end).
func CollectBusy(barberID *int64, date time.Time, bookings []*domain.Booking, mode ScopeMode) []Interval {
	busy := make([]Interval, 0, len(bookings))

	for _, b := range bookings {
		if b == nil || !b.IsActive() || !domain.SameDay(b.BookingDate, date) {
			continue
		}
		if !inScope(barberID, b.BarberID, mode) {
			continue
		}

		iv := NewInterval(b.StartTime, b.StartTime+types.TimeOfDay(b.DurationMinutes))
		if iv.IsEmpty() {
			continue
		}
		busy = append(busy, iv)
	}

	sort.Slice(busy, func(i, j int) bool {
		if busy[i].Start == busy[j].Start {
			return busy[i].End < busy[j].End
		}
		return busy[i].Start < busy[j].Start
	})

	return busy
}

func inScope(barberID, bookingBarberID *int64, mode ScopeMode) bool {
	if domain.SameBarber(barberID, bookingBarberID) {
		return true
	}
	return mode == ScopeWithShared && bookingBarberID == nil
}
