package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

func booking(barberID *int64, start types.TimeOfDay, duration int, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		BarberID:        barberID,
		BookingDate:     monday,
		StartTime:       start,
		DurationMinutes: duration,
		Status:          status,
	}
}

func TestCollectBusy_Scope(t *testing.T) {
	barber := ptr.Ptr(int64(7))
	bookings := []*domain.Booking{
		booking(barber, hm(14, 0), 30, domain.StatusConfirmed),
		booking(nil, hm(10, 0), 60, domain.StatusPending),
		booking(ptr.Ptr(int64(8)), hm(11, 0), 60, domain.StatusConfirmed),
		booking(barber, hm(9, 0), 30, domain.StatusInProgress),
	}

	strict := CollectBusy(barber, monday, bookings, ScopeStrict)
	assert.Equal(t, []Interval{iv(9, 0, 9, 30), iv(14, 0, 14, 30)}, strict)

	shared := CollectBusy(barber, monday, bookings, ScopeWithShared)
	assert.Equal(t, []Interval{iv(9, 0, 9, 30), iv(10, 0, 11, 0), iv(14, 0, 14, 30)}, shared)

	// без мастера в строгом режиме видны только бронирования без мастера
	assert.Equal(t, []Interval{iv(10, 0, 11, 0)}, CollectBusy(nil, monday, bookings, ScopeStrict))
}

func TestCollectBusy_SkipsInactiveAndOtherDays(t *testing.T) {
	tomorrow := booking(nil, hm(12, 0), 30, domain.StatusConfirmed)
	tomorrow.BookingDate = monday.AddDate(0, 0, 1)

	bookings := []*domain.Booking{
		booking(nil, hm(9, 0), 30, domain.StatusCancelledByUser),
		booking(nil, hm(9, 30), 30, domain.StatusCancelledByBusiness),
		booking(nil, hm(10, 0), 30, domain.StatusNoShow),
		booking(nil, hm(10, 30), 30, domain.StatusCompleted),
		booking(nil, hm(11, 0), 0, domain.StatusConfirmed),
		tomorrow,
		nil,
	}

	assert.Equal(t, []Interval{iv(10, 30, 11, 0)}, CollectBusy(nil, monday, bookings, ScopeWithShared))
}

func TestCollectBusy_EndMayPassMidnight(t *testing.T) {
	bookings := []*domain.Booking{booking(nil, hm(23, 30), 60, domain.StatusConfirmed)}

	busy := CollectBusy(nil, monday, bookings, ScopeStrict)

	assert.Equal(t, []Interval{NewInterval(hm(23, 30), hm(23, 30)+60)}, busy)
}

func TestScopeFromSettings(t *testing.T) {
	assert.Equal(t, ScopeStrict, ScopeFromSettings(nil))
	assert.Equal(t, ScopeStrict, ScopeFromSettings(&domain.BookingSettings{}))
	assert.Equal(t, ScopeWithShared, ScopeFromSettings(&domain.BookingSettings{IncludeSharedBookings: true}))
	assert.Equal(t, "with_shared", ScopeWithShared.String())
}
