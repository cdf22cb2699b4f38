package availability

import (
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// HorizonQuery input for per-day slot counts over [From, From+Days)
type HorizonQuery struct {
	BarberID        *int64
	From            time.Time
	Days            int
	DurationMinutes int
	BufferMinutes   int
	Now             time.Time
	Scope           ScopeMode
	Rules           []*domain.OperatingHoursRule
	Constraints     []*domain.DateConstraint
	Bookings        []*domain.Booking
	Workers         int // 0 = GOMAXPROCS
}

// Dates lists the calendar dates of the horizon
func (q HorizonQuery) Dates() []time.Time {
	if q.Days <= 0 {
		return nil
	}
	start := domain.DateOnly(q.From)
	dates := make([]time.Time, q.Days)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	return dates
}

func (q HorizonQuery) dayQuery(date time.Time) Query {
	return Query{
		BarberID:        q.BarberID,
		Date:            date,
		DurationMinutes: q.DurationMinutes,
		BufferMinutes:   q.BufferMinutes,
		Now:             q.Now,
		Scope:           q.Scope,
		Rules:           q.Rules,
		Constraints:     q.Constraints,
		Bookings:        q.Bookings,
	}
}

// ComputeDayAvailability counts available slots for each date of the horizon.
// Keys are dates formatted with domain.DateFormat; a zero count means fully booked or closed.
// Days are independent and computed concurrently.
func ComputeDayAvailability(q HorizonQuery) (map[string]int, error) {
	if q.From.IsZero() {
		return nil, fmt.Errorf("%w: horizon start is required", ErrInvalidQuery)
	}
	if q.Days < 0 {
		return nil, fmt.Errorf("%w: days must not be negative, got %d", ErrInvalidQuery, q.Days)
	}
	if err := validateParams(q.DurationMinutes, q.BufferMinutes, q.Scope); err != nil {
		return nil, err
	}

	dates := q.Dates()
	counts := make([]int, len(dates))

	workers := q.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var g errgroup.Group
	g.SetLimit(workers)

	for i, date := range dates {
		g.Go(func() error {
			slots, err := ComputeAvailableSlots(q.dayQuery(date))
			if err != nil {
				return err
			}
			counts[i] = len(slots)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make(map[string]int, len(dates))
	for i, date := range dates {
		result[date.Format(domain.DateFormat)] = counts[i]
	}

	return result, nil
}
