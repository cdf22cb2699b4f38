package availability

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Params inputs of the slot generator besides windows and busy intervals
type Params struct {
	Date            time.Time
	DurationMinutes int
	BufferMinutes   int
	// Now zero value disables past-time filtering. When set, a date before Now's
	// calendar day yields no slots and on Now's own day starts earlier than Now are dropped.
	Now time.Time
}

// GenerateSlots walks every window in steps of the service duration and returns the valid
// start times in ascending order. A candidate t is rejected when
//   - it starts less than BufferMinutes after the end of the previous booking,
//   - [t, t+duration) overlaps a booking,
//   - it ends less than BufferMinutes before the start of the next booking,
//   - the date is today and t is already in the past.
//
// With Now set, a date earlier than today returns no slots at all.
//
// On rejection t jumps to the first position that can pass the failed check, so t strictly
// grows and the loop ends after at most window/step iterations.
func GenerateSlots(windows []Interval, busy []Interval, p Params) []types.TimeOfDay {
	slots := make([]types.TimeOfDay, 0)

	if p.DurationMinutes <= 0 || p.BufferMinutes < 0 {
		return slots
	}
	if !p.Now.IsZero() && isDateBefore(p.Date, p.Now) {
		return slots
	}

	today := !p.Now.IsZero() && domain.SameDay(p.Date, p.Now)
	duration := types.TimeOfDay(p.DurationMinutes)
	buffer := types.TimeOfDay(p.BufferMinutes)
	idx := newBusyIndex(busy)

	for _, w := range sortedWindows(windows) {
		t := w.Start
		for t+duration <= w.End {
			// 1. Отступ после предыдущей записи
			if prevEnd, ok := idx.previousEnd(t); ok && t < prevEnd+buffer {
				t = prevEnd + buffer
				continue
			}

			// 2. Пересечение с записью - жесткий конфликт
			if b, ok := idx.firstOverlap(NewInterval(t, t+duration)); ok {
				t = b.End
				continue
			}

			// 3. Отступ перед следующей записью
			if nextStart, ok := idx.nextStart(t); ok && t+duration+buffer > nextStart {
				t = nextStart + buffer
				continue
			}

			// 4. Прошедшее время сегодня не предлагаем
			if today && t.On(p.Date, p.Now.Location()).Before(p.Now) {
				t += duration
				continue
			}

			slots = append(slots, t)
			t += duration
		}
	}

	return slots
}

// busyIndex sorted views of busy intervals for binary-searched neighbour lookups
type busyIndex struct {
	byStart []Interval
	ends    []types.TimeOfDay
}

func newBusyIndex(busy []Interval) busyIndex {
	byStart := filterEmpty(busy)
	sort.Slice(byStart, func(i, j int) bool {
		if byStart[i].Start == byStart[j].Start {
			return byStart[i].End < byStart[j].End
		}
		return byStart[i].Start < byStart[j].Start
	})

	ends := make([]types.TimeOfDay, len(byStart))
	for i, b := range byStart {
		ends[i] = b.End
	}
	sort.Slice(ends, func(i, j int) bool { return ends[i] < ends[j] })

	return busyIndex{byStart: byStart, ends: ends}
}

// previousEnd the latest end <= t
func (x busyIndex) previousEnd(t types.TimeOfDay) (types.TimeOfDay, bool) {
	i := sort.Search(len(x.ends), func(i int) bool { return x.ends[i] > t })
	if i == 0 {
		return 0, false
	}
	return x.ends[i-1], true
}

// firstOverlap the first interval in start order that truly overlaps c
func (x busyIndex) firstOverlap(c Interval) (Interval, bool) {
	n := sort.Search(len(x.byStart), func(i int) bool { return x.byStart[i].Start >= c.End })
	for _, b := range x.byStart[:n] {
		if b.Overlaps(c) {
			return b, true
		}
	}
	return Interval{}, false
}

// nextStart the earliest start >= t
func (x busyIndex) nextStart(t types.TimeOfDay) (types.TimeOfDay, bool) {
	i := sort.Search(len(x.byStart), func(i int) bool { return x.byStart[i].Start >= t })
	if i == len(x.byStart) {
		return 0, false
	}
	return x.byStart[i].Start, true
}

func sortedWindows(windows []Interval) []Interval {
	sorted := filterEmpty(windows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	return sorted
}

// isDateBefore compares calendar dates only
func isDateBefore(date, ref time.Time) bool {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	r := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	return d.Before(r)
}
