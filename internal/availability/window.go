package availability

import (
	"sort"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Interval half-open minute range [Start, End)
type Interval struct {
	Start types.TimeOfDay `json:"start"`
	End   types.TimeOfDay `json:"end"`
}

// NewInterval builds an interval from bounds
func NewInterval(start, end types.TimeOfDay) Interval {
	return Interval{Start: start, End: end}
}

// IsEmpty returns true for zero-length or inverted intervals
func (i Interval) IsEmpty() bool {
	return i.Start >= i.End
}

// Length in minutes
func (i Interval) Length() int {
	if i.IsEmpty() {
		return 0
	}
	return int(i.End - i.Start)
}

// Overlaps reports a true overlap; touching intervals do not overlap
func (i Interval) Overlaps(o Interval) bool {
	return max(i.Start, o.Start) < min(i.End, o.End)
}

// Contains returns true if o lies entirely within i
func (i Interval) Contains(o Interval) bool {
	return i.Start <= o.Start && o.End <= i.End
}

func (i Interval) String() string {
	return i.Start.String() + "-" + i.End.String()
}

// Subtract removes cut from every window. A window that does not overlap cut is kept,
// otherwise its non-empty left and right remainders are emitted in order.
func Subtract(windows []Interval, cut Interval) []Interval {
	result := make([]Interval, 0, len(windows)+1)

	for _, w := range windows {
		if w.IsEmpty() {
			continue
		}
		if cut.IsEmpty() || !w.Overlaps(cut) {
			result = append(result, w)
			continue
		}

		if left := NewInterval(w.Start, cut.Start); !left.IsEmpty() {
			result = append(result, left)
		}
		if right := NewInterval(cut.End, w.End); !right.IsEmpty() {
			result = append(result, right)
		}
	}

	return result
}

// SubtractAll applies Subtract for each cut; the order of cuts does not matter
func SubtractAll(windows []Interval, cuts ...Interval) []Interval {
	result := filterEmpty(windows)
	for _, cut := range cuts {
		result = Subtract(result, cut)
	}
	return result
}

// Normalize sorts windows and merges overlapping or touching ones
func Normalize(windows []Interval) []Interval {
	sorted := filterEmpty(windows)
	if len(sorted) == 0 {
		return sorted
	}

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start == sorted[j].Start {
			return sorted[i].End < sorted[j].End
		}
		return sorted[i].Start < sorted[j].Start
	})

	merged := make([]Interval, 0, len(sorted))
	current := sorted[0]
	for _, w := range sorted[1:] {
		if w.Start <= current.End {
			current.End = max(current.End, w.End)
			continue
		}
		merged = append(merged, current)
		current = w
	}
	merged = append(merged, current)

	return merged
}

func filterEmpty(windows []Interval) []Interval {
	result := make([]Interval, 0, len(windows))
	for _, w := range windows {
		if !w.IsEmpty() {
			result = append(result, w)
		}
	}
	return result
}
