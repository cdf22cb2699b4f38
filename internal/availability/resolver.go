package availability

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// SelectRules returns the active operating hours rules that define the day for a barber.
// Barber-specific rules win; without them the shared (barber_id NULL) rules are used.
// An empty result means the barber does not work that day.
func SelectRules(barberID *int64, date time.Time, rules []*domain.OperatingHoursRule) []*domain.OperatingHoursRule {
	day := date.Weekday()

	if barberID != nil {
		if own := matchRules(barberID, day, rules); len(own) > 0 {
			return own
		}
	}

	return matchRules(nil, day, rules)
}

func matchRules(barberID *int64, day time.Weekday, rules []*domain.OperatingHoursRule) []*domain.OperatingHoursRule {
	var matched []*domain.OperatingHoursRule
	for _, r := range rules {
		if r != nil && r.AppliesTo(barberID, day) {
			matched = append(matched, r)
		}
	}
	return matched
}

// ResolveWindows builds the open windows of a barber on a date:
// operating hours minus recurring breaks minus date constraints for this barber or for everyone.
func ResolveWindows(
	barberID *int64,
	date time.Time,
	rules []*domain.OperatingHoursRule,
	constraints []*domain.DateConstraint,
) []Interval {
	return resolveWithRules(barberID, date, SelectRules(barberID, date, rules), constraints)
}

func resolveWithRules(
	barberID *int64,
	date time.Time,
	selected []*domain.OperatingHoursRule,
	constraints []*domain.DateConstraint,
) []Interval {
	if len(selected) == 0 {
		return []Interval{}
	}

	var windows []Interval
	for _, r := range selected {
		ruleWindows := []Interval{NewInterval(r.OpenTime, r.CloseTime)}
		for _, b := range r.Breaks {
			ruleWindows = Subtract(ruleWindows, NewInterval(b.StartTime, b.EndTime))
		}
		windows = append(windows, ruleWindows...)
	}
	windows = Normalize(windows)

	for _, c := range constraints {
		if c == nil || !c.AppliesTo(barberID, date) {
			continue
		}
		windows = Subtract(windows, NewInterval(c.StartTime, c.EndTime))
	}

	return windows
}
