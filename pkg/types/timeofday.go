package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay number of minutes in a wall-clock day
const MinutesPerDay = 24 * 60

// ErrInvalidTimeFormat returned by the strict parser
var ErrInvalidTimeFormat = errors.New("invalid time string format")

// TimeOfDay is a naive wall-clock time expressed as minutes since local midnight.
// Valid values are 0..1439. Interval ends computed by adding a duration may exceed
// that range; use AddMinutes when wrap-around is wanted.
type TimeOfDay int

// NewTimeOfDay builds a TimeOfDay from hour and minute
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// TimeOfDayFromTime takes the wall-clock hour and minute of t (seconds are dropped)
func TimeOfDayFromTime(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute())
}

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS". It never fails: a missing,
// unparsable or out-of-range hour or minute part is taken as 0.
func ParseTimeOfDay(s string) TimeOfDay {
	parts := strings.Split(strings.TrimSpace(s), ":")

	hour := parsePart(parts, 0, 23)
	minute := parsePart(parts, 1, 59)

	return NewTimeOfDay(hour, minute)
}

// ParseTimeOfDayStrict parses "HH:MM" or "HH:MM:SS" and rejects anything else.
// Used at API boundaries where bad input must be reported instead of defaulted.
func ParseTimeOfDayStrict(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	limits := []int{23, 59, 59}
	values := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 || v > limits[i] {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
		}
		values[i] = v
	}

	return NewTimeOfDay(values[0], values[1]), nil
}

func parsePart(parts []string, idx int, max int) int {
	if idx >= len(parts) {
		return 0
	}
	v, err := strconv.Atoi(strings.TrimSpace(parts[idx]))
	if err != nil || v < 0 || v > max {
		return 0
	}
	return v
}

// Hour returns the hour component
func (t TimeOfDay) Hour() int {
	return int(t) / 60
}

// Minute returns the minute component
func (t TimeOfDay) Minute() int {
	return int(t) % 60
}

// String formats as zero-padded "HH:MM"
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// AddMinutes adds delta minutes modulo one day
func (t TimeOfDay) AddMinutes(delta int) TimeOfDay {
	v := (int(t) + delta) % MinutesPerDay
	if v < 0 {
		v += MinutesPerDay
	}
	return TimeOfDay(v)
}

// IsValid reports whether t is within 0..1439
func (t TimeOfDay) IsValid() bool {
	return t >= 0 && t < MinutesPerDay
}

// On returns the instant at which clocks in loc show this wall-clock time on the given
// calendar day. The hour and minute are set directly, so on DST transition days the
// result is still the wall-clock time, not midnight plus elapsed minutes.
func (t TimeOfDay) On(date time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = date.Location()
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, loc)
}

// Value implements driver.Valuer, stored as Postgres TIME "HH:MM:SS"
func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String() + ":00", nil
}

// Scan implements sql.Scanner for TIME, TEXT and TIMESTAMP columns
func (t *TimeOfDay) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = 0
	case string:
		*t = ParseTimeOfDay(v)
	case []byte:
		*t = ParseTimeOfDay(string(v))
	case time.Time:
		*t = TimeOfDayFromTime(v)
	default:
		return fmt.Errorf("types.TimeOfDay: cannot scan %T", src)
	}
	return nil
}

// MarshalJSON encodes as "HH:MM"
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts "HH:MM" / "HH:MM:SS" strings or a raw minute count
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := ParseTimeOfDayStrict(s)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	}

	var minutes int
	if err := json.Unmarshal(data, &minutes); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTimeFormat, string(data))
	}
	*t = TimeOfDay(minutes)
	return nil
}
