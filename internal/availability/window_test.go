package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

func hm(h, m int) types.TimeOfDay {
	return types.NewTimeOfDay(h, m)
}

func iv(h1, m1, h2, m2 int) Interval {
	return NewInterval(hm(h1, m1), hm(h2, m2))
}

func TestInterval_Overlaps(t *testing.T) {
	a := iv(9, 0, 10, 0)

	assert.True(t, a.Overlaps(iv(9, 30, 10, 30)))
	assert.True(t, a.Overlaps(iv(8, 0, 12, 0)))
	assert.False(t, a.Overlaps(iv(10, 0, 11, 0)), "touching end")
	assert.False(t, a.Overlaps(iv(8, 0, 9, 0)), "touching start")
	assert.False(t, a.Overlaps(iv(9, 30, 9, 30)), "empty interval")
}

func TestSubtract(t *testing.T) {
	tests := []struct {
		name    string
		windows []Interval
		cut     Interval
		want    []Interval
	}{
		{
			name:    "cut in the middle splits the window",
			windows: []Interval{iv(9, 0, 17, 0)},
			cut:     iv(12, 0, 13, 0),
			want:    []Interval{iv(9, 0, 12, 0), iv(13, 0, 17, 0)},
		},
		{
			name:    "cut covers the head",
			windows: []Interval{iv(9, 0, 17, 0)},
			cut:     iv(8, 0, 10, 0),
			want:    []Interval{iv(10, 0, 17, 0)},
		},
		{
			name:    "cut covers the tail",
			windows: []Interval{iv(9, 0, 17, 0)},
			cut:     iv(16, 0, 18, 0),
			want:    []Interval{iv(9, 0, 16, 0)},
		},
		{
			name:    "cut covers everything",
			windows: []Interval{iv(9, 0, 12, 0), iv(13, 0, 17, 0)},
			cut:     iv(0, 0, 23, 59),
			want:    []Interval{},
		},
		{
			name:    "touching cut keeps window intact",
			windows: []Interval{iv(9, 0, 12, 0)},
			cut:     iv(12, 0, 13, 0),
			want:    []Interval{iv(9, 0, 12, 0)},
		},
		{
			name:    "empty cut is a no-op",
			windows: []Interval{iv(9, 0, 12, 0)},
			cut:     iv(10, 0, 10, 0),
			want:    []Interval{iv(9, 0, 12, 0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Subtract(tt.windows, tt.cut))
		})
	}
}

func TestSubtract_Idempotent(t *testing.T) {
	windows := []Interval{iv(9, 0, 17, 0)}
	cut := iv(11, 0, 14, 0)

	once := Subtract(windows, cut)
	assert.Equal(t, once, Subtract(once, cut))
}

func TestSubtractAll_OrderIndependent(t *testing.T) {
	windows := []Interval{iv(9, 0, 17, 0)}
	a, b := iv(10, 0, 11, 0), iv(10, 30, 13, 0)

	assert.Equal(t, SubtractAll(windows, a, b), SubtractAll(windows, b, a))
	assert.Equal(t, []Interval{iv(9, 0, 10, 0), iv(13, 0, 17, 0)}, SubtractAll(windows, a, b))
}

func TestNormalize(t *testing.T) {
	got := Normalize([]Interval{
		iv(13, 0, 15, 0),
		iv(9, 0, 11, 0),
		iv(10, 0, 12, 0),
		iv(15, 0, 16, 0),
		iv(18, 0, 18, 0),
	})

	assert.Equal(t, []Interval{iv(9, 0, 12, 0), iv(13, 0, 16, 0)}, got)
	assert.Empty(t, Normalize(nil))
}
