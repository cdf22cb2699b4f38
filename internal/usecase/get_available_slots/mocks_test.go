package get_available_slots

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/cache/windows"
)

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) GetByFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	bookings, _ := args.Get(0).([]*domain.Booking)
	return bookings, args.Error(1)
}

type mockScheduleRepo struct{ mock.Mock }

func (m *mockScheduleRepo) GetRulesByBarber(ctx context.Context, barberID *int64) ([]*domain.OperatingHoursRule, error) {
	args := m.Called(ctx, barberID)
	rules, _ := args.Get(0).([]*domain.OperatingHoursRule)
	return rules, args.Error(1)
}

func (m *mockScheduleRepo) GetConstraintsInRange(ctx context.Context, barberID *int64, from, to time.Time) ([]*domain.DateConstraint, error) {
	args := m.Called(ctx, barberID, from, to)
	constraints, _ := args.Get(0).([]*domain.DateConstraint)
	return constraints, args.Error(1)
}

type mockSettingsRepo struct{ mock.Mock }

func (m *mockSettingsRepo) GetWithHierarchy(ctx context.Context, barberID *int64) (*domain.BookingSettings, error) {
	args := m.Called(ctx, barberID)
	settings, _ := args.Get(0).(*domain.BookingSettings)
	return settings, args.Error(1)
}

type mockCatalogRepo struct{ mock.Mock }

func (m *mockCatalogRepo) GetServiceByID(ctx context.Context, id int64) (*domain.Service, error) {
	args := m.Called(ctx, id)
	service, _ := args.Get(0).(*domain.Service)
	return service, args.Error(1)
}

type mockCache struct{ mock.Mock }

func (m *mockCache) Get(ctx context.Context, barberID *int64, date time.Time) (availability.ResolvedDay, windows.Generation, bool, error) {
	args := m.Called(ctx, barberID, date)
	return args.Get(0).(availability.ResolvedDay), args.Get(1).(windows.Generation), args.Bool(2), args.Error(3)
}

func (m *mockCache) Set(ctx context.Context, barberID *int64, date time.Time, gen windows.Generation, day availability.ResolvedDay) error {
	return m.Called(ctx, barberID, date, gen, day).Error(0)
}

type fakeMetrics struct {
	hits, misses int
	produced     []int
}

func (f *fakeMetrics) ObserveEngine(_ string, _ time.Duration, produced int) {
	f.produced = append(f.produced, produced)
}

func (f *fakeMetrics) CacheHit()  { f.hits++ }
func (f *fakeMetrics) CacheMiss() { f.misses++ }

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }
