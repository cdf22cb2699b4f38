package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/cache/windows"
	catalogRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/catalog"
	settingsRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// 2026-10-19 понедельник
var monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

type fixture struct {
	bookings *mockBookingRepo
	schedule *mockScheduleRepo
	settings *mockSettingsRepo
	catalog  *mockCatalogRepo
	cache    *mockCache
	metrics  *fakeMetrics
	uc       *UseCase
}

func newFixture(now time.Time) *fixture {
	f := &fixture{
		bookings: &mockBookingRepo{},
		schedule: &mockScheduleRepo{},
		settings: &mockSettingsRepo{},
		catalog:  &mockCatalogRepo{},
		cache:    &mockCache{},
		metrics:  &fakeMetrics{},
	}
	f.uc = NewUseCase(f.bookings, f.schedule, f.settings, f.catalog, f.cache, f.metrics, logger.NewNop()).
		WithTimeProvider(fixedTime{now: now})
	return f
}

func mondayRule() *domain.OperatingHoursRule {
	return &domain.OperatingHoursRule{
		DayOfWeek: time.Monday,
		OpenTime:  types.NewTimeOfDay(9, 0),
		CloseTime: types.NewTimeOfDay(17, 0),
		Breaks: []domain.Break{
			{StartTime: types.NewTimeOfDay(12, 0), EndTime: types.NewTimeOfDay(13, 0)},
		},
		SlotDurationMinutes: 30,
		IsActive:            true,
	}
}

func starts(slots []domain.AvailableSlot) []string {
	result := make([]string, len(slots))
	for i, s := range slots {
		result[i] = s.StartTime.String()
	}
	return result
}

func TestExecute_ComputesSlotsAndFillsCache(t *testing.T) {
	f := newFixture(monday.Add(-12 * time.Hour))
	barber := ptr.Ptr(int64(3))
	ctx := context.Background()

	f.catalog.On("GetServiceByID", ctx, int64(1)).
		Return(&domain.Service{ID: 1, Name: "Haircut", DurationMinutes: 60, IsActive: true}, nil)
	f.settings.On("GetWithHierarchy", ctx, barber).
		Return(&domain.BookingSettings{BufferMinutes: 15, IncludeSharedBookings: true}, nil)
	// окна сохраняются под тем поколением, которое вернул Get
	gen := windows.Generation{All: 2, Scope: 5}
	f.cache.On("Get", ctx, barber, monday).Return(availability.ResolvedDay{}, gen, false, nil)
	f.schedule.On("GetRulesByBarber", ctx, barber).Return([]*domain.OperatingHoursRule{mondayRule()}, nil)
	f.schedule.On("GetConstraintsInRange", ctx, barber, monday, monday).Return([]*domain.DateConstraint{}, nil)
	f.cache.On("Set", ctx, barber, monday, gen, mock.AnythingOfType("availability.ResolvedDay")).Return(nil)
	f.bookings.On("GetByFilter", ctx, mock.MatchedBy(func(filter domain.BookingsFilter) bool {
		return filter.BarberID == barber && filter.WithShared && filter.IsSingleDate()
	})).Return([]*domain.Booking{{
		BarberID:        barber,
		BookingDate:     monday,
		StartTime:       types.NewTimeOfDay(10, 0),
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
	}}, nil)

	resp, err := f.uc.Execute(ctx, &Request{BarberID: barber, ServiceID: 1, Date: monday})

	require.NoError(t, err)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, []string{"13:00", "14:00", "15:00", "16:00"}, starts(resp.Slots))
	assert.Equal(t, 1, f.metrics.misses)
	assert.Equal(t, []int{4}, f.metrics.produced)
	mock.AssertExpectationsForObjects(t, f.catalog, f.settings, f.cache, f.schedule, f.bookings)
}

func TestExecute_UsesCachedWindows(t *testing.T) {
	f := newFixture(monday.Add(-12 * time.Hour))
	ctx := context.Background()

	f.catalog.On("GetServiceByID", ctx, int64(1)).Return(&domain.Service{ID: 1, IsActive: true}, nil)
	f.settings.On("GetWithHierarchy", ctx, (*int64)(nil)).Return(nil, settingsRepo.ErrSettingsNotFound)
	f.cache.On("Get", ctx, (*int64)(nil), monday).Return(availability.ResolvedDay{
		Windows: []availability.Interval{
			availability.NewInterval(types.NewTimeOfDay(10, 0), types.NewTimeOfDay(11, 0)),
		},
		DefaultDurationMinutes: 20,
	}, windows.Generation{}, true, nil)
	f.bookings.On("GetByFilter", ctx, mock.MatchedBy(func(filter domain.BookingsFilter) bool {
		return filter.OnlyShared
	})).Return([]*domain.Booking{}, nil)

	resp, err := f.uc.Execute(ctx, &Request{ServiceID: 1, Date: monday})

	require.NoError(t, err)
	assert.Equal(t, 20, resp.DurationMinutes, "rule default when service has no duration")
	assert.Equal(t, []string{"10:00", "10:20", "10:40"}, starts(resp.Slots))
	assert.Equal(t, 1, f.metrics.hits)
	f.schedule.AssertNotCalled(t, "GetRulesByBarber", mock.Anything, mock.Anything)
}

func TestExecute_CacheErrorsAreNotFatal(t *testing.T) {
	f := newFixture(monday.Add(-12 * time.Hour))
	ctx := context.Background()

	f.catalog.On("GetServiceByID", ctx, int64(1)).Return(&domain.Service{ID: 1, DurationMinutes: 60, IsActive: true}, nil)
	f.settings.On("GetWithHierarchy", ctx, (*int64)(nil)).Return(domain.DefaultBookingSettings(), nil)
	f.cache.On("Get", ctx, (*int64)(nil), monday).Return(availability.ResolvedDay{}, windows.Generation{}, false, errors.New("redis down"))
	f.schedule.On("GetRulesByBarber", ctx, (*int64)(nil)).Return([]*domain.OperatingHoursRule{mondayRule()}, nil)
	f.schedule.On("GetConstraintsInRange", ctx, (*int64)(nil), monday, monday).Return(nil, nil)
	f.cache.On("Set", ctx, (*int64)(nil), monday, windows.Generation{}, mock.Anything).Return(errors.New("redis down"))
	f.bookings.On("GetByFilter", ctx, mock.Anything).Return(nil, nil)

	resp, err := f.uc.Execute(ctx, &Request{ServiceID: 1, Date: monday})

	require.NoError(t, err)
	assert.Len(t, resp.Slots, 7)
}

func TestExecute_TodayRespectsMinimumNotice(t *testing.T) {
	f := newFixture(monday.Add(15*time.Hour + 10*time.Minute))
	ctx := context.Background()

	f.catalog.On("GetServiceByID", ctx, int64(1)).Return(&domain.Service{ID: 1, DurationMinutes: 30, IsActive: true}, nil)
	f.settings.On("GetWithHierarchy", ctx, (*int64)(nil)).Return(nil, settingsRepo.ErrSettingsNotFound)
	f.cache.On("Get", ctx, (*int64)(nil), monday).Return(availability.ResolvedDay{
		Windows: []availability.Interval{
			availability.NewInterval(types.NewTimeOfDay(9, 0), types.NewTimeOfDay(17, 0)),
		},
	}, windows.Generation{}, true, nil)
	f.bookings.On("GetByFilter", ctx, mock.Anything).Return([]*domain.Booking{}, nil)

	resp, err := f.uc.Execute(ctx, &Request{ServiceID: 1, Date: monday})

	// по умолчанию бронировать можно не раньше чем через час: 16:10 и позже
	require.NoError(t, err)
	assert.Equal(t, []string{"16:30"}, starts(resp.Slots))
}

func TestExecute_ClosedDay(t *testing.T) {
	f := newFixture(monday.Add(-12 * time.Hour))
	ctx := context.Background()
	tuesday := monday.AddDate(0, 0, 1)

	f.catalog.On("GetServiceByID", ctx, int64(1)).Return(&domain.Service{ID: 1, DurationMinutes: 30, IsActive: true}, nil)
	f.settings.On("GetWithHierarchy", ctx, (*int64)(nil)).Return(domain.DefaultBookingSettings(), nil)
	f.cache.On("Get", ctx, (*int64)(nil), tuesday).Return(availability.ResolvedDay{}, windows.Generation{}, false, nil)
	f.schedule.On("GetRulesByBarber", ctx, (*int64)(nil)).Return([]*domain.OperatingHoursRule{mondayRule()}, nil)
	f.schedule.On("GetConstraintsInRange", ctx, (*int64)(nil), tuesday, tuesday).Return(nil, nil)
	f.cache.On("Set", ctx, (*int64)(nil), tuesday, windows.Generation{}, mock.Anything).Return(nil)

	resp, err := f.uc.Execute(ctx, &Request{ServiceID: 1, Date: tuesday})

	require.NoError(t, err)
	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
	f.bookings.AssertNotCalled(t, "GetByFilter", mock.Anything, mock.Anything)
}

func TestExecute_Errors(t *testing.T) {
	ctx := context.Background()
	now := monday.Add(-12 * time.Hour)

	t.Run("invalid input", func(t *testing.T) {
		f := newFixture(now)
		_, err := f.uc.Execute(ctx, &Request{ServiceID: 0, Date: monday})
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = f.uc.Execute(ctx, &Request{BarberID: ptr.Ptr(int64(-1)), ServiceID: 1, Date: monday})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("service not found", func(t *testing.T) {
		f := newFixture(now)
		f.catalog.On("GetServiceByID", ctx, int64(9)).Return(nil, catalogRepo.ErrServiceNotFound)

		_, err := f.uc.Execute(ctx, &Request{ServiceID: 9, Date: monday})
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("service disabled", func(t *testing.T) {
		f := newFixture(now)
		f.catalog.On("GetServiceByID", ctx, int64(9)).Return(&domain.Service{ID: 9}, nil)

		_, err := f.uc.Execute(ctx, &Request{ServiceID: 9, Date: monday})
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("date in past", func(t *testing.T) {
		f := newFixture(now)
		f.catalog.On("GetServiceByID", ctx, int64(1)).Return(&domain.Service{ID: 1, IsActive: true}, nil)
		f.settings.On("GetWithHierarchy", ctx, (*int64)(nil)).Return(domain.DefaultBookingSettings(), nil)

		_, err := f.uc.Execute(ctx, &Request{ServiceID: 1, Date: monday.AddDate(0, 0, -2)})
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("too far in future", func(t *testing.T) {
		f := newFixture(now)
		f.catalog.On("GetServiceByID", ctx, int64(1)).Return(&domain.Service{ID: 1, IsActive: true}, nil)
		f.settings.On("GetWithHierarchy", ctx, (*int64)(nil)).Return(&domain.BookingSettings{AdvanceBookingDays: 7}, nil)

		_, err := f.uc.Execute(ctx, &Request{ServiceID: 1, Date: monday.AddDate(0, 0, 30)})
		assert.ErrorIs(t, err, ErrDateTooFarInFuture)
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newFixture(now)
		f.catalog.On("GetServiceByID", ctx, int64(1)).Return(nil, errors.New("db down"))

		_, err := f.uc.Execute(ctx, &Request{ServiceID: 1, Date: monday})
		assert.ErrorIs(t, err, ErrInternal)
	})
}
