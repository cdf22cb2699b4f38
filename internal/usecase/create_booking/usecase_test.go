package create_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/catalog"
	settingsRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// 2026-10-19 понедельник
var monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

type fakeBookings struct {
	existing  []*domain.Booking
	filter    domain.BookingsFilter
	created   *domain.Booking
	createErr error
}

func (f *fakeBookings) GetByFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	f.filter = filter
	return f.existing, nil
}

func (f *fakeBookings) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := *booking
	created.ID = 100
	f.created = &created
	return &created, nil
}

type fakeSchedule struct {
	rules       []*domain.OperatingHoursRule
	constraints []*domain.DateConstraint
}

func (f *fakeSchedule) GetRulesByBarber(context.Context, *int64) ([]*domain.OperatingHoursRule, error) {
	return f.rules, nil
}

func (f *fakeSchedule) GetConstraintsInRange(context.Context, *int64, time.Time, time.Time) ([]*domain.DateConstraint, error) {
	return f.constraints, nil
}

type fakeSettings struct {
	settings *domain.BookingSettings
	err      error
}

func (f *fakeSettings) GetWithHierarchy(context.Context, *int64) (*domain.BookingSettings, error) {
	return f.settings, f.err
}

type fakeCatalog struct {
	service *domain.Service
	err     error
}

func (f *fakeCatalog) GetServiceByID(context.Context, int64) (*domain.Service, error) {
	return f.service, f.err
}

// fakeTx выполняет функцию без реальной транзакции
type fakeTx struct{ calls int }

func (f *fakeTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fixture struct {
	bookings *fakeBookings
	schedule *fakeSchedule
	settings *fakeSettings
	catalog  *fakeCatalog
	tx       *fakeTx
}

func newFixture() *fixture {
	return &fixture{
		bookings: &fakeBookings{},
		schedule: &fakeSchedule{rules: []*domain.OperatingHoursRule{{
			DayOfWeek: time.Monday,
			OpenTime:  types.NewTimeOfDay(9, 0),
			CloseTime: types.NewTimeOfDay(17, 0),
			Breaks: []domain.Break{
				{StartTime: types.NewTimeOfDay(12, 0), EndTime: types.NewTimeOfDay(13, 0)},
			},
			IsActive: true,
		}}},
		settings: &fakeSettings{settings: &domain.BookingSettings{BufferMinutes: 15, IncludeSharedBookings: true}},
		catalog: &fakeCatalog{service: &domain.Service{
			ID: 1, Name: "Haircut", DurationMinutes: 60, Price: 1500, IsActive: true,
		}},
		tx: &fakeTx{},
	}
}

func (f *fixture) useCase(now time.Time) *UseCase {
	return NewUseCase(f.bookings, f.schedule, f.settings, f.catalog, f.tx, logger.NewNop()).
		WithTimeProvider(fixedTime{now: now})
}

func (f *fixture) withBookingAtTen(barberID *int64) {
	f.bookings.existing = []*domain.Booking{{
		BarberID:        barberID,
		BookingDate:     monday,
		StartTime:       types.NewTimeOfDay(10, 0),
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
	}}
}

func request(barberID *int64, start types.TimeOfDay) *Request {
	return &Request{UserID: 42, BarberID: barberID, ServiceID: 1, Date: monday, StartTime: start}
}

func TestExecute_CreatesConfirmedBooking(t *testing.T) {
	f := newFixture()
	barber := ptr.Ptr(int64(3))
	f.withBookingAtTen(barber)

	resp, err := f.useCase(monday.Add(-12*time.Hour)).
		Execute(context.Background(), request(barber, types.NewTimeOfDay(13, 0)))

	require.NoError(t, err)
	assert.Equal(t, int64(100), resp.ID)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, "Haircut", resp.ServiceName)
	assert.Equal(t, 1500.0, resp.ServicePrice)
	assert.Equal(t, barber, resp.BarberID)
	assert.Equal(t, 1, f.tx.calls)

	assert.True(t, f.bookings.filter.IsSingleDate(), "single date filter locks rows")
	assert.True(t, f.bookings.filter.WithShared)
}

func TestExecute_RejectsStartsOutsideSlots(t *testing.T) {
	barber := ptr.Ptr(int64(3))

	tests := []struct {
		name  string
		start types.TimeOfDay
	}{
		{"overlaps existing booking", types.NewTimeOfDay(10, 0)},
		{"inside buffer after booking", types.NewTimeOfDay(11, 0)},
		{"runs into break", types.NewTimeOfDay(11, 15)},
		{"off the grid", types.NewTimeOfDay(13, 30)},
		{"past closing", types.NewTimeOfDay(16, 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.withBookingAtTen(barber)

			_, err := f.useCase(monday.Add(-12*time.Hour)).
				Execute(context.Background(), request(barber, tt.start))

			assert.ErrorIs(t, err, ErrSlotNotAvailable)
			assert.Nil(t, f.bookings.created)
		})
	}
}

func TestExecute_SharedBookingBlocksBarber(t *testing.T) {
	barber := ptr.Ptr(int64(3))
	f := newFixture()
	f.settings.settings.BufferMinutes = 0
	f.withBookingAtTen(nil)

	_, err := f.useCase(monday.Add(-12*time.Hour)).
		Execute(context.Background(), request(barber, types.NewTimeOfDay(10, 0)))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	f.settings.settings.IncludeSharedBookings = false
	_, err = f.useCase(monday.Add(-12*time.Hour)).
		Execute(context.Background(), request(barber, types.NewTimeOfDay(10, 0)))
	assert.NoError(t, err)
	assert.False(t, f.bookings.filter.WithShared)
}

func TestExecute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		prepare func(f *fixture)
		req     *Request
		wantErr error
	}{
		{
			name:    "missing user",
			now:     monday.Add(-12 * time.Hour),
			req:     &Request{ServiceID: 1, Date: monday, StartTime: types.NewTimeOfDay(9, 0)},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "start time out of range",
			now:     monday.Add(-12 * time.Hour),
			req:     request(nil, types.TimeOfDay(types.MinutesPerDay)),
			wantErr: ErrInvalidInput,
		},
		{
			name:    "service not found",
			now:     monday.Add(-12 * time.Hour),
			prepare: func(f *fixture) { f.catalog.err = catalogRepo.ErrServiceNotFound },
			req:     request(nil, types.NewTimeOfDay(9, 0)),
			wantErr: ErrServiceNotFound,
		},
		{
			name:    "date in past",
			now:     monday.AddDate(0, 0, 1),
			req:     request(nil, types.NewTimeOfDay(9, 0)),
			wantErr: ErrInvalidDate,
		},
		{
			name:    "beyond advance booking days",
			now:     monday.AddDate(0, 0, -10),
			prepare: func(f *fixture) { f.settings.settings.AdvanceBookingDays = 5 },
			req:     request(nil, types.NewTimeOfDay(9, 0)),
			wantErr: ErrDateTooFarInFuture,
		},
		{
			name: "minimum notice with default settings",
			now:  monday.Add(12*time.Hour + 30*time.Minute),
			prepare: func(f *fixture) {
				f.settings.settings = nil
				f.settings.err = settingsRepo.ErrSettingsNotFound
			},
			req:     request(nil, types.NewTimeOfDay(13, 0)),
			wantErr: ErrTooLateToBook,
		},
		{
			name:    "barber does not work that day",
			now:     monday.Add(-12 * time.Hour),
			req:     &Request{UserID: 42, ServiceID: 1, Date: monday.AddDate(0, 0, 1), StartTime: types.NewTimeOfDay(9, 0)},
			wantErr: ErrBarberNotWorking,
		},
		{
			name: "whole day blocked",
			now:  monday.Add(-12 * time.Hour),
			prepare: func(f *fixture) {
				f.schedule.constraints = []*domain.DateConstraint{
					{Date: monday, StartTime: types.NewTimeOfDay(0, 0), EndTime: types.NewTimeOfDay(23, 59)},
				}
			},
			req:     request(nil, types.NewTimeOfDay(9, 0)),
			wantErr: ErrBarberNotWorking,
		},
		{
			name:    "insert failure",
			now:     monday.Add(-12 * time.Hour),
			prepare: func(f *fixture) { f.bookings.createErr = errors.New("db down") },
			req:     request(nil, types.NewTimeOfDay(9, 0)),
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.prepare != nil {
				tt.prepare(f)
			}

			_, err := f.useCase(tt.now).Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
