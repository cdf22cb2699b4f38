package get_day_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/catalog"
	settingsRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/settings"
)

const engineOperation = "day_availability"

// UseCase use case сводки доступности мастера по дням
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	settingsRepo SettingsRepository
	catalogRepo  CatalogRepository
	metrics      Metrics
	options      Options
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	settingsRepo SettingsRepository,
	catalogRepo CatalogRepository,
	metrics Metrics,
	options Options,
	logger Logger,
) *UseCase {
	if options.DefaultHorizonDays <= 0 {
		options.DefaultHorizonDays = domain.DefaultHorizonDays
	}

	return &UseCase{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		settingsRepo: settingsRepo,
		catalogRepo:  catalogRepo,
		metrics:      metrics,
		options:      options,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute считает количество свободных слотов на каждый день горизонта
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetDayAvailability: barber=%s, service=%d, from=%s, days=%d",
		formatBarber(req.BarberID), req.ServiceID, req.From.Format(domain.DateFormat), req.Days)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetDayAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Горизонт не может начинаться в прошлом
	now := uc.timeProvider.Now()
	if isDateInPast(req.From, now) {
		uc.logger.Warn("GetDayAvailability: from=%s is in the past", req.From.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 3. Получаем услугу
	service, err := uc.catalogRepo.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetDayAvailability: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetDayAvailability: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		return nil, ErrServiceNotFound
	}

	// 4. Настройки бронирования с учетом иерархии
	settings, err := uc.settingsRepo.GetWithHierarchy(ctx, req.BarberID)
	if err != nil && !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
		uc.logger.Error("GetDayAvailability: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}
	if settings == nil {
		settings = domain.DefaultBookingSettings()
	}

	// Без собственной длительности у услуги слоты идут с шагом правила дня,
	// поэтому общая длительность не указывается, а каждая дата несет свою.
	response := &Response{
		BarberID:        req.BarberID,
		ServiceID:       req.ServiceID,
		DurationMinutes: service.DurationMinutes,
		Days:            []domain.DayAvailability{},
	}

	// 5. Горизонт с учетом конфигурации и advanceBookingDays
	from := domain.DateOnly(req.From)
	days := horizonDays(req.Days, from, now, uc.options, settings.AdvanceBookingDays)
	if days == 0 {
		return response, nil
	}
	to := from.AddDate(0, 0, days-1)

	// 6. Загружаем расписание, ограничения и бронирования за весь горизонт одним запросом каждое
	rules, err := uc.scheduleRepo.GetRulesByBarber(ctx, req.BarberID)
	if err != nil {
		uc.logger.Error("GetDayAvailability: failed to get operating hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get operating hours: %v", ErrInternal, err)
	}

	constraints, err := uc.scheduleRepo.GetConstraintsInRange(ctx, req.BarberID, from, to)
	if err != nil {
		uc.logger.Error("GetDayAvailability: failed to get date constraints: %v", err)
		return nil, fmt.Errorf("%w: failed to get date constraints: %v", ErrInternal, err)
	}

	scope := availability.ScopeFromSettings(settings)

	bookings, err := uc.bookingRepo.GetByFilter(ctx, bookingsFilter(req.BarberID, from, to, scope))
	if err != nil {
		uc.logger.Error("GetDayAvailability: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 7. Считаем слоты по дням
	started := uc.timeProvider.Now()
	counts, err := availability.ComputeDayAvailability(availability.HorizonQuery{
		BarberID:        req.BarberID,
		From:            from,
		Days:            days,
		DurationMinutes: service.DurationMinutes,
		BufferMinutes:   settings.BufferMinutes,
		Now:             now.Add(time.Duration(settings.MinBookingNoticeMinutes) * time.Minute),
		Scope:           scope,
		Rules:           rules,
		Constraints:     constraints,
		Bookings:        bookings,
		Workers:         uc.options.Workers,
	})
	if err != nil {
		uc.logger.Error("GetDayAvailability: engine rejected query: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	total := 0
	for i := 0; i < days; i++ {
		date := from.AddDate(0, 0, i)
		count := counts[date.Format(domain.DateFormat)]
		total += count
		response.Days = append(response.Days, domain.DayAvailability{
			Date:            date,
			AvailableSlots:  count,
			DurationMinutes: dayDuration(req.BarberID, date, service.DurationMinutes, rules, constraints),
		})
	}
	uc.metrics.ObserveEngine(engineOperation, uc.timeProvider.Now().Sub(started), total)

	uc.logger.Info("GetDayAvailability: %d slots over %d days for barber=%s", total, days, formatBarber(req.BarberID))

	return response, nil
}

// dayDuration длительность, с которой генератор шагает в этот день
func dayDuration(
	barberID *int64,
	date time.Time,
	serviceDuration int,
	rules []*domain.OperatingHoursRule,
	constraints []*domain.DateConstraint,
) int {
	if serviceDuration > 0 {
		return serviceDuration
	}
	return availability.EffectiveDuration(0, availability.ResolveDay(barberID, date, rules, constraints))
}

// bookingsFilter выборка бронирований горизонта
func bookingsFilter(barberID *int64, from, to time.Time, scope availability.ScopeMode) domain.BookingsFilter {
	filter := domain.BookingsFilter{
		StartDate: &from,
		EndDate:   &to,
	}

	if barberID == nil {
		filter.OnlyShared = true
	} else {
		filter.BarberID = barberID
		filter.WithShared = scope == availability.ScopeWithShared
	}

	return filter
}

func formatBarber(barberID *int64) string {
	if barberID == nil {
		return "shared"
	}
	return fmt.Sprintf("%d", *barberID)
}
