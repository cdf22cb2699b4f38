package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/catalog"
	settingsRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/settings"
)

const engineOperation = "day_slots"

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	settingsRepo SettingsRepository
	catalogRepo  CatalogRepository
	cache        WindowsCache
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	settingsRepo SettingsRepository,
	catalogRepo CatalogRepository,
	cache WindowsCache,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		settingsRepo: settingsRepo,
		catalogRepo:  catalogRepo,
		cache:        cache,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: barber=%s, service=%d, date=%s",
		formatBarber(req.BarberID), req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу
	service, err := uc.catalogRepo.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("GetAvailableSlots: service id=%d is disabled", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 4. Получаем настройки бронирования с учетом иерархии
	settings, err := uc.settingsRepo.GetWithHierarchy(ctx, req.BarberID)
	if err != nil && !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	// Если настройки не найдены, используем дефолтные значения
	if settings == nil {
		settings = domain.DefaultBookingSettings()
		uc.logger.Info("GetAvailableSlots: using default settings for barber=%s", formatBarber(req.BarberID))
	}

	// 5. Валидация даты с учетом настроек
	if err := validateDate(req.Date, now, settings.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	response := &Response{
		Date:      req.Date,
		BarberID:  req.BarberID,
		ServiceID: req.ServiceID,
		Slots:     []domain.AvailableSlot{},
	}

	// 6. Получаем рабочие окна на дату
	day, err := uc.resolveDay(ctx, req.BarberID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to resolve windows: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	response.DurationMinutes = availability.EffectiveDuration(service.DurationMinutes, day)

	if day.IsClosed() {
		uc.logger.Info("GetAvailableSlots: barber=%s does not work on %s",
			formatBarber(req.BarberID), req.Date.Format(domain.DateFormat))
		return response, nil
	}

	// 7. Получаем бронирования, занимающие время мастера
	scope := availability.ScopeFromSettings(settings)

	bookings, err := uc.bookingRepo.GetByFilter(ctx, bookingsFilter(req.BarberID, req.Date, scope))
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 8. Считаем слоты
	started := uc.timeProvider.Now()
	starts, err := availability.SlotsForDay(day, availability.Query{
		BarberID:        req.BarberID,
		Date:            req.Date,
		DurationMinutes: service.DurationMinutes,
		BufferMinutes:   settings.BufferMinutes,
		Now:             noticeAdjustedNow(now, settings.MinBookingNoticeMinutes),
		Scope:           scope,
		Bookings:        bookings,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: engine rejected query: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	uc.metrics.ObserveEngine(engineOperation, uc.timeProvider.Now().Sub(started), len(starts))

	response.Slots = toAvailableSlots(starts, response.DurationMinutes)

	uc.logger.Info("GetAvailableSlots: generated %d slots for barber=%s, service=%d, date=%s",
		len(response.Slots), formatBarber(req.BarberID), req.ServiceID, req.Date.Format(domain.DateFormat))

	return response, nil
}

func formatBarber(barberID *int64) string {
	if barberID == nil {
		return "shared"
	}
	return fmt.Sprintf("%d", *barberID)
}
