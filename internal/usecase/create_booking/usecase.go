package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/catalog"
	settingsRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/settings"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	settingsRepo SettingsRepository
	catalogRepo  CatalogRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	settingsRepo SettingsRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		settingsRepo: settingsRepo,
		catalogRepo:  catalogRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования.
// Проверка слота и вставка идут в одной сериализуемой транзакции,
// окна дня считаются заново без кэша.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, barber=%s, service=%d, date=%s, time=%s",
		req.UserID, formatBarber(req.BarberID), req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу
	service, err := uc.catalogRepo.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("CreateBooking: service id=%d is disabled", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	var result *domain.Booking

	// 4. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Настройки бронирования с учетом иерархии
		settings, err := uc.settingsRepo.GetWithHierarchy(txCtx, req.BarberID)
		if err != nil && !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			uc.logger.Error("CreateBooking: failed to get settings: %v", err)
			return fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
		}
		if settings == nil {
			settings = domain.DefaultBookingSettings()
			uc.logger.Info("CreateBooking: using default settings for barber=%s", formatBarber(req.BarberID))
		}

		// 4.2. Валидация даты и времени с учетом настроек
		if err := validateDate(req.Date, now, settings.AdvanceBookingDays); err != nil {
			uc.logger.Warn("CreateBooking: date validation failed: %v", err)
			return err
		}

		if err := validateBookingTime(req.Date, req.StartTime, now, settings.MinBookingNoticeMinutes); err != nil {
			uc.logger.Warn("CreateBooking: booking time validation failed: %v", err)
			return err
		}

		// 4.3. Рабочие окна на дату
		rules, err := uc.scheduleRepo.GetRulesByBarber(txCtx, req.BarberID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get operating hours: %v", err)
			return fmt.Errorf("%w: failed to get operating hours: %v", ErrInternal, err)
		}

		constraints, err := uc.scheduleRepo.GetConstraintsInRange(txCtx, req.BarberID, req.Date, req.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get date constraints: %v", err)
			return fmt.Errorf("%w: failed to get date constraints: %v", ErrInternal, err)
		}

		day := availability.ResolveDay(req.BarberID, req.Date, rules, constraints)
		if day.IsClosed() {
			uc.logger.Warn("CreateBooking: barber=%s does not work on %s",
				formatBarber(req.BarberID), req.Date.Format(domain.DateFormat))
			return ErrBarberNotWorking
		}

		// 4.4. Активные бронирования на дату с блокировкой (FOR UPDATE)
		scope := availability.ScopeFromSettings(settings)
		filter := domain.BookingsFilter{
			StartDate: &req.Date,
			EndDate:   &req.Date,
		}
		if req.BarberID == nil {
			filter.OnlyShared = true
		} else {
			filter.BarberID = req.BarberID
			filter.WithShared = scope == availability.ScopeWithShared
		}

		bookings, err := uc.bookingRepo.GetByFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 4.5. Время начала должно совпадать с одним из рассчитанных слотов
		duration := availability.EffectiveDuration(service.DurationMinutes, day)
		slots, err := availability.SlotsForDay(day, availability.Query{
			BarberID:        req.BarberID,
			Date:            req.Date,
			DurationMinutes: duration,
			BufferMinutes:   settings.BufferMinutes,
			Scope:           scope,
			Bookings:        bookings,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: engine rejected query: %v", err)
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}

		if !containsStart(slots, req.StartTime) {
			uc.logger.Warn("CreateBooking: start %s is not among %d available slots", req.StartTime, len(slots))
			return ErrSlotNotAvailable
		}

		// 4.6. Создаем бронирование с денормализацией данных услуги
		booking := &domain.Booking{
			UserID:          req.UserID,
			BarberID:        req.BarberID,
			ServiceID:       req.ServiceID,
			BookingDate:     req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: duration,
			Status:          domain.StatusConfirmed,
			ServiceName:     service.Name,
			ServicePrice:    service.Price,
			Notes:           req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	return &Response{
		ID:              result.ID,
		UserID:          result.UserID,
		BarberID:        result.BarberID,
		ServiceID:       result.ServiceID,
		BookingDate:     result.BookingDate,
		StartTime:       result.StartTime,
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		ServiceName:     result.ServiceName,
		ServicePrice:    result.ServicePrice,
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

func formatBarber(barberID *int64) string {
	if barberID == nil {
		return "shared"
	}
	return fmt.Sprintf("%d", *barberID)
}
