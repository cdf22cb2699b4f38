package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/schedule"
	settingsRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule/models"
)

// Service сервис управления расписанием мастеров: недельные правила, ограничения на даты, настройки.
// Любое изменение правил или ограничений сбрасывает кэш рабочих окон.
type Service struct {
	scheduleRepo ScheduleRepository
	settingsRepo SettingsRepository
	cache        WindowsCache
	access       AccessPolicy
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	scheduleRepo ScheduleRepository,
	settingsRepo SettingsRepository,
	cache WindowsCache,
	access AccessPolicy,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		settingsRepo: settingsRepo,
		cache:        cache,
		access:       access,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetSchedule получает правила мастера (и общие), ограничения на период [from, to] и действующие настройки
// Публичный метод - доступен всем
func (s *Service) GetSchedule(ctx context.Context, barberID *int64, from, to time.Time) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: fetching schedule for barber=%s, period=%s to %s",
		formatBarber(barberID), from.Format(domain.DateFormat), to.Format(domain.DateFormat))

	rules, err := s.scheduleRepo.GetRulesByBarber(ctx, barberID)
	if err != nil {
		s.logger.Error("GetSchedule: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetSchedule - rules: %v", ErrInternal, err)
	}

	constraints, err := s.scheduleRepo.GetConstraintsInRange(ctx, barberID, from, to)
	if err != nil {
		s.logger.Error("GetSchedule: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetSchedule - constraints: %v", ErrInternal, err)
	}

	settings, isDefault, err := s.effectiveSettings(ctx, barberID)
	if err != nil {
		return nil, err
	}

	resp := &models.ScheduleResponse{
		BarberID:    barberID,
		Rules:       make([]models.RuleResponse, 0, len(rules)),
		Constraints: make([]models.ConstraintResponse, 0, len(constraints)),
		Settings:    models.FromDomainSettings(settings, isDefault),
	}
	for _, r := range rules {
		resp.Rules = append(resp.Rules, models.FromDomainRule(r))
	}
	for _, c := range constraints {
		resp.Constraints = append(resp.Constraints, models.FromDomainConstraint(c))
	}

	s.logger.Info("GetSchedule: fetched %d rules and %d constraints", len(rules), len(constraints))
	return resp, nil
}

// UpsertRule создает или заменяет правило на день недели вместе с перерывами
// Доступно мастеру (для себя) и менеджерам
func (s *Service) UpsertRule(ctx context.Context, req *models.UpsertRuleRequest) (*models.RuleResponse, error) {
	s.logger.Info("UpsertRule: barber=%s, day=%s by user=%d", formatBarber(req.BarberID), req.DayOfWeek, req.UserID)

	rule := req.ToDomainRule()

	// 1. Валидируем входные данные
	if err := validateRule(rule); err != nil {
		s.logger.Warn("UpsertRule: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем права доступа
	if !s.access.CanManageBarber(req.UserID, req.BarberID) {
		s.logger.Warn("UpsertRule: user=%d cannot manage barber=%s", req.UserID, formatBarber(req.BarberID))
		return nil, ErrAccessDenied
	}

	// 3. Правило и его перерывы пишем в одной транзакции
	var saved *domain.OperatingHoursRule
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		saved, err = s.scheduleRepo.UpsertRule(txCtx, rule)
		return err
	})
	if err != nil {
		s.logger.Error("UpsertRule: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpsertRule - repository error: %v", ErrInternal, err)
	}

	// 4. Сбрасываем кэш окон
	s.invalidate(ctx, "UpsertRule", req.BarberID)

	s.logger.Info("UpsertRule: saved rule id=%d", saved.ID)
	resp := models.FromDomainRule(saved)
	return &resp, nil
}

// CreateConstraint закрывает интервал времени на дату
// Доступно мастеру (для себя) и менеджерам; глобальные ограничения только менеджерам
func (s *Service) CreateConstraint(ctx context.Context, req *models.CreateConstraintRequest) (*models.ConstraintResponse, error) {
	s.logger.Info("CreateConstraint: barber=%s, date=%s, %s-%s by user=%d",
		formatBarber(req.BarberID), req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime, req.UserID)

	constraint := req.ToDomainConstraint()

	if err := validateConstraint(constraint); err != nil {
		s.logger.Warn("CreateConstraint: validation failed: %v", err)
		return nil, err
	}

	if !s.access.CanManageBarber(req.UserID, req.BarberID) {
		s.logger.Warn("CreateConstraint: user=%d cannot manage barber=%s", req.UserID, formatBarber(req.BarberID))
		return nil, ErrAccessDenied
	}

	created, err := s.scheduleRepo.CreateConstraint(ctx, constraint)
	if err != nil {
		s.logger.Error("CreateConstraint: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateConstraint - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, "CreateConstraint", req.BarberID)

	s.logger.Info("CreateConstraint: created constraint id=%d", created.ID)
	resp := models.FromDomainConstraint(created)
	return &resp, nil
}

// DeleteConstraint удаляет ограничение.
// Удаление и проверка прав в одной транзакции: при отказе в доступе удаление откатывается.
func (s *Service) DeleteConstraint(ctx context.Context, id int64, userID int64) error {
	s.logger.Info("DeleteConstraint: deleting constraint id=%d by user=%d", id, userID)

	var deleted *domain.DateConstraint
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		deleted, err = s.scheduleRepo.DeleteConstraint(txCtx, id)
		if err != nil {
			return err
		}
		if !s.access.CanManageBarber(userID, deleted.BarberID) {
			return ErrAccessDenied
		}
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, ErrAccessDenied):
		s.logger.Warn("DeleteConstraint: user=%d cannot delete constraint id=%d", userID, id)
		return ErrAccessDenied
	case errors.Is(err, scheduleRepo.ErrConstraintNotFound):
		s.logger.Warn("DeleteConstraint: constraint id=%d not found", id)
		return ErrConstraintNotFound
	default:
		s.logger.Error("DeleteConstraint: repository error for constraint id=%d: %v", id, err)
		return fmt.Errorf("%w: DeleteConstraint - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, "DeleteConstraint", deleted.BarberID)

	s.logger.Info("DeleteConstraint: successfully deleted constraint id=%d", id)
	return nil
}

// UpdateSettings частично обновляет настройки уровня мастера (или заведения при nil)
// Настройки не влияют на рабочие окна, поэтому кэш не сбрасывается
func (s *Service) UpdateSettings(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("UpdateSettings: barber=%s by user=%d", formatBarber(req.BarberID), req.UserID)

	if !s.access.CanManageBarber(req.UserID, req.BarberID) {
		s.logger.Warn("UpdateSettings: user=%d cannot manage barber=%s", req.UserID, formatBarber(req.BarberID))
		return nil, ErrAccessDenied
	}

	// 1. Текущие настройки именно этого уровня, без наследования
	current, err := s.settingsRepo.GetByBarber(ctx, req.BarberID)
	if err != nil {
		if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Error("UpdateSettings: repository error: %v", err)
			return nil, fmt.Errorf("%w: UpdateSettings - repository error: %v", ErrInternal, err)
		}
		current = domain.DefaultBookingSettings()
		current.BarberID = req.BarberID
	}

	// 2. Применяем обновления к копии и валидируем
	updated := *current
	req.ApplyToSettings(&updated)
	if err := validateSettings(&updated); err != nil {
		s.logger.Warn("UpdateSettings: validation failed: %v", err)
		return nil, err
	}

	// 3. Сохраняем
	saved, err := s.settingsRepo.Upsert(ctx, &updated)
	if err != nil {
		s.logger.Error("UpdateSettings: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpdateSettings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateSettings: saved settings id=%d", saved.ID)
	resp := models.FromDomainSettings(saved, false)
	return &resp, nil
}

func (s *Service) effectiveSettings(ctx context.Context, barberID *int64) (*domain.BookingSettings, bool, error) {
	settings, err := s.settingsRepo.GetWithHierarchy(ctx, barberID)
	if err == nil {
		return settings, false, nil
	}
	if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
		return domain.DefaultBookingSettings(), true, nil
	}
	s.logger.Error("effectiveSettings: repository error: %v", err)
	return nil, false, fmt.Errorf("%w: settings - repository error: %v", ErrInternal, err)
}

// invalidate сбрасывает кэш окон; общий ресурс (nil) сбрасывает кэш целиком.
// Ошибка кэша не отменяет уже сохраненное изменение.
func (s *Service) invalidate(ctx context.Context, op string, barberID *int64) {
	if err := s.cache.InvalidateBarber(ctx, barberID); err != nil {
		s.logger.Error("%s: failed to invalidate windows cache for barber=%s: %v", op, formatBarber(barberID), err)
	}
}

func formatBarber(barberID *int64) string {
	if barberID == nil {
		return "shared"
	}
	return fmt.Sprintf("%d", *barberID)
}
