package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/cache/windows"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetRulesByBarber(ctx context.Context, barberID *int64) ([]*domain.OperatingHoursRule, error)
	GetConstraintsInRange(ctx context.Context, barberID *int64, from, to time.Time) ([]*domain.DateConstraint, error)
}

// SettingsRepository интерфейс репозитория настроек бронирования
type SettingsRepository interface {
	// GetWithHierarchy получает настройки с учетом иерархии: мастер -> заведение
	GetWithHierarchy(ctx context.Context, barberID *int64) (*domain.BookingSettings, error)
}

// CatalogRepository интерфейс каталога услуг
type CatalogRepository interface {
	GetServiceByID(ctx context.Context, id int64) (*domain.Service, error)
}

// WindowsCache кэш рассчитанных рабочих окон.
// Set получает поколение из Get: окна, рассчитанные до инвалидации, не сохраняются.
type WindowsCache interface {
	Get(ctx context.Context, barberID *int64, date time.Time) (availability.ResolvedDay, windows.Generation, bool, error)
	Set(ctx context.Context, barberID *int64, date time.Time, gen windows.Generation, day availability.ResolvedDay) error
}

// Metrics метрики расчета доступности
type Metrics interface {
	ObserveEngine(operation string, duration time.Duration, produced int)
	CacheHit()
	CacheMiss()
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
