package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetRulesByBarber(ctx context.Context, barberID *int64) ([]*domain.OperatingHoursRule, error)
	GetConstraintsInRange(ctx context.Context, barberID *int64, from, to time.Time) ([]*domain.DateConstraint, error)
}

// SettingsRepository интерфейс репозитория настроек бронирования
type SettingsRepository interface {
	GetWithHierarchy(ctx context.Context, barberID *int64) (*domain.BookingSettings, error)
}

// CatalogRepository интерфейс каталога услуг
type CatalogRepository interface {
	GetServiceByID(ctx context.Context, id int64) (*domain.Service, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
