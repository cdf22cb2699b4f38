package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// ScheduleRepository интерфейс репозитория правил и ограничений
type ScheduleRepository interface {
	GetRulesByBarber(ctx context.Context, barberID *int64) ([]*domain.OperatingHoursRule, error)
	UpsertRule(ctx context.Context, rule *domain.OperatingHoursRule) (*domain.OperatingHoursRule, error)
	GetConstraintsInRange(ctx context.Context, barberID *int64, from, to time.Time) ([]*domain.DateConstraint, error)
	CreateConstraint(ctx context.Context, c *domain.DateConstraint) (*domain.DateConstraint, error)
	DeleteConstraint(ctx context.Context, id int64) (*domain.DateConstraint, error)
}

// SettingsRepository интерфейс репозитория настроек бронирования
type SettingsRepository interface {
	GetByBarber(ctx context.Context, barberID *int64) (*domain.BookingSettings, error)
	GetWithHierarchy(ctx context.Context, barberID *int64) (*domain.BookingSettings, error)
	Upsert(ctx context.Context, s *domain.BookingSettings) (*domain.BookingSettings, error)
}

// WindowsCache кэш рабочих окон, который сбрасывается при изменении расписания
type WindowsCache interface {
	InvalidateBarber(ctx context.Context, barberID *int64) error
}

// AccessPolicy права менеджеров и мастеров
type AccessPolicy interface {
	CanManageBarber(userID int64, barberID *int64) bool
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
