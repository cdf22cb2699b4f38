package bookings

import (
	"context"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	Cancel(ctx context.Context, id int64, status domain.BookingStatus, reason string) error
}

// AccessPolicy права менеджеров и мастеров
type AccessPolicy interface {
	IsManager(userID int64) bool
	CanManageBarber(userID int64, barberID *int64) bool
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
