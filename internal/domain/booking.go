package domain

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending             BookingStatus = "pending"
	StatusConfirmed           BookingStatus = "confirmed"
	StatusInProgress          BookingStatus = "in_progress"
	StatusCompleted           BookingStatus = "completed"
	StatusCancelledByUser     BookingStatus = "cancelled_by_user"
	StatusCancelledByBusiness BookingStatus = "cancelled_by_business"
	StatusNoShow              BookingStatus = "no_show"
)

// Booking represents an appointment with a barber (or with the shop itself when BarberID is nil)
type Booking struct {
	ID              int64
	UserID          int64
	BarberID        *int64 // NULL = shared/default resource, no specific barber
	ServiceID       int64
	BookingDate     time.Time
	StartTime       types.TimeOfDay
	DurationMinutes int
	Status          BookingStatus

	// Denormalized data for history
	ServiceName  string
	ServicePrice float64
	Notes        *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndTime returns the end of the booking; it is not wrapped past midnight
func (b *Booking) EndTime() types.TimeOfDay {
	return b.StartTime + types.TimeOfDay(b.DurationMinutes)
}

// IsActive returns true if the booking still occupies its time
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelledByUser &&
		b.Status != StatusCancelledByBusiness &&
		b.Status != StatusNoShow
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelledByUser || b.Status == StatusCancelledByBusiness
}

// IsCompleted returns true if the booking is completed or was a no-show
func (b *Booking) IsCompleted() bool {
	return b.Status == StatusCompleted || b.Status == StatusNoShow
}

// BookingsFilter фильтр для выборки бронирований
type BookingsFilter struct {
	BarberID        *int64         // Фильтр по мастеру (nil - все мастера)
	OnlyShared      bool           // Только бронирования без мастера (barber_id IS NULL)
	WithShared      bool           // Добавить к выборке по BarberID бронирования без мастера
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отмененные и no-show
}

// IsSingleDate returns true if the filter targets exactly one date
func (f BookingsFilter) IsSingleDate() bool {
	return f.StartDate != nil && f.EndDate != nil && f.StartDate.Equal(*f.EndDate)
}
