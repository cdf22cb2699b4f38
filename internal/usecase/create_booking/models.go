package create_booking

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID    int64           // ID пользователя
	BarberID  *int64          // ID мастера (nil - без конкретного мастера)
	ServiceID int64           // ID услуги
	Date      time.Time       // Дата бронирования (без времени)
	StartTime types.TimeOfDay // Время начала слота
	Notes     *string         // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64
	UserID          int64
	BarberID        *int64
	ServiceID       int64
	BookingDate     time.Time
	StartTime       types.TimeOfDay
	DurationMinutes int
	Status          string

	// Денормализованные данные
	ServiceName  string
	ServicePrice float64
	Notes        *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
