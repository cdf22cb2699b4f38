package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	BarberID  *int64    // ID мастера (nil - общий ресурс заведения)
	ServiceID int64     // ID услуги
	Date      time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time              // Дата, на которую запрашивались слоты
	BarberID        *int64                 // ID мастера
	ServiceID       int64                  // ID услуги
	DurationMinutes int                    // Длительность услуги, с которой считались слоты
	Slots           []domain.AvailableSlot // Доступные времена начала по возрастанию
}
