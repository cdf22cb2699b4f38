package get_day_availability

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Request модель запроса сводки доступности по дням
type Request struct {
	BarberID  *int64    // ID мастера (nil - общий ресурс заведения)
	ServiceID int64     // ID услуги
	From      time.Time // Первый день горизонта
	Days      int       // Количество дней (0 - значение по умолчанию из конфигурации)
}

// Response сводка: количество свободных слотов на каждый день горизонта
type Response struct {
	BarberID        *int64
	ServiceID       int64
	DurationMinutes int                      // собственная длительность услуги, 0 - зависит от правила дня
	Days            []domain.DayAvailability // по возрастанию даты
}

// Options ограничения горизонта и параллелизма расчета
type Options struct {
	DefaultHorizonDays int
	MaxHorizonDays     int
	Workers            int
}
