package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string          `json:"date"`
	BarberID        *int64          `json:"barberId"`
	ServiceID       int64           `json:"serviceId"`
	DurationMinutes int             `json:"durationMinutes"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime:       resp.Slots[i].StartTime.String(),
			EndTime:         resp.Slots[i].EndTime().String(),
			DurationMinutes: resp.Slots[i].DurationMinutes,
		}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		BarberID:        resp.BarberID,
		ServiceID:       resp.ServiceID,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}

// ToUseCaseRequest создает запрос use case из параметров пути и query
func ToUseCaseRequest(barberID *int64, serviceID int64, date time.Time) *getAvailableSlots.Request {
	return &getAvailableSlots.Request{
		BarberID:  barberID,
		ServiceID: serviceID,
		Date:      date,
	}
}
