package get_day_availability

import (
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	getDayAvailability "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_day_availability"
)

// DayAvailabilityResponse HTTP response model
type DayAvailabilityResponse struct {
	BarberID        *int64 `json:"barberId"`
	ServiceID       int64  `json:"serviceId"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
	Days            []Day  `json:"days"`
}

// Day количество свободных слотов на дату
type Day struct {
	Date            string `json:"date"`
	AvailableSlots  int    `json:"availableSlots"`
	DurationMinutes int    `json:"durationMinutes"`
	FullyBooked     bool   `json:"fullyBooked"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getDayAvailability.Response) *DayAvailabilityResponse {
	days := make([]Day, len(resp.Days))
	for i := range resp.Days {
		days[i] = Day{
			Date:            resp.Days[i].Date.Format(domain.DateFormat),
			AvailableSlots:  resp.Days[i].AvailableSlots,
			DurationMinutes: resp.Days[i].DurationMinutes,
			FullyBooked:     resp.Days[i].IsFullyBooked(),
		}
	}

	return &DayAvailabilityResponse{
		BarberID:        resp.BarberID,
		ServiceID:       resp.ServiceID,
		DurationMinutes: resp.DurationMinutes,
		Days:            days,
	}
}
